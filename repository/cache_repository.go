package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// CacheKey derives a stable key from the calculator kind and its input.
// Inputs are hashed through their JSON encoding, so two requests that decode
// to the same struct share a key.
func CacheKey(kind string, input any) (string, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("encoding cache key input: %w", err)
	}
	return fmt.Sprintf("%s:%016x", kind, xxhash.Sum64(raw)), nil
}
