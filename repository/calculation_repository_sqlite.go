package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"realty-calc/domain"
	"realty-calc/finance"
)

var calculationsSchema = []string{
	`CREATE TABLE IF NOT EXISTS calculations (
		id         TEXT PRIMARY KEY,
		kind       TEXT NOT NULL,
		input      TEXT NOT NULL,
		output     TEXT NOT NULL,
		status     TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_calculations_kind_created ON calculations (kind, created_at)`,
}

// CalculationRepositorySQLite keeps calculations in a SQLite database file.
type CalculationRepositorySQLite struct {
	db *sql.DB
}

var _ CalculationRepository = (*CalculationRepositorySQLite)(nil)

func NewCalculationRepositorySQLite(path string) (*CalculationRepositorySQLite, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range calculationsSchema {
		if _, err := db.ExecContext(context.Background(), stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating calculations schema: %w", err)
		}
	}
	return &CalculationRepositorySQLite{db: db}, nil
}

func (r *CalculationRepositorySQLite) Save(ctx context.Context, calc domain.Calculation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO calculations (id, kind, input, output, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		calc.ID, string(calc.Kind), string(calc.Input), string(calc.Output), string(calc.Status), calc.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving calculation %s: %w", calc.ID, err)
	}
	return nil
}

func (r *CalculationRepositorySQLite) List(
	ctx context.Context,
	kind domain.CalculationKind,
	limit int,
) ([]domain.Calculation, error) {
	query := `SELECT id, kind, input, output, status, created_at FROM calculations`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing calculations: %w", err)
	}
	defer rows.Close()

	out := []domain.Calculation{}
	for rows.Next() {
		var (
			calc          domain.Calculation
			kindStr       string
			input, output string
			status        string
			createdAt     int64
		)
		if err := rows.Scan(&calc.ID, &kindStr, &input, &output, &status, &createdAt); err != nil {
			return nil, err
		}
		calc.Kind = domain.CalculationKind(kindStr)
		calc.Input = []byte(input)
		calc.Output = []byte(output)
		calc.Status = finance.Status(status)
		calc.CreatedAt = time.Unix(0, createdAt).UTC()
		out = append(out, calc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CalculationRepositorySQLite) Close() error {
	return r.db.Close()
}
