package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realty-calc/domain"
	"realty-calc/finance"
)

func runCalc(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ADVISOR_API_KEY", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalcLoan_JSON(t *testing.T) {
	out, err := runCalc(t, "loan", "--principal", "10000", "--rate", "9.85", "--years", "20", "--points", "2", "--json")
	require.NoError(t, err)

	var result domain.LoanResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, finance.StatusOK, result.Status)
	assert.Equal(t, 95.51, result.MonthlyPayment)
	assert.Len(t, result.Schedule, 2)
}

func TestCalcIRR_Table(t *testing.T) {
	out, err := runCalc(t, "irr", "--investment", "100000", "--flows", "20000,25000,30000,35000,40000")
	require.NoError(t, err)
	assert.Contains(t, out, "13.4531%")
	assert.Contains(t, out, "ok")
}

func TestCalcROI_Explain(t *testing.T) {
	out, err := runCalc(t, "roi", "--price", "300000", "--rent", "1000", "--tenure", "3", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, "-88.0000%")
	assert.Contains(t, out, "Rent over 3.0 years totals 36000.00")
}

func TestCalcCompareTerms(t *testing.T) {
	out, err := runCalc(t, "compare-terms", "--principal", "200000", "--rate", "6", "--min", "10", "--max", "30",
		"--budget", "1500", "--preference", "minimize_interest", "--json")
	require.NoError(t, err)

	var result domain.TermComparisonResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 19, result.RecommendedTermYears)
}

func TestCalcLoan_LimitError(t *testing.T) {
	_, err := runCalc(t, "loan", "--principal", "10000", "--rate", "5000", "--years", "20")
	assert.Error(t, err)
}

func TestCalc_MissingRequiredFlag(t *testing.T) {
	_, err := runCalc(t, "roi", "--rent", "1000")
	assert.Error(t, err)
}
