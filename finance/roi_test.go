package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeROI(t *testing.T) {
	tests := []struct {
		name string
		in   ROIInputs
		want ROIResult
	}{
		{
			name: "default form values",
			in:   ROIInputs{PropertyPrice: 10000, MonthlyRent: 10000, LockInYears: 20, TenureYears: 20},
			want: ROIResult{ROI: 23900, TotalReturns: 2400000, MonthlyReturn: 100, YearlyReturn: 1200, Status: StatusOK},
		},
		{
			name: "apartment",
			in:   ROIInputs{PropertyPrice: 5000000, MonthlyRent: 25000, LockInYears: 3, TenureYears: 9},
			want: ROIResult{ROI: -46, TotalReturns: 2700000, MonthlyReturn: 0.5, YearlyReturn: 6, Status: StatusOK},
		},
		{
			name: "zero price",
			in:   ROIInputs{PropertyPrice: 0, MonthlyRent: 10000, LockInYears: 1, TenureYears: 5},
			want: ROIResult{Status: StatusInvalidInput},
		},
		{
			name: "no rent",
			in:   ROIInputs{PropertyPrice: 100000, TenureYears: 5},
			want: ROIResult{ROI: -100, Status: StatusOK},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeROI(tt.in)
			assert.InDelta(t, tt.want.ROI, got.ROI, 1e-9)
			assert.InDelta(t, tt.want.TotalReturns, got.TotalReturns, 1e-9)
			assert.InDelta(t, tt.want.MonthlyReturn, got.MonthlyReturn, 1e-9)
			assert.InDelta(t, tt.want.YearlyReturn, got.YearlyReturn, 1e-9)
			assert.Equal(t, tt.want.Status, got.Status)
		})
	}
}

func TestComputeROI_Idempotent(t *testing.T) {
	in := ROIInputs{PropertyPrice: 3250000, MonthlyRent: 18500, LockInYears: 3, TenureYears: 9}
	assert.Equal(t, ComputeROI(in), ComputeROI(in))
}
