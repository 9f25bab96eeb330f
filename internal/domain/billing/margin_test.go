package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func TestCalculateMarginsDefaultBranch(t *testing.T) {
	out, err := CalculateMargins(MarginInput{
		CustomerTotal:     d(1000),
		JDTotal:           d(400),
		PaperChargedTotal: d(100),
		PaperCostTotal:    d(80),
	})
	require.NoError(t, err)

	// totalMargin = 1000 - 400 - 100 = 500, split 50/50
	assert.True(t, out.ImpactMargin.Equal(d(250)), "impact margin = %s", out.ImpactMargin)
	// Bradford additionally keeps the paper markup: 1000 - 400 - 80 - 250 = 270
	assert.True(t, out.BradfordTotalMargin.Equal(d(270)), "bradford total margin = %s", out.BradfordTotalMargin)
	assert.True(t, out.BradfordPaperMargin.Equal(d(20)), "bradford paper margin = %s", out.BradfordPaperMargin)
	assert.True(t, out.BradfordPrintMargin.Equal(d(250)), "bradford print margin = %s", out.BradfordPrintMargin)
}

func TestCalculateMarginsJDSuppliesPaper(t *testing.T) {
	out, err := CalculateMargins(MarginInput{
		CustomerTotal:   d(1000),
		BradfordTotal:   d(700),
		JDTotal:         d(400),
		JDSuppliesPaper: true,
		// paper fields are irrelevant in this branch
		PaperCostTotal:    d(80),
		PaperChargedTotal: d(100),
	})
	require.NoError(t, err)

	assert.True(t, out.ImpactMargin.Equal(d(100)), "impact margin = %s", out.ImpactMargin)
	assert.True(t, out.BradfordTotalMargin.Equal(d(300)), "bradford total margin = %s", out.BradfordTotalMargin)
	assert.True(t, out.BradfordPaperMargin.IsZero())
	assert.True(t, out.BradfordPrintMargin.Equal(d(300)))
}

func TestCalculateMarginsBradfordWaivesPaperMargin(t *testing.T) {
	out, err := CalculateMargins(MarginInput{
		CustomerTotal:             d(1000),
		JDTotal:                   d(400),
		PaperChargedTotal:         d(100),
		PaperCostTotal:            d(80),
		BradfordWaivesPaperMargin: true,
	})
	require.NoError(t, err)

	// totalMargin = 500, pure 50/50 split, paper markup forgone
	assert.True(t, out.ImpactMargin.Equal(d(250)))
	assert.True(t, out.BradfordTotalMargin.Equal(d(250)))
	assert.True(t, out.BradfordPaperMargin.IsZero())
	assert.True(t, out.BradfordPrintMargin.Equal(d(250)))
}

func TestCalculateMarginsJDSuppliesPaperTakesPrecedence(t *testing.T) {
	// Both flags set should never happen at intake, but the calculator
	// must still pick a single branch deterministically.
	out, err := CalculateMargins(MarginInput{
		CustomerTotal:             d(1000),
		BradfordTotal:             d(700),
		JDTotal:                   d(400),
		JDSuppliesPaper:           true,
		BradfordWaivesPaperMargin: true,
	})
	require.NoError(t, err)
	assert.True(t, out.ImpactMargin.Equal(d(100)))
}

func TestCalculateMarginsNegativeMargin(t *testing.T) {
	t.Run("negative bradford margin in jd-supplies branch", func(t *testing.T) {
		_, err := CalculateMargins(MarginInput{
			CustomerTotal:   d(1000),
			BradfordTotal:   d(300),
			JDTotal:         d(400),
			JDSuppliesPaper: true,
		})
		require.Error(t, err)
		assert.Equal(t, ErrNegativeMargin, err)
	})

	t.Run("negative split margin in default branch", func(t *testing.T) {
		_, err := CalculateMargins(MarginInput{
			CustomerTotal:     d(400),
			JDTotal:           d(400),
			PaperChargedTotal: d(100),
			PaperCostTotal:    d(80),
		})
		require.Error(t, err)
		assert.Equal(t, ErrNegativeMargin, err)
	})
}

func TestCalculateMarginsIsPure(t *testing.T) {
	in := MarginInput{
		CustomerTotal:     d(1000),
		JDTotal:           d(400),
		PaperChargedTotal: d(100),
		PaperCostTotal:    d(80),
	}

	first, err := CalculateMargins(in)
	require.NoError(t, err)
	second, err := CalculateMargins(in)
	require.NoError(t, err)

	assert.True(t, first.ImpactMargin.Equal(second.ImpactMargin))
	assert.True(t, first.BradfordTotalMargin.Equal(second.BradfordTotalMargin))
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(d(100.00), d(100.00)))
	assert.True(t, WithinTolerance(d(100.00), d(100.01)))
	assert.True(t, WithinTolerance(d(100.01), d(100.00)))
	assert.False(t, WithinTolerance(d(100.00), d(100.02)))
	assert.False(t, WithinTolerance(d(100.00), d(99.98)))
}
