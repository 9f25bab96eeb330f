package billing

import (
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AmountTolerance is the epsilon for all amount equality checks.
// Amounts within one cent of each other are considered equal.
var AmountTolerance = decimal.NewFromFloat(0.01)

// ErrNegativeMargin is returned when a margin formula produces a negative
// impact or Bradford margin, which indicates inconsistent job financials.
var ErrNegativeMargin = shared.NewDomainError("VALIDATION_ERROR", "Computed margin is negative")

// WithinTolerance reports whether two amounts are equal within AmountTolerance
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(AmountTolerance)
}

// MarginInput carries the job-level financial fields and routing flags
// the margin formulas operate on.
type MarginInput struct {
	CustomerTotal             decimal.Decimal
	BradfordTotal             decimal.Decimal
	JDTotal                   decimal.Decimal
	PaperCostTotal            decimal.Decimal
	PaperChargedTotal         decimal.Decimal
	JDSuppliesPaper           bool
	BradfordWaivesPaperMargin bool
}

// MarginBreakdown is the result of a margin calculation.
// BradfordTotalMargin = BradfordPaperMargin + BradfordPrintMargin.
type MarginBreakdown struct {
	ImpactMargin        decimal.Decimal
	BradfordTotalMargin decimal.Decimal
	BradfordPaperMargin decimal.Decimal
	BradfordPrintMargin decimal.Decimal
}

var (
	two        = decimal.NewFromInt(2)
	tenPercent = decimal.NewFromFloat(0.10)
)

// CalculateMargins computes each party's margin from the job financials.
// Exactly one of three mutually exclusive formulas applies, selected by the
// routing flags (JDSuppliesPaper takes precedence):
//
//   - JD supplies paper: Impact takes a flat 10% of the customer total and
//     Bradford retains the full spread between its price and JD's, because
//     Bradford buys no paper.
//   - Bradford waives its paper margin: the print margin
//     (customer − JD − paper charged) is split 50/50.
//   - Default: the print margin is split 50/50 and Bradford additionally
//     keeps the paper markup (paper charged − paper cost).
//
// A negative impact or Bradford total margin returns ErrNegativeMargin.
func CalculateMargins(in MarginInput) (MarginBreakdown, error) {
	var out MarginBreakdown

	switch {
	case in.JDSuppliesPaper:
		out.ImpactMargin = in.CustomerTotal.Mul(tenPercent)
		out.BradfordTotalMargin = in.BradfordTotal.Sub(in.JDTotal)
		out.BradfordPaperMargin = decimal.Zero
		out.BradfordPrintMargin = out.BradfordTotalMargin

	case in.BradfordWaivesPaperMargin:
		totalMargin := in.CustomerTotal.Sub(in.JDTotal).Sub(in.PaperChargedTotal)
		half := totalMargin.Div(two)
		out.ImpactMargin = half
		out.BradfordTotalMargin = half
		out.BradfordPaperMargin = decimal.Zero
		out.BradfordPrintMargin = half

	default:
		totalMargin := in.CustomerTotal.Sub(in.JDTotal).Sub(in.PaperChargedTotal)
		half := totalMargin.Div(two)
		out.ImpactMargin = half
		out.BradfordTotalMargin = in.CustomerTotal.Sub(in.JDTotal).Sub(in.PaperCostTotal).Sub(half)
		out.BradfordPaperMargin = in.PaperChargedTotal.Sub(in.PaperCostTotal)
		out.BradfordPrintMargin = out.BradfordTotalMargin.Sub(out.BradfordPaperMargin)
	}

	if out.ImpactMargin.IsNegative() || out.BradfordTotalMargin.IsNegative() {
		return MarginBreakdown{}, ErrNegativeMargin
	}

	return out, nil
}
