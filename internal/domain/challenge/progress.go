package challenge

import (
	"math"

	"weighin/internal/domain/participant"
	"weighin/internal/domain/weight"
)

// Progress is the derived weight-loss result for one participant.
// WeightLost and Percent are signed: positive means weight lost, negative
// means a gain. Percent is the raw, unrounded value; rounding to one
// decimal happens only at display boundaries via Round1.
type Progress struct {
	WeightLost float64
	Percent    float64
}

// ComputeProgress derives the weight lost and percent of starting weight
// lost for one participant. Progress is undefined (false) without a known
// start weight or without at least one ledger sample; the zero start
// weight guard also keeps a division by zero from ever producing NaN.
// PRE: ledger is non-nil
// POST: Returns (progress, true) or (zero, false) when undefined
func ComputeProgress(p participant.Participant, ledger *weight.Ledger) (Progress, bool) {
	if !p.HasStartWeight() {
		return Progress{}, false
	}
	latest, ok := ledger.Latest(p.ID)
	if !ok {
		return Progress{}, false
	}
	lost := p.StartWeight - latest.Weight
	return Progress{
		WeightLost: lost,
		Percent:    lost / p.StartWeight * 100,
	}, true
}

// Round1 rounds a value to one decimal for display. Sorting and
// comparison always use the unrounded value.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
