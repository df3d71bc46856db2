package forecast

// Prediction is the Bayesian-layer output for one chamber on one day
// (spec §3, §4.8).
type Prediction struct {
	DemWinP              float64
	PredictedMetamargin  float64
	Metamargin1Sigma     ConfidenceBand
	Metamargin2Sigma     ConfidenceBand
	Score1Sigma          ConfidenceBand
	Score2Sigma          ConfidenceBand
	AverageScore         float64

	// AltDemWinP is the presidential-year Senate "alternative" win
	// probability computed against ControlAltSeats (spec §4.8 step 8).
	// Zero value (0, false) when not applicable.
	AltDemWinP   float64
	HasAltWinP   bool
}
