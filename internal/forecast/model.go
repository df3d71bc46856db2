package forecast

import "github.com/shopspring/decimal"

// RaceModel is the per-day, per-race output of RaceAggregator (spec §3).
type RaceModel struct {
	RaceID         string
	Kind           Kind
	SelectedPolls  []WeightedPoll
	Mean           decimal.Decimal // weighted margin, rounded to 3 places
	Median         decimal.Decimal // unweighted margin median
	Stddev         float64
	UndecidedsPct  float64
	WinProb        float64
	Rating         string
	Margin         decimal.Decimal // alias of Mean, kept distinct per spec §3 field list
}

// ConfidenceBand is a low/high pair, e.g. the ±2σ seat-count band (spec
// §4.2) or a metamargin σ band (spec §4.8).
type ConfidenceBand struct {
	Low  float64
	High float64
}

// ChamberSummary holds the convolved, solved outputs for one chamber
// (spec §3's ModelData fields, grouped per chamber instead of flattened).
type ChamberSummary struct {
	RaceModels []RaceModel

	Median         int
	Confidence     ConfidenceBand
	Metamargin     float64
	Mode           int
	Mean           float64
	MetamarginOK   bool // false when CanFlip is false (Senate) -- no metamargin computed

	SafeDemSeats int
	SafeGopSeats int
	CanFlip      bool // Senate only; always true elsewhere
	ControlAltSeats int // Senate only

	Prediction *Prediction
}

// ModelData is one day's complete forecast snapshot (spec §3).
type ModelData struct {
	Date        Date
	GeneratedAt int64 // UTC unix seconds

	National      *RaceModel
	GenericBallot *RaceModel

	ElectoralCollege ChamberSummary
	Senate           ChamberSummary
	Governor         ChamberSummary
	House            ChamberSummary

	DemEVMode       int
	DemEVConfidence ConfidenceBand
	EVMeanDem       float64
	EVMeanGop       float64
}
