// Package export serializes ModelData/history into the JSON shape an
// external HTML/SVG renderer would consume: a win-probability "meter"
// and a seat-count summary (median, mode, mean, confidence band) per
// chamber, plus the raw per-day figures
// (spec §3, §4.8). Rendering itself stays out of core scope (spec §1
// Non-goals); this package only produces the normalized record.
package export

import (
	"encoding/json"
	"io"

	"github.com/yourusername/electionforecast/internal/forecast"
)

// ChamberView is the renderer-facing projection of one chamber's summary
// for one day: the fields a probability meter and a seat-count summary
// need, with Prediction flattened in rather than nested. The full seat
// histogram is not included.
type ChamberView struct {
	SafeDemSeats int     `json:"safe_dem_seats"`
	SafeGopSeats int     `json:"safe_gop_seats"`
	Median       int     `json:"median"`
	Mode         int     `json:"mode"`
	Mean         float64 `json:"mean"`
	ConfidenceLo float64 `json:"confidence_low"`
	ConfidenceHi float64 `json:"confidence_high"`

	CanFlip         bool    `json:"can_flip"`
	MetamarginOK    bool    `json:"metamargin_ok"`
	Metamargin      float64 `json:"metamargin"`
	ControlAltSeats int     `json:"control_alt_seats,omitempty"`

	DemWinP             *float64         `json:"dem_win_p,omitempty"`
	PredictedMetamargin *float64         `json:"predicted_metamargin,omitempty"`
	Metamargin1Sigma     *BandView       `json:"metamargin_1sigma,omitempty"`
	Metamargin2Sigma     *BandView       `json:"metamargin_2sigma,omitempty"`
	AverageScore         *float64        `json:"average_score,omitempty"`
	AltDemWinP           *float64        `json:"alt_dem_win_p,omitempty"`
}

// BandView is a renderer-facing low/high confidence band.
type BandView struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// DayView is the renderer-facing projection of one day's ModelData.
type DayView struct {
	Date        string  `json:"date"`
	GeneratedAt int64   `json:"generated_at"`
	EVMeanDem   float64 `json:"ev_mean_dem"`
	EVMeanGop   float64 `json:"ev_mean_gop"`

	NationalUndecidedsPct      *float64 `json:"national_undecideds_pct,omitempty"`
	GenericBallotUndecidedsPct *float64 `json:"generic_ballot_undecideds_pct,omitempty"`

	ElectoralCollege ChamberView `json:"electoral_college"`
	Senate           ChamberView `json:"senate"`
	Governor         ChamberView `json:"governor"`
	House            ChamberView `json:"house"`
}

// Day projects one day's ModelData into its renderer-facing view.
func Day(md forecast.ModelData) DayView {
	v := DayView{
		Date:             md.Date.String(),
		GeneratedAt:      md.GeneratedAt,
		EVMeanDem:        md.EVMeanDem,
		EVMeanGop:        md.EVMeanGop,
		ElectoralCollege: chamberView(md.ElectoralCollege),
		Senate:           chamberView(md.Senate),
		Governor:         chamberView(md.Governor),
		House:            chamberView(md.House),
	}
	if md.National != nil {
		u := md.National.UndecidedsPct
		v.NationalUndecidedsPct = &u
	}
	if md.GenericBallot != nil {
		u := md.GenericBallot.UndecidedsPct
		v.GenericBallotUndecidedsPct = &u
	}
	return v
}

func chamberView(cs forecast.ChamberSummary) ChamberView {
	v := ChamberView{
		SafeDemSeats:    cs.SafeDemSeats,
		SafeGopSeats:    cs.SafeGopSeats,
		Median:          cs.Median,
		Mode:            cs.Mode,
		Mean:            cs.Mean,
		ConfidenceLo:    cs.Confidence.Low,
		ConfidenceHi:    cs.Confidence.High,
		CanFlip:         cs.CanFlip,
		MetamarginOK:    cs.MetamarginOK,
		Metamargin:      cs.Metamargin,
		ControlAltSeats: cs.ControlAltSeats,
	}
	if cs.Prediction != nil {
		p := cs.Prediction
		v.DemWinP = &p.DemWinP
		v.PredictedMetamargin = &p.PredictedMetamargin
		v.Metamargin1Sigma = &BandView{Low: p.Metamargin1Sigma.Low, High: p.Metamargin1Sigma.High}
		v.Metamargin2Sigma = &BandView{Low: p.Metamargin2Sigma.Low, High: p.Metamargin2Sigma.High}
		v.AverageScore = &p.AverageScore
		if p.HasAltWinP {
			v.AltDemWinP = &p.AltDemWinP
		}
	}
	return v
}

// WriteHistory writes the full history as a JSON array of DayView,
// ordered exactly as given (callers pass history already in date order).
func WriteHistory(w io.Writer, history []forecast.ModelData) error {
	views := make([]DayView, len(history))
	for i, md := range history {
		views[i] = Day(md)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}
