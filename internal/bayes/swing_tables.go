package bayes

// kMaxNationalSwing, kMaxBallotSwingPresYear, and kMaxBallotSwingMidterm
// are day-indexed (days until election, index 0 = election day) maximum
// expected swing tables (spec §4.8 step 1). Beyond the table's length the
// tail value applies; the BayesPredictor additionally floors every lookup
// at 2.0.
var kMaxNationalSwing = []float64{
	0.00, 0.04, 0.26, 0.86, 1.02, 1.08, 1.20, 1.42, 1.54, 1.90, 2.06, 2.06, 2.06, 2.40, 2.40, 2.40,
	2.70, 2.70, 3.18, 3.18, 3.20, 3.48, 3.48, 3.48, 3.48, 3.48, 3.48, 3.48, 3.48, 3.48, 3.74, 4.32,
	4.44, 4.52, 4.62, 4.84, 5.34, 5.68, 6.20, 6.20, 6.20, 6.30, 6.52, 6.70, 6.76, 7.04, 7.04, 7.04,
	7.08, 7.08, 7.08, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18,
	7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18,
	7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18,
	7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18,
	7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18,
	7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.18, 7.38, 7.78,
	7.78, 7.78, 7.86, 7.90, 8.02, 8.08, 8.18,
}

var kMaxBallotSwingPresYear = []float64{
	0.00, 0.57, 0.69, 1.02, 1.02, 1.02, 1.40, 2.83, 3.45, 3.45, 3.58, 3.58, 3.58, 3.58, 3.75, 3.75,
	3.75, 3.75, 3.75, 3.75, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12,
	4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12, 4.12,
	4.12, 4.12, 5.49, 5.49, 5.49, 5.49, 6.19, 7.33, 7.58, 7.58, 7.58, 7.58, 7.58, 7.58, 7.58, 7.58,
	7.58, 7.58, 7.58, 7.58, 7.58, 7.58, 7.58, 7.58, 7.58, 7.58, 7.58, 7.58, 7.58, 7.58, 7.58, 7.58,
	7.58, 7.58, 7.58, 8.25, 8.25, 8.25, 8.25, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50,
	8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50,
	8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50, 8.50,
	9.25, 9.25, 9.25, 9.25, 9.25, 9.65, 9.65, 9.65, 9.65, 9.65, 9.65, 11.00,
}

var kMaxBallotSwingMidterm = []float64{
	0.00, 0.39, 2.04, 2.62, 2.62, 3.54, 3.54, 3.54, 3.54, 4.51, 4.51, 4.51, 4.51, 4.51, 4.51, 4.51,
	4.51, 4.51, 4.51, 4.51, 4.51, 4.51, 4.51, 4.51, 4.51, 4.51, 4.51, 4.51, 4.51, 4.51, 4.51, 5.18,
	5.18, 5.18, 5.18, 5.35, 5.35, 5.35, 5.35, 5.35, 7.67, 7.67, 7.67, 7.67, 7.86, 7.86, 7.86, 7.86,
	7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86,
	7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86,
	7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86,
	7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86,
	7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.86,
	7.86, 7.86, 7.86, 7.86, 7.86, 7.86, 7.98, 9.27, 11.27,
}

// maxSwingByDay returns table[daysLeft], clamped to the tail beyond the
// table's length and floored at 2.0 (spec §4.8 step 1).
func maxSwingByDay(table []float64, daysLeft int) float64 {
	v := table[len(table)-1]
	if daysLeft >= 0 && daysLeft < len(table) {
		v = table[daysLeft]
	}
	if v < 2.0 {
		return 2.0
	}
	return v
}
