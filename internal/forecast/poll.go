package forecast

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SampleType ranks the precedence used to break ties between same-date
// polls from the same pollster (spec §4.3 step 6): lv > rv > a > other.
type SampleType int

const (
	SampleOther SampleType = iota
	SampleAdults
	SampleRegistered
	SampleLikely
)

// ParseSampleType maps the feed's sample_type string to its precedence
// rank. Unknown strings are treated as SampleOther.
func ParseSampleType(s string) SampleType {
	switch s {
	case "lv":
		return SampleLikely
	case "rv":
		return SampleRegistered
	case "a":
		return SampleAdults
	default:
		return SampleOther
	}
}

// Poll is one normalized survey result for a single race, as defined in
// spec §3. DemPct/GopPct/Weight are carried as decimal.Decimal so that
// RaceAggregator's "round to three decimal places" rule (spec §4.4) is
// exact rather than subject to binary-float rounding noise; they are
// converted to float64 only at the NumericKernel boundary.
type Poll struct {
	Pollster      string
	StartDate     Date
	EndDate       Date
	PublishedDate *Date
	DemPct        decimal.Decimal
	GopPct        decimal.Decimal
	SampleSize    int
	SampleType    SampleType
	URL           string
	ID            uuid.UUID
	IsTracking    bool
	IsPartisan    bool
	Grade         string
	Weight        decimal.Decimal
}

// Margin returns DemPct - GopPct.
func (p Poll) Margin() decimal.Decimal {
	return p.DemPct.Sub(p.GopPct)
}

// Undecided returns 100 - DemPct - GopPct, the residual used in the
// undecided-source waterfall (spec §4.4), clamped at zero.
func (p Poll) Undecided() decimal.Decimal {
	u := decimal.NewFromInt(100).Sub(p.DemPct).Sub(p.GopPct)
	if u.IsNegative() {
		return decimal.Zero
	}
	return u
}

// NewPollID derives a stable poll id (spec §3: "id (stable hash)") from
// the fields that identify a distinct survey release: pollster, the
// polling window, and the topline numbers. Two re-fetches of the same
// release hash to the same id; a tracking poll's new release (different
// end date) hashes to a different id.
func NewPollID(pollster string, start, end Date, demPct, gopPct decimal.Decimal) uuid.UUID {
	seed := fmt.Sprintf("%s|%s|%s|%s|%s", pollster, start, end, demPct.String(), gopPct.String())
	return uuid.NewSHA1(pollIDNamespace, []byte(seed))
}

var pollIDNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("election-forecast/poll"))

// WeightedPoll pairs a selected Poll with the weight PollSelector
// assigned it (spec §4.3 step 8). Kept distinct from Poll.Weight so a
// poll's weight is always explicit at the point of use.
type WeightedPoll struct {
	Poll   Poll
	Weight decimal.Decimal
}
