package forecast

import "github.com/shopspring/decimal"

// AssumedMargin is the campaign's baseline Dem/Gop split for a region
// absent any polling (spec §3, Campaign.assumed_margins).
type AssumedMargin struct {
	DemPct decimal.Decimal
	GopPct decimal.Decimal
}

// Margin returns DemPct - GopPct.
func (a AssumedMargin) Margin() decimal.Decimal {
	return a.DemPct.Sub(a.GopPct)
}

// Campaign is the static campaign definition: immutable once built, read
// by every day's analysis (spec §3). Loading a Campaign from an on-disk
// config format is an external-collaborator concern (spec §1 Non-goals);
// this type is the normalized in-memory shape that loader hands to the
// core.
type Campaign struct {
	StartDate         Date
	EndDate           Date // election day
	IsPresidentialYear bool
	UndecidedDefault  decimal.Decimal

	StateList []Race // ElectoralCollege races, in defined iteration order
	Senate    ChamberDefinition
	Governor  ChamberDefinition
	House     ChamberDefinition

	AssumedMargins       map[string]AssumedMargin // region -> baseline
	BannedPollsterIDs    map[string]bool
	BannedPollsterNames  map[string]bool
	HouseRatingHistory   []RatingHistoryEntry // ordered by Date ascending

	StateCodeMap          map[string]string
	PresidentialDemName   string
	PresidentialGOPName   string
}

// TotalElectoralVotes sums the electoral weight across StateList.
func (c Campaign) TotalElectoralVotes() int {
	total := 0
	for _, r := range c.StateList {
		total += r.Seats()
	}
	return total
}

// AssumedMarginFor looks up the baseline margin for a region, reporting
// whether one was configured.
func (c Campaign) AssumedMarginFor(region string) (AssumedMargin, bool) {
	m, ok := c.AssumedMargins[region]
	return m, ok
}

// IsBannedPollster reports whether a poll's pollster id or description is
// on the campaign's banned list (spec §4.3 step 7).
func (c Campaign) IsBannedPollster(pollID, pollster string) bool {
	if c.BannedPollsterIDs != nil && c.BannedPollsterIDs[pollID] {
		return true
	}
	if c.BannedPollsterNames != nil && c.BannedPollsterNames[pollster] {
		return true
	}
	return false
}

// HouseRatingsAsOf returns the most recent rating-history entry dated on
// or before d (spec §4.4's backdated-ratings rule), or nil if none apply.
func (c Campaign) HouseRatingsAsOf(d Date) *RatingHistoryEntry {
	var best *RatingHistoryEntry
	for i := range c.HouseRatingHistory {
		e := &c.HouseRatingHistory[i]
		if e.Date.After(d) {
			continue
		}
		if best == nil || e.Date.After(best.Date) {
			best = e
		}
	}
	return best
}
