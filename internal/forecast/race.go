package forecast

// Race is a single contest in a chamber: a presidential state, a Senate
// seat, a Governor's race, or a House seat (spec §3).
type Race struct {
	RaceID          string
	Kind            Kind
	Region          string
	ElectoralWeight int // only meaningful for KindElectoralCollege
	CandidateDem    string
	CandidateGOP    string
	IncumbentParty  *Party
	PresumedWinner  *Party
	Rating          *string
}

// Seats returns how many points this race is worth in the convolution:
// ElectoralWeight for the electoral college, 1 seat otherwise.
func (r Race) Seats() int {
	if r.Kind == KindElectoralCollege {
		if r.ElectoralWeight <= 0 {
			return 1
		}
		return r.ElectoralWeight
	}
	return 1
}

// ChamberDefinition is an ordered roster of races plus the totals needed
// for safe-seat accounting and control thresholds (spec §3).
type ChamberDefinition struct {
	Races               []Race
	DemSeatsHeld        int
	GopSeatsHeld        int
	SeatsUpDem          int
	SeatsUpGop          int
	TotalSeats          int
	DemSeatsForControl  int // Senate only
	CensusYear          bool // true when every race is enumerated (spec §4.5)

	// UnsafeDemHeld/UnsafeGopHeld count, in non-census years, how many of
	// the roster's (competitive-only) races are currently held by each
	// party -- used to back out the "not enumerated" safe seats held
	// outside the roster (spec §4.5: "safe_dem = total_dem_held -
	// unsafe_dem + flips_to_dem").
	UnsafeDemHeld int
	UnsafeGopHeld int
}

// RatingHistoryEntry is one dated snapshot of House ratings (spec §3,
// Campaign.house_rating_history).
type RatingHistoryEntry struct {
	Date    Date
	Ratings map[string]string // race_id -> rating string
}
