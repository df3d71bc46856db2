package forecast

// Rating is a chamber rating for a race that has no polling, used by the
// RaceAggregator fallback waterfall (spec §4.4).
type Rating struct {
	RaceID string
	Value  string // tossup|leans|likely|safe, optionally party-qualified upstream
}

// Feed is the per-day normalized input: every poll and rating known as of
// the day it is being analyzed for (spec §3). Poll lists within each
// collection are ordered by EndDate descending, matching the external
// collaborator's contract.
type Feed struct {
	NationalPolls      []Poll
	GenericBallotPolls []Poll
	StatePolls         map[string][]Poll // region -> polls
	SenatePolls        map[string][]Poll // race_id -> polls
	GovernorPolls      map[string][]Poll // race_id -> polls
	HousePolls         map[string][]Poll // race_id -> polls
	HouseRatings       map[string]Rating // race_id -> rating
}

// NewFeed returns an empty, ready-to-populate Feed.
func NewFeed() Feed {
	return Feed{
		StatePolls:    make(map[string][]Poll),
		SenatePolls:   make(map[string][]Poll),
		GovernorPolls: make(map[string][]Poll),
		HousePolls:    make(map[string][]Poll),
		HouseRatings:  make(map[string]Rating),
	}
}
