package forecast

// Party is one of the two sides a margin or win probability is expressed
// relative to. Margins and metamargins are positive when they favor Dem.
type Party string

const (
	Dem Party = "dem"
	Gop Party = "gop"
)

// Kind identifies which chamber/race type a Race or RaceModel belongs to.
// The source's deep Analysis class hierarchy (spec §9) collapses to this
// tagged enum; callers switch on Kind instead of dispatching virtually.
type Kind string

const (
	KindNational        Kind = "national"
	KindGenericBallot    Kind = "generic_ballot"
	KindElectoralCollege Kind = "electoral_college"
	KindSenate           Kind = "senate"
	KindGovernor         Kind = "governor"
	KindHouse            Kind = "house"
)

// MinimumError returns the chamber-floor expected error (in points) used
// by RaceAggregator (spec §4.4): State=3.0, Senate=3.5, Governor=6.0,
// House=8.0. National and generic ballot races use the state floor since
// they are not one of the four enumerated "minimum error" chambers in the
// source.
func (k Kind) MinimumError() float64 {
	switch k {
	case KindSenate:
		return 3.5
	case KindGovernor:
		return 6.0
	case KindHouse:
		return 8.0
	default:
		return 3.0
	}
}

// SeatsPerRace returns how many "points" (seats, or electoral votes for
// the electoral college — the caller supplies the weight) a single win of
// this kind contributes to the convolution. Senate/Governor/House races
// are worth 1 seat each; ElectoralCollege races carry their own
// ElectoralWeight, so this returns 1 as the default unit and callers
// multiply by Race.ElectoralWeight explicitly.
func (k Kind) SeatsPerRace() int { return 1 }
