package forecast

import "time"

// Env carries the small amount of process-level context the analysis
// pipeline needs explicitly, instead of reading it from globals: the
// reference "today" date, the timezone used to derive it, and the worker
// pool size. Constructed once at startup and passed down; REDESIGN FLAGS
// (spec §9) calls this out specifically for the timezone.
type Env struct {
	Location   *time.Location
	Today      Date
	NumThreads int
}

// NewEnv builds an Env for the given location and wall-clock time, clamped
// to no later than electionDay per spec §6 ("today" date clamped to
// end_date).
func NewEnv(loc *time.Location, now time.Time, electionDay Date, numThreads int) Env {
	if loc == nil {
		loc = time.UTC
	}
	if numThreads <= 0 {
		numThreads = 8
	}
	today := DateFromTime(now.In(loc))
	if today.After(electionDay) {
		today = electionDay
	}
	return Env{Location: loc, Today: today, NumThreads: numThreads}
}
