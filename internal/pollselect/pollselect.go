// Package pollselect implements PollSelector (spec §4.3, component C3):
// given a reference date and a race's chronologically ordered poll list,
// selects a recency-windowed, de-duplicated, pollster-balanced subset.
package pollselect

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/yourusername/electionforecast/internal/forecast"
)

// Result is the output of Select: the weighted polls to feed to
// RaceAggregator, ordered by EndDate descending (spec §4.3 step 9).
type Result struct {
	Polls []forecast.WeightedPoll
}

// GetPollWindow computes the sliding window size in days (spec §4.3 step
// 4): 14 days when more than 28 days from the window start to election
// day, 7 days when 7 or fewer, and a linear step in between.
func GetPollWindow(electionDay, windowStart forecast.Date) int {
	diff := windowStart.DaysUntil(electionDay)
	if diff > 28 {
		return 14
	}
	if diff <= 7 {
		return 7
	}
	return 7 + roundHalfAwayFromZero(7*float64(diff-7)/14)
}

func roundHalfAwayFromZero(x float64) int {
	if x >= 0 {
		return int(x + 0.5)
	}
	return -int(-x + 0.5)
}

// Select runs the full PollSelector procedure (spec §4.3 steps 1-9) for
// one race's poll list, referenced at date d. region is used only for the
// assumed-margin fallback (spec §4.3, "if no recent poll survives") when
// no poll survives filtering; pass "" if the race has no assumed-margin
// lookup (e.g. Senate/Governor/House races without a campaign baseline).
//
// polls must be the race's full chronologically ordered poll list (the
// feed's contract guarantees end_date descending, but Select tolerates
// any order since it only cares about membership and then re-sorts on
// output).
func Select(campaign forecast.Campaign, region string, polls []forecast.Poll, d forecast.Date) Result {
	// Steps 1-3 and banned-pollster filtering (step 7 applied up front,
	// since a banned poll must never reach staging).
	ancientCutoff := campaign.StartDate.AddDays(-60)
	var candidates []forecast.Poll
	for _, p := range polls {
		if p.EndDate.After(d) {
			continue
		}
		if p.PublishedDate != nil && p.PublishedDate.After(d) {
			continue
		}
		if p.StartDate.Before(ancientCutoff) {
			continue
		}
		if campaign.IsBannedPollster(p.ID.String(), p.Pollster) {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return assumedMarginFallback(campaign, region)
	}

	// Sort candidates by EndDate descending so "most recent" is first.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[j].EndDate.Before(candidates[i].EndDate)
	})
	mostRecent := candidates[0]

	windowDays := GetPollWindow(campaign.EndDate, mostRecent.EndDate)
	earliest := mostRecent.EndDate.AddDays(-windowDays)

	type staged struct {
		poll forecast.Poll
	}
	byPollster := make(map[string]staged)
	order := make([]string, 0, len(candidates))

	accept := func(p forecast.Poll) {
		existing, ok := byPollster[p.Pollster]
		if !ok {
			byPollster[p.Pollster] = staged{poll: p}
			order = append(order, p.Pollster)
			return
		}
		// Step 6a: tracking-poll update — keep the later end date.
		if p.IsTracking && existing.poll.IsTracking {
			if p.EndDate.After(existing.poll.EndDate) {
				byPollster[p.Pollster] = staged{poll: p}
			}
			return
		}
		// Step 6b: identical start/end from the same pollster — keep
		// the better sample, tiebreak by sample size, else retain both
		// (handled by the caller via a synthetic distinct key below).
		if p.StartDate.Equal(existing.poll.StartDate) && p.EndDate.Equal(existing.poll.EndDate) {
			if p.SampleType > existing.poll.SampleType {
				byPollster[p.Pollster] = staged{poll: p}
				return
			}
			if p.SampleType < existing.poll.SampleType {
				return
			}
			if p.SampleSize > existing.poll.SampleSize {
				byPollster[p.Pollster] = staged{poll: p}
				return
			}
			if p.SampleSize < existing.poll.SampleSize {
				return
			}
			// Exactly equal: keep both, under a disambiguated key.
			key := p.Pollster + "\x00" + p.ID.String()
			byPollster[key] = staged{poll: p}
			order = append(order, key)
			return
		}
		// Different poll release from an already-seen pollster within
		// the window: keep the newer one's pollster slot occupied but
		// also retain this poll distinctly (a pollster contributes one
		// poll per distinct start/end pair).
		key := p.Pollster + "\x00" + p.ID.String()
		if _, exists := byPollster[key]; !exists {
			byPollster[key] = staged{poll: p}
			order = append(order, key)
		}
	}

	pollsterOf := func(key string) string {
		for i := 0; i < len(key); i++ {
			if key[i] == 0 {
				return key[:i]
			}
		}
		return key
	}

	distinctPollsters := func() int {
		seen := make(map[string]bool)
		for _, key := range order {
			seen[pollsterOf(key)] = true
		}
		return len(seen)
	}

	for _, p := range candidates {
		inWindow := !p.EndDate.Before(earliest)
		if !inWindow && distinctPollsters() >= 4 {
			continue
		}
		accept(p)
	}

	// Build the final staged poll list.
	var selected []forecast.Poll
	for _, key := range order {
		selected = append(selected, byPollster[key].poll)
	}
	if len(selected) == 0 {
		return assumedMarginFallback(campaign, region)
	}

	return weightAndOrder(selected)
}

// weightAndOrder implements step 8 (weighting: 1/(P·k_p) per poll,
// P pollsters, k_p polls per pollster) and step 9 (order by EndDate
// descending).
func weightAndOrder(selected []forecast.Poll) Result {
	countByPollster := make(map[string]int)
	for _, p := range selected {
		countByPollster[p.Pollster]++
	}
	numPollsters := len(countByPollster)

	out := make([]forecast.WeightedPoll, 0, len(selected))
	for _, p := range selected {
		k := countByPollster[p.Pollster]
		weight := decimal.NewFromInt(1).
			Div(decimal.NewFromInt(int64(numPollsters))).
			Div(decimal.NewFromInt(int64(k)))
		out = append(out, forecast.WeightedPoll{Poll: p, Weight: weight})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Poll.EndDate.Before(out[i].Poll.EndDate)
	})
	return Result{Polls: out}
}

// assumedMarginFallback produces a synthetic assumed-margin poll (spec
// §4.3, "if no recent poll survives"). If the campaign carries no
// assumed margin for this region either, Result is empty and the caller
// (RaceAggregator) applies the §4.4 fallback rules.
func assumedMarginFallback(campaign forecast.Campaign, region string) Result {
	margin, ok := campaign.AssumedMarginFor(region)
	if !ok {
		return Result{}
	}
	synthetic := forecast.Poll{
		Pollster:  "assumed-margin",
		StartDate: campaign.StartDate,
		EndDate:   campaign.EndDate,
		DemPct:    margin.DemPct,
		GopPct:    margin.GopPct,
		ID:        forecast.NewPollID("assumed-margin", campaign.StartDate, campaign.EndDate, margin.DemPct, margin.GopPct),
		Weight:    decimal.NewFromInt(1),
	}
	return Result{Polls: []forecast.WeightedPoll{{Poll: synthetic, Weight: decimal.NewFromInt(1)}}}
}
