package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/electionforecast/internal/forecast"
	"github.com/yourusername/electionforecast/internal/metrics"
)

func newGetRequest(ctx context.Context, url string) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
}

// httpSource fetches a campaign's feed from a live polling aggregator.
// Parsing the aggregator's actual response shape is an
// external-collaborator concern (spec §1 Non-goals); this type owns the
// rate-limited transport and the normalized-JSON decode path a concrete
// aggregator integration would fill in.
type httpSource struct {
	cfg    Config
	client httpDoer
	logger *logrus.Logger
}

func newHTTPSource(cfg Config, client httpDoer, logger *logrus.Logger) *httpSource {
	return &httpSource{cfg: cfg, client: client, logger: logger}
}

func (s *httpSource) Name() string     { return s.cfg.Name }
func (s *httpSource) IsEnabled() bool  { return s.cfg.Enabled }

// feedPayload is the normalized wire shape this source expects the
// aggregator to serve: already-deduplicated polls, bucketed exactly the
// way forecast.Feed wants them. A concrete aggregator integration decodes
// its own schema into this shape before handing it back; see the Source
// doc comment's governor double-count warning for the one contract
// invariant that matters to the core.
type feedPayload struct {
	NationalPolls      []forecast.Poll              `json:"national_polls"`
	GenericBallotPolls []forecast.Poll              `json:"generic_ballot_polls"`
	StatePolls         map[string][]forecast.Poll   `json:"state_polls"`
	SenatePolls        map[string][]forecast.Poll   `json:"senate_polls"`
	GovernorPolls      map[string][]forecast.Poll   `json:"governor_polls"`
	HousePolls         map[string][]forecast.Poll   `json:"house_polls"`
	HouseRatings       map[string]forecast.Rating   `json:"house_ratings"`
}

func (s *httpSource) FetchFeed(ctx context.Context, campaign forecast.Campaign) (forecast.Feed, error) {
	if !s.cfg.Enabled {
		metrics.RecordFeedFetch(s.cfg.Name, "error")
		return forecast.Feed{}, Error{Source: s.cfg.Name, Code: ErrCodeUnauthorized, Message: "source is disabled"}
	}

	req, err := newGetRequest(ctx, s.cfg.BaseURL)
	if err != nil {
		metrics.RecordFeedFetch(s.cfg.Name, "error")
		return forecast.Feed{}, Error{Source: s.cfg.Name, Code: ErrCodeNetwork, Message: "building request", Err: err}
	}
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		metrics.RecordFeedFetch(s.cfg.Name, "error")
		return forecast.Feed{}, Error{Source: s.cfg.Name, Code: ErrCodeNetwork, Message: "fetching feed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		metrics.RecordFeedFetch(s.cfg.Name, "error")
		return forecast.Feed{}, Error{Source: s.cfg.Name, Code: ErrCodeMalformed,
			Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	var payload feedPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.RecordFeedFetch(s.cfg.Name, "error")
		return forecast.Feed{}, Error{Source: s.cfg.Name, Code: ErrCodeMalformed, Message: "decoding feed payload", Err: err}
	}

	metrics.RecordFeedFetch(s.cfg.Name, "ok")
	return normalizePayload(payload), nil
}

// normalizePayload fills any nil maps left by a partial payload so
// callers never need a nil check, and is the one place that would enforce
// the disjoint-routing contract described on Source if this boundary
// grew a real scraper.
func normalizePayload(p feedPayload) forecast.Feed {
	f := forecast.NewFeed()
	f.NationalPolls = p.NationalPolls
	f.GenericBallotPolls = p.GenericBallotPolls
	if p.StatePolls != nil {
		f.StatePolls = p.StatePolls
	}
	if p.SenatePolls != nil {
		f.SenatePolls = p.SenatePolls
	}
	if p.GovernorPolls != nil {
		f.GovernorPolls = p.GovernorPolls
	}
	if p.HousePolls != nil {
		f.HousePolls = p.HousePolls
	}
	if p.HouseRatings != nil {
		f.HouseRatings = p.HouseRatings
	}
	return f
}
