package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/electionforecast/internal/forecast"
	"github.com/yourusername/electionforecast/internal/metrics"
)

// fileSource reads a pre-fetched, normalized feed snapshot from disk —
// the path used for backtests and the Bayesian history walk's input,
// where the feed for a given day was captured ahead of time rather than
// scraped live.
type fileSource struct {
	cfg    Config
	logger *logrus.Logger
}

func newFileSource(cfg Config, logger *logrus.Logger) *fileSource {
	return &fileSource{cfg: cfg, logger: logger}
}

func (s *fileSource) Name() string    { return s.cfg.Name }
func (s *fileSource) IsEnabled() bool { return s.cfg.Enabled }

func (s *fileSource) FetchFeed(ctx context.Context, campaign forecast.Campaign) (forecast.Feed, error) {
	if !s.cfg.Enabled {
		metrics.RecordFeedFetch(s.cfg.Name, "error")
		return forecast.Feed{}, Error{Source: s.cfg.Name, Code: ErrCodeUnauthorized, Message: "source is disabled"}
	}
	data, err := os.ReadFile(s.cfg.BaseURL)
	if err != nil {
		metrics.RecordFeedFetch(s.cfg.Name, "error")
		return forecast.Feed{}, Error{Source: s.cfg.Name, Code: ErrCodeNotFound,
			Message: fmt.Sprintf("reading feed snapshot %q", s.cfg.BaseURL), Err: err}
	}
	var payload feedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		metrics.RecordFeedFetch(s.cfg.Name, "error")
		return forecast.Feed{}, Error{Source: s.cfg.Name, Code: ErrCodeMalformed, Message: "decoding feed snapshot", Err: err}
	}
	metrics.RecordFeedFetch(s.cfg.Name, "ok")
	return normalizePayload(payload), nil
}
