// Package feed defines the external poll-acquisition boundary: a Source
// interface normalizing whatever upstream scraper or file format
// supplies a campaign's polls into a forecast.Feed, and a factory picking
// a concrete Source by name. Fetching and parsing are an
// external-collaborator concern; this package only fixes the contract
// implementations must satisfy (spec §1, §7 Non-goals).
package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/electionforecast/internal/forecast"
)

// Source fetches a campaign's current poll set and normalizes it into a
// forecast.Feed.
//
// Implementations MUST route every race into exactly one of
// StatePolls/SenatePolls/GovernorPolls/HousePolls via a single
// if/else-if (or switch) dispatch keyed on the race kind. The reference
// implementation this package was adapted from had an `if` where an
// `else if` belonged on the governor branch, so a poll whose race kind
// matched more than one check landed in two maps at once and was
// double-counted by every downstream aggregation. That bug is
// deliberately not reproduced here: FetchFeed's dispatch must be
// mutually exclusive across race kinds.
type Source interface {
	// FetchFeed retrieves every currently available poll for the given
	// campaign as of now.
	FetchFeed(ctx context.Context, campaign forecast.Campaign) (forecast.Feed, error)

	// Name identifies the source for logging and factory lookup.
	Name() string

	// IsEnabled reports whether this source should be consulted this run.
	IsEnabled() bool
}

// SourceType selects which concrete Source implementation to build.
type SourceType string

const (
	// HTTPSourceType fetches from a live polling aggregator over HTTP.
	HTTPSourceType SourceType = "http"
	// FileSourceType reads a pre-fetched, normalized feed snapshot from disk.
	FileSourceType SourceType = "file"
)

// Error represents a feed-acquisition failure, distinguishing retryable
// transport errors from malformed upstream data.
type Error struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (%v)", e.Source, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Message)
}

func (e Error) Unwrap() error { return e.Err }

// Common error codes, mirrored from the feed-acquisition boundary's
// retry policy (ambient, not algorithmic): transport errors are retried
// by the HTTP client layer below Source, not by the core.
const (
	ErrCodeRateLimited  = "rate_limited"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeNotFound     = "not_found"
	ErrCodeMalformed    = "malformed_data"
	ErrCodeNetwork      = "network_error"
)

// Config selects and configures a Source.
type Config struct {
	Type     SourceType
	Name     string
	BaseURL  string
	APIKey   string
	Enabled  bool
	Timeout  time.Duration
}

// Factory builds a Source from Config.
type Factory struct {
	logger *logrus.Logger
}

// NewFactory returns a Factory that logs through logger.
func NewFactory(logger *logrus.Logger) *Factory {
	return &Factory{logger: logger}
}

// Create builds the Source named by cfg.Type.
func (f *Factory) Create(cfg Config, client *RateLimitedClient) (Source, error) {
	switch cfg.Type {
	case HTTPSourceType:
		if client == nil {
			return nil, fmt.Errorf("feed: HTTP source %q requires an HTTP client", cfg.Name)
		}
		return newHTTPSource(cfg, client, f.logger), nil
	case FileSourceType:
		return newFileSource(cfg, f.logger), nil
	default:
		return nil, fmt.Errorf("feed: unknown source type %q", cfg.Type)
	}
}

// httpDoer is the subset of *RateLimitedClient that Source
// implementations depend on, kept narrow so tests can fake it.
type httpDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}
