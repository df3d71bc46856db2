package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/electionforecast/internal/forecast"
)

func TestFileSourceRoutesPollsDisjointly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feed.json")
	snapshot := `{
		"national_polls": [],
		"state_polls": {"NC": []},
		"senate_polls": {"NC-SEN": []},
		"governor_polls": {"NC-GOV": []},
		"house_polls": {"NC-03": []},
		"house_ratings": {"NC-03": {"race_id": "NC-03", "value": "safe"}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o644))

	src := newFileSource(Config{Name: "snapshot", Enabled: true, BaseURL: path}, nil)
	assert.True(t, src.IsEnabled())
	assert.Equal(t, "snapshot", src.Name())

	f, err := src.FetchFeed(context.Background(), forecast.Campaign{})
	require.NoError(t, err)
	_, inState := f.StatePolls["NC"]
	_, inSenate := f.SenatePolls["NC-SEN"]
	_, inGovernor := f.GovernorPolls["NC-GOV"]
	_, inHouse := f.HousePolls["NC-03"]
	assert.True(t, inState)
	assert.True(t, inSenate)
	assert.True(t, inGovernor)
	assert.True(t, inHouse)
	assert.Equal(t, "safe", f.HouseRatings["NC-03"].Value)
}

func TestFileSourceDisabledReturnsError(t *testing.T) {
	src := newFileSource(Config{Name: "snapshot", Enabled: false}, nil)
	_, err := src.FetchFeed(context.Background(), forecast.Campaign{})
	require.Error(t, err)
}

func TestFactoryUnknownTypeErrors(t *testing.T) {
	f := NewFactory(nil)
	_, err := f.Create(Config{Type: "bogus"}, nil)
	require.Error(t, err)
}

func TestFactoryHTTPRequiresClient(t *testing.T) {
	f := NewFactory(nil)
	_, err := f.Create(Config{Type: HTTPSourceType}, nil)
	require.Error(t, err)
}
