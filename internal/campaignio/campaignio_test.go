package campaignio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/electionforecast/internal/forecast"
)

func TestLoadRoundTripsCampaignDefinition(t *testing.T) {
	c := forecast.Campaign{
		StartDate:          forecast.NewDate(2024, 1, 1),
		EndDate:            forecast.NewDate(2024, 11, 5),
		IsPresidentialYear: true,
		StateList: []forecast.Race{
			{RaceID: "PA", Kind: forecast.KindElectoralCollege, Region: "PA", ElectoralWeight: 19},
		},
		Senate: forecast.ChamberDefinition{
			TotalSeats:         100,
			DemSeatsForControl: 50,
		},
	}
	data, err := json.Marshal(c)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "campaign.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.True(t, got.EndDate.Equal(c.EndDate))
	assert.True(t, got.IsPresidentialYear)
	require.Len(t, got.StateList, 1)
	assert.Equal(t, "PA", got.StateList[0].RaceID)
	assert.Equal(t, 19, got.StateList[0].ElectoralWeight)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
