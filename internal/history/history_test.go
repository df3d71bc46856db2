package history

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/electionforecast/internal/forecast"
)

// TestModelDataRoundTripsThroughJSON exercises the exact marshal/unmarshal
// path PostgresRepository relies on for its payload column, without
// needing a database connection.
func TestModelDataRoundTripsThroughJSON(t *testing.T) {
	day := forecast.NewDate(2024, 11, 5)
	md := forecast.ModelData{
		Date:        day,
		GeneratedAt: 1730000000,
		ElectoralCollege: forecast.ChamberSummary{
			Median:       270,
			Mode:         272,
			Mean:         271.5,
			Metamargin:   2.3,
			MetamarginOK: true,
			Prediction: &forecast.Prediction{
				DemWinP:             0.62,
				PredictedMetamargin: 2.1,
			},
		},
	}

	payload, err := json.Marshal(md)
	require.NoError(t, err)

	var out forecast.ModelData
	require.NoError(t, json.Unmarshal(payload, &out))

	assert.True(t, out.Date.Equal(day))
	assert.Equal(t, md.ElectoralCollege.Median, out.ElectoralCollege.Median)
	assert.Equal(t, md.ElectoralCollege.Metamargin, out.ElectoralCollege.Metamargin)
	require.NotNil(t, out.ElectoralCollege.Prediction)
	assert.Equal(t, md.ElectoralCollege.Prediction.DemWinP, out.ElectoralCollege.Prediction.DemWinP)
}

// TestRepositoryAgainstLiveDatabase is an integration test stub: it needs
// a reachable Postgres instance with the forecast_history table migrated
// and is skipped in normal runs, following the same shape as the
// teacher's own repository tests.
func TestRepositoryAgainstLiveDatabase(t *testing.T) {
	t.Skip("integration test - requires database setup")

	// db, err := Connect(context.Background(), Config{Host: "localhost", Port: 5432, Name: "electionforecast_test"})
	// require.NoError(t, err)
	// defer db.Close()
	//
	// repo := NewPostgresRepository(db, "2024-general")
	// require.NoError(t, repo.Reset(context.Background()))
	// require.NoError(t, repo.Save(context.Background(), forecast.ModelData{Date: forecast.NewDate(2024, 11, 5)}))
	//
	// got, err := repo.Get(context.Background(), forecast.NewDate(2024, 11, 5))
	// require.NoError(t, err)
	// assert.True(t, got.Date.Equal(forecast.NewDate(2024, 11, 5)))
}
