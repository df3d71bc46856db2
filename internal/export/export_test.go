package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/electionforecast/internal/forecast"
)

func TestDayProjectsPredictionWhenPresent(t *testing.T) {
	md := forecast.ModelData{
		Date: forecast.NewDate(2024, 11, 5),
		ElectoralCollege: forecast.ChamberSummary{
			Mode:         272,
			MetamarginOK: true,
			Metamargin:   2.3,
			Prediction: &forecast.Prediction{
				DemWinP:             0.58,
				PredictedMetamargin: 2.0,
			},
		},
	}
	view := Day(md)
	assert.Equal(t, "2024-11-05", view.Date)
	require.NotNil(t, view.ElectoralCollege.DemWinP)
	assert.Equal(t, 0.58, *view.ElectoralCollege.DemWinP)
	assert.Nil(t, view.Senate.DemWinP)
}

func TestDayOmitsUndecidedsWhenAbsent(t *testing.T) {
	view := Day(forecast.ModelData{Date: forecast.NewDate(2024, 1, 1)})
	assert.Nil(t, view.NationalUndecidedsPct)
	assert.Nil(t, view.GenericBallotUndecidedsPct)
}

func TestWriteHistoryProducesJSONArray(t *testing.T) {
	history := []forecast.ModelData{
		{Date: forecast.NewDate(2024, 1, 1)},
		{Date: forecast.NewDate(2024, 1, 2)},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, history))

	var views []DayView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "2024-01-01", views[0].Date)
	assert.Equal(t, "2024-01-02", views[1].Date)
}
