// Package campaignio loads a campaign's static definition (the race
// roster, chamber totals, assumed margins, banned pollsters, House
// rating history) from a JSON file on disk. Campaign data sourcing is
// an external-collaborator concern (spec §1 Non-goals); this package
// only fixes the on-disk shape the rest of the pipeline is built
// against, using the same tag-free JSON convention as history's
// ModelData payload column -- forecast.Campaign's exported field names
// are the JSON keys directly.
package campaignio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yourusername/electionforecast/internal/forecast"
)

// Load reads a campaign definition from path.
func Load(path string) (forecast.Campaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return forecast.Campaign{}, fmt.Errorf("campaignio: reading %s: %w", path, err)
	}
	var c forecast.Campaign
	if err := json.Unmarshal(data, &c); err != nil {
		return forecast.Campaign{}, fmt.Errorf("campaignio: parsing %s: %w", path, err)
	}
	return c, nil
}
