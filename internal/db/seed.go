package db

import (
	"database/sql"
	"fmt"
	"time"
)

const sampleEpisodeJSON = `{"id":"episode-sample-signal","title":"The Lost Signal","author":"Storyforge","description":"A distress call from an uncharted moon.","stardate":"47634.4","shipName":"USS Meridian","scenes":{"start":{"id":"start","title":"Bridge","text":["A faint signal crackles over the comm."],"choices":[{"text":"Trace the signal","nextScene":"trace"},{"text":"Ignore it","nextScene":"ending"}]},"trace":{"id":"trace","title":"Science Station","text":["The source is a moon that should not exist."],"choices":[{"text":"Set course","nextScene":"ending"}]},"ending":{"id":"ending","title":"Log Entry","text":["Captain's log, supplemental."],"choices":[]}},"lastModified":"%s"}`

const sampleCampaignJSON = `{"id":"campaign-sample-frontier","title":"Frontier Patrol","author":"Storyforge","description":"A short patrol along the frontier.","version":"1.0","episodes":[{"episodeId":"episode-sample-signal","title":"The Lost Signal","description":"","order":1,"initialState":{"flags":{"tracedSignal":false}}}],"lastModified":"%s"}`

// SeedFixtures inserts a sample episode and campaign for first-run
// exploration. Existing rows with the same ids are left alone.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC()
	stamp := now.Format(time.RFC3339Nano)
	millis := now.UnixMilli()

	if _, err := database.Exec(
		"INSERT OR IGNORE INTO episodes (id, title, author, last_modified, data) VALUES (?, ?, ?, ?, ?)",
		"episode-sample-signal", "The Lost Signal", "Storyforge", millis, fmt.Sprintf(sampleEpisodeJSON, stamp),
	); err != nil {
		return fmt.Errorf("seed episodes: %w", err)
	}

	if _, err := database.Exec(
		"INSERT OR IGNORE INTO campaigns (id, title, last_modified, data) VALUES (?, ?, ?, ?)",
		"campaign-sample-frontier", "Frontier Patrol", millis, fmt.Sprintf(sampleCampaignJSON, stamp),
	); err != nil {
		return fmt.Errorf("seed campaigns: %w", err)
	}

	return nil
}
