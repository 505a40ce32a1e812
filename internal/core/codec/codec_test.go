package codec

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storyforge/internal/core/narrative"
)

func sampleEpisode() *narrative.Episode {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	return &narrative.Episode{
		ID:          "ep-bridge",
		Title:       "Bridge Crisis",
		Author:      "Ensign Ro",
		Description: "The warp core destabilises.",
		Stardate:    "47457.1",
		ShipName:    "Enterprise",
		Scenes: narrative.NewSceneSet(
			narrative.Scene{ID: "start", Title: "Red Alert", Text: []string{"Klaxons sound.", "The captain turns to you."},
				Choices: []narrative.Choice{{Text: "Go to engineering", NextScene: "engineering"}, {Text: "Stay <here> & wait", NextScene: "bridge"}}},
			narrative.Scene{ID: "engineering", Title: "Engineering", Text: []string{}, Choices: []narrative.Choice{{Text: "Back", NextScene: "start"}}},
			narrative.Scene{ID: "bridge", Title: "Bridge", Text: []string{"Silence."}, Choices: []narrative.Choice{}},
		),
		LastModified: &ts,
	}
}

func TestExportEpisode_StripsLastModified(t *testing.T) {
	data, err := ExportEpisode(sampleEpisode())
	require.NoError(t, err)

	assert.NotContains(t, string(data), "lastModified")
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
}

func TestExportEpisode_DoesNotMutateInput(t *testing.T) {
	ep := sampleEpisode()
	_, err := ExportEpisode(ep)
	require.NoError(t, err)
	assert.NotNil(t, ep.LastModified)
}

func TestEpisodeRoundTripIsByteIdentical(t *testing.T) {
	first, err := ExportEpisode(sampleEpisode())
	require.NoError(t, err)

	imported, err := DecodeEpisode(first)
	require.NoError(t, err)

	second, err := ExportEpisode(imported)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestEpisodeExportPreservesSceneOrder(t *testing.T) {
	data, err := ExportEpisode(sampleEpisode())
	require.NoError(t, err)

	s := string(data)
	start := strings.Index(s, `"start": {`)
	eng := strings.Index(s, `"engineering": {`)
	bridge := strings.Index(s, `"bridge": {`)
	assert.True(t, start < eng && eng < bridge, "scene order not preserved:\n%s", s)
}

func TestCampaignRoundTripIsByteIdentical(t *testing.T) {
	ts := time.Now()
	c := &narrative.Campaign{
		ID: "camp-1", Title: "Arc", Author: "A", Description: "D", Version: "1.0",
		Episodes: []narrative.CampaignEpisode{
			{EpisodeID: "e1", Title: "One", Order: 1, InitialState: &narrative.InitialState{Flags: map[string]bool{"b": true, "a": false}}},
			{EpisodeID: "e2", Title: "Two", Order: 2, Condition: &narrative.Condition{PreviousEpisodeID: "e1", Flags: map[string]bool{"b": true}}},
		},
		LastModified: &ts,
	}

	first, err := ExportCampaign(c)
	require.NoError(t, err)
	assert.NotContains(t, string(first), "lastModified")

	imported, err := DecodeCampaign(first)
	require.NoError(t, err)

	second, err := ExportCampaign(imported)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestDecodeEpisode_PreservesParseError(t *testing.T) {
	_, err := DecodeEpisode([]byte(`{"id": "x", "scenes": {`))
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "episode", perr.Kind)

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr), "underlying json error should be preserved, got %T", perr.Err)
}

func TestDecodeEpisode_RejectsNonObject(t *testing.T) {
	for _, in := range []string{"", "  ", "[]", `"episode"`} {
		_, err := DecodeEpisode([]byte(in))
		var perr *ParseError
		assert.True(t, errors.As(err, &perr), "input %q", in)
	}
}

func TestDecodeEpisode_TypeMismatchInScene(t *testing.T) {
	_, err := DecodeEpisode([]byte(`{"id":"x","scenes":{"start":{"id":"start","text":"not a list","choices":[]}}}`))
	var typeErr *json.UnmarshalTypeError
	assert.True(t, errors.As(err, &typeErr), "got %v", err)
}

func TestBackupRoundTrip(t *testing.T) {
	b := &Backup{
		Version:   1,
		Timestamp: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
		Episodes:  []*narrative.Episode{sampleEpisode()},
		Campaigns: []*narrative.Campaign{narrative.NewCampaignTemplate()},
	}

	data, err := EncodeBackup(b)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timestamp": "2026-10-15T12:00:00Z"`)

	decoded, err := DecodeBackup(data)
	require.NoError(t, err)
	assert.Equal(t, 1, decoded.Version)
	require.Len(t, decoded.Episodes, 1)
	assert.Equal(t, []string{"start", "engineering", "bridge"}, decoded.Episodes[0].Scenes.IDs())
	require.Len(t, decoded.Campaigns, 1)
}

func TestExport_NilDocument(t *testing.T) {
	_, err := ExportEpisode(nil)
	assert.True(t, errors.Is(err, ErrNilDocument))

	_, err = ExportCampaign(nil)
	assert.True(t, errors.Is(err, ErrNilDocument))
}
