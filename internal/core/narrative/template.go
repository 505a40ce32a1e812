package narrative

// SecondSceneID is the id of the template's second scene.
const SecondSceneID = "scene_2"

// NewEpisodeTemplate returns a fresh episode whose two scenes form a closed
// loop: start -> scene_2 -> start. It has no broken links and no unreachable
// scenes.
func NewEpisodeTemplate() *Episode {
	return &Episode{
		ID:          GenerateID("episode"),
		Title:       "Untitled Episode",
		Author:      "",
		Description: "",
		Stardate:    "",
		ShipName:    "",
		Scenes: NewSceneSet(
			Scene{
				ID:      StartSceneID,
				Title:   "Opening",
				Text:    []string{"The story begins here."},
				Choices: []Choice{{Text: "Continue", NextScene: SecondSceneID}},
			},
			Scene{
				ID:      SecondSceneID,
				Title:   "Next Scene",
				Text:    []string{"Write what happens next."},
				Choices: []Choice{{Text: "Return to the beginning", NextScene: StartSceneID}},
			},
		),
	}
}

// NewCampaignTemplate returns a fresh campaign with one placeholder entry
// whose episodeId is still empty.
func NewCampaignTemplate() *Campaign {
	return &Campaign{
		ID:          GenerateID("campaign"),
		Title:       "Untitled Campaign",
		Author:      "",
		Description: "",
		Version:     "1.0",
		Episodes: []CampaignEpisode{
			{EpisodeID: "", Title: "Episode 1", Description: "", Order: 1},
		},
	}
}
