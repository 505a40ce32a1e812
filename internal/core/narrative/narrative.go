// Package narrative defines the episode and campaign graph model.
// This is part of the Functional Core - no I/O, only data and pure functions.
package narrative

import "time"

// StartSceneID is the reserved id of every episode's entry scene.
const StartSceneID = "start"

// Choice is a labelled edge from one scene to another.
// NextScene is a soft reference into the owning episode's scenes and may dangle.
type Choice struct {
	Text      string `json:"text" validate:"required"`
	NextScene string `json:"nextScene" validate:"required"`
}

// Scene is a node in an episode's narrative graph.
type Scene struct {
	ID      string   `json:"id" validate:"required"`
	Title   string   `json:"title"`
	Text    []string `json:"text" validate:"required"`
	Choices []Choice `json:"choices" validate:"required,dive"`
}

// Clone returns a deep copy of the scene.
func (s Scene) Clone() Scene {
	out := s
	if s.Text != nil {
		out.Text = append([]string{}, s.Text...)
	}
	if s.Choices != nil {
		out.Choices = append([]Choice{}, s.Choices...)
	}
	return out
}

// Episode is a complete narrative graph plus its metadata.
type Episode struct {
	ID           string     `json:"id" validate:"required"`
	Title        string     `json:"title" validate:"required"`
	Author       string     `json:"author"`
	Description  string     `json:"description"`
	Stardate     string     `json:"stardate"`
	ShipName     string     `json:"shipName"`
	Scenes       SceneSet   `json:"scenes"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// Clone returns a deep copy of the episode.
func (e *Episode) Clone() *Episode {
	if e == nil {
		return nil
	}
	out := *e
	out.Scenes = e.Scenes.Clone()
	if e.LastModified != nil {
		t := *e.LastModified
		out.LastModified = &t
	}
	return &out
}

// Touch stamps LastModified.
func (e *Episode) Touch(now time.Time) {
	t := now.UTC()
	e.LastModified = &t
}

// Condition gates a campaign episode's availability.
// An absent or empty condition means available from campaign start.
type Condition struct {
	PreviousEpisodeID string          `json:"previousEpisodeId,omitempty"`
	Flags             map[string]bool `json:"flags,omitempty"`
}

// IsEmpty reports whether the condition imposes no requirement.
func (c *Condition) IsEmpty() bool {
	return c == nil || (c.PreviousEpisodeID == "" && len(c.Flags) == 0)
}

// InitialState lists flags set in the player's state when an episode begins.
type InitialState struct {
	Flags map[string]bool `json:"flags,omitempty"`
}

// CampaignEpisode is one entry in a campaign's ordered episode list.
type CampaignEpisode struct {
	EpisodeID    string        `json:"episodeId" validate:"required"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Order        int           `json:"order" validate:"gte=0"`
	Condition    *Condition    `json:"condition,omitempty"`
	InitialState *InitialState `json:"initialState,omitempty"`
}

// Clone returns a deep copy of the entry.
func (ce CampaignEpisode) Clone() CampaignEpisode {
	out := ce
	if ce.Condition != nil {
		c := *ce.Condition
		c.Flags = cloneFlags(ce.Condition.Flags)
		out.Condition = &c
	}
	if ce.InitialState != nil {
		s := *ce.InitialState
		s.Flags = cloneFlags(ce.InitialState.Flags)
		out.InitialState = &s
	}
	return out
}

// Campaign is an ordered, conditionally gated sequence of episodes.
type Campaign struct {
	ID           string            `json:"id" validate:"required"`
	Title        string            `json:"title" validate:"required"`
	Author       string            `json:"author"`
	Description  string            `json:"description"`
	Version      string            `json:"version"`
	Episodes     []CampaignEpisode `json:"episodes" validate:"required,dive"`
	LastModified *time.Time        `json:"lastModified,omitempty"`
}

// Clone returns a deep copy of the campaign.
func (c *Campaign) Clone() *Campaign {
	if c == nil {
		return nil
	}
	out := *c
	if c.Episodes != nil {
		out.Episodes = make([]CampaignEpisode, len(c.Episodes))
		for i, ce := range c.Episodes {
			out.Episodes[i] = ce.Clone()
		}
	}
	if c.LastModified != nil {
		t := *c.LastModified
		out.LastModified = &t
	}
	return &out
}

// Touch stamps LastModified.
func (c *Campaign) Touch(now time.Time) {
	t := now.UTC()
	c.LastModified = &t
}

func cloneFlags(in map[string]bool) map[string]bool {
	if in == nil {
		return nil
	}
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
