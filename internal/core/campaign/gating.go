// Package campaign contains the pure rules for campaign episode gating and ordering.
// This is part of the Functional Core - no I/O, only pure functions.
package campaign

import (
	"fmt"
	"sort"

	"github.com/example/storyforge/internal/core/narrative"
)

// Progress is a player's running state through a campaign.
type Progress struct {
	Completed map[string]bool
	Flags     map[string]bool
}

// NewProgress returns empty progress at campaign start.
func NewProgress() *Progress {
	return &Progress{
		Completed: make(map[string]bool),
		Flags:     make(map[string]bool),
	}
}

// IsAvailable reports whether entry can be played given progress.
// An unset flag counts as false.
func IsAvailable(entry narrative.CampaignEpisode, p *Progress) bool {
	cond := entry.Condition
	if cond.IsEmpty() {
		return true
	}
	if p == nil {
		p = NewProgress()
	}
	if cond.PreviousEpisodeID != "" && !p.Completed[cond.PreviousEpisodeID] {
		return false
	}
	for name, want := range cond.Flags {
		if p.Flags[name] != want {
			return false
		}
	}
	return true
}

// Available returns the entries playable given progress, in display order.
func Available(c *narrative.Campaign, p *Progress) []narrative.CampaignEpisode {
	var out []narrative.CampaignEpisode
	for _, entry := range SortByOrder(c.Episodes) {
		if IsAvailable(entry, p) {
			out = append(out, entry)
		}
	}
	return out
}

// Begin applies entry's initial-state flags to progress.
func Begin(p *Progress, entry narrative.CampaignEpisode) {
	if entry.InitialState == nil {
		return
	}
	for name, v := range entry.InitialState.Flags {
		p.Flags[name] = v
	}
}

// Complete marks the episode as finished.
func Complete(p *Progress, episodeID string) {
	p.Completed[episodeID] = true
}

// SortByOrder returns a copy of entries sorted by order. Equal orders keep
// their list position.
func SortByOrder(entries []narrative.CampaignEpisode) []narrative.CampaignEpisode {
	out := append([]narrative.CampaignEpisode{}, entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Renumber assigns dense 1-based orders following list position.
func Renumber(entries []narrative.CampaignEpisode) {
	for i := range entries {
		entries[i].Order = i + 1
	}
}

// Move relocates the entry at index from to index to, then renumbers.
func Move(entries []narrative.CampaignEpisode, from, to int) ([]narrative.CampaignEpisode, error) {
	n := len(entries)
	if from < 0 || from >= n {
		return nil, fmt.Errorf("position %d out of range (campaign has %d episodes)", from+1, n)
	}
	if to < 0 || to >= n {
		return nil, fmt.Errorf("position %d out of range (campaign has %d episodes)", to+1, n)
	}

	out := append([]narrative.CampaignEpisode{}, entries...)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]narrative.CampaignEpisode{moved}, out[to:]...)...)

	Renumber(out)
	return out, nil
}
