// Package snapshot contains the pure business logic for episode snapshots.
// Planners decide what to keep; the imperative shell performs the deletes.
package snapshot

import (
	"sort"
	"time"
)

// Type distinguishes automatic from user-requested snapshots.
type Type string

const (
	AutoSave   Type = "auto-save"
	ManualSave Type = "manual-save"
)

// DefaultKeepAutoSaves is how many auto-save snapshots survive retention.
const DefaultKeepAutoSaves = 10

// Summary is the metadata of one stored snapshot.
type Summary struct {
	ID        string    `json:"id"`
	EpisodeID string    `json:"episodeId"`
	Timestamp time.Time `json:"timestamp"`
	Type      Type      `json:"type"`
	Seq       int64     `json:"-"` // insertion order within the store
}

// SortNewestFirst orders summaries by timestamp descending. Ties go to the
// later insertion, then to the larger id.
func SortNewestFirst(list []Summary) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Timestamp.Equal(list[j].Timestamp) {
			return list[i].Timestamp.After(list[j].Timestamp)
		}
		if list[i].Seq != list[j].Seq {
			return list[i].Seq > list[j].Seq
		}
		return list[i].ID > list[j].ID
	})
}

// PlanRetention returns the ids of snapshots to delete: every auto-save
// beyond the keepAuto newest. Manual snapshots are always kept.
func PlanRetention(list []Summary, keepAuto int) []string {
	if keepAuto < 0 {
		keepAuto = 0
	}

	autos := make([]Summary, 0, len(list))
	for _, s := range list {
		if s.Type == AutoSave {
			autos = append(autos, s)
		}
	}
	if len(autos) <= keepAuto {
		return nil
	}

	SortNewestFirst(autos)

	doomed := make([]string, 0, len(autos)-keepAuto)
	for _, s := range autos[keepAuto:] {
		doomed = append(doomed, s.ID)
	}
	return doomed
}
