// Package analyzer detects structural defects in a scene graph.
// Findings are advisory: the analyzer only reports, callers decide whether to gate.
package analyzer

import "github.com/example/storyforge/internal/core/narrative"

// BrokenLink identifies a choice whose target scene does not exist.
type BrokenLink struct {
	SceneID     string `json:"sceneId"`
	ChoiceIndex int    `json:"choiceIndex"`
}

// Report holds every advisory found in one pass over a graph.
type Report struct {
	BrokenLinks []BrokenLink `json:"brokenLinks"`
	Unreachable []string     `json:"unreachableScenes"`
}

// Clean reports whether the graph has no advisories.
func (r Report) Clean() bool {
	return len(r.BrokenLinks) == 0 && len(r.Unreachable) == 0
}

// Analyze runs both structural checks.
func Analyze(scenes narrative.SceneSet) Report {
	return Report{
		BrokenLinks: FindBrokenLinks(scenes),
		Unreachable: FindUnreachableScenes(scenes),
	}
}

// IsSceneReachable reports whether some path of choices leads from the start
// scene to targetID. The start scene is always reachable.
func IsSceneReachable(scenes narrative.SceneSet, targetID string) bool {
	if targetID == narrative.StartSceneID {
		return true
	}
	return reachableFromStart(scenes)[targetID]
}

// FindUnreachableScenes returns ids of scenes with no path from start, in
// scene order. The result never contains the start scene.
func FindUnreachableScenes(scenes narrative.SceneSet) []string {
	reached := reachableFromStart(scenes)

	unreachable := []string{}
	scenes.Each(func(id string, _ narrative.Scene) bool {
		if id != narrative.StartSceneID && !reached[id] {
			unreachable = append(unreachable, id)
		}
		return true
	})
	return unreachable
}

// FindBrokenLinks returns every choice whose nextScene keys no scene,
// ordered by scene order, then choice index.
func FindBrokenLinks(scenes narrative.SceneSet) []BrokenLink {
	broken := []BrokenLink{}
	scenes.Each(func(id string, sc narrative.Scene) bool {
		for i, ch := range sc.Choices {
			if !scenes.Has(ch.NextScene) {
				broken = append(broken, BrokenLink{SceneID: id, ChoiceIndex: i})
			}
		}
		return true
	})
	return broken
}

// reachableFromStart runs one breadth-first traversal from the start scene.
// Dangling targets are skipped; the visited set guards cycles.
func reachableFromStart(scenes narrative.SceneSet) map[string]bool {
	visited := make(map[string]bool)
	if !scenes.Has(narrative.StartSceneID) {
		return visited
	}

	queue := []string{narrative.StartSceneID}
	visited[narrative.StartSceneID] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		sc, _ := scenes.Get(current)
		for _, ch := range sc.Choices {
			next := ch.NextScene
			if visited[next] || !scenes.Has(next) {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}

	return visited
}
