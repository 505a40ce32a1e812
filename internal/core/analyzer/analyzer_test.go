package analyzer

import (
	"reflect"
	"testing"

	"github.com/example/storyforge/internal/core/narrative"
)

func scene(id string, targets ...string) narrative.Scene {
	choices := []narrative.Choice{}
	for _, t := range targets {
		choices = append(choices, narrative.Choice{Text: "to " + t, NextScene: t})
	}
	return narrative.Scene{ID: id, Title: id, Text: []string{}, Choices: choices}
}

func TestFindBrokenLinks(t *testing.T) {
	tests := []struct {
		name   string
		scenes narrative.SceneSet
		want   []BrokenLink
	}{
		{
			name:   "ghost target from start",
			scenes: narrative.NewSceneSet(scene("start", "ghost")),
			want:   []BrokenLink{{SceneID: "start", ChoiceIndex: 0}},
		},
		{
			name:   "no broken links",
			scenes: narrative.NewSceneSet(scene("start", "a"), scene("a", "start")),
			want:   []BrokenLink{},
		},
		{
			name: "ordered by scene order then choice index",
			scenes: narrative.NewSceneSet(
				scene("start", "a", "nope", "a", "void"),
				scene("a", "missing"),
				scene("b", "start", "gone"),
			),
			want: []BrokenLink{
				{SceneID: "start", ChoiceIndex: 1},
				{SceneID: "start", ChoiceIndex: 3},
				{SceneID: "a", ChoiceIndex: 0},
				{SceneID: "b", ChoiceIndex: 1},
			},
		},
		{
			name:   "empty next scene is broken",
			scenes: narrative.NewSceneSet(scene("start", "")),
			want:   []BrokenLink{{SceneID: "start", ChoiceIndex: 0}},
		},
		{
			name:   "empty graph",
			scenes: narrative.SceneSet{},
			want:   []BrokenLink{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindBrokenLinks(tt.scenes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindBrokenLinks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindUnreachableScenes(t *testing.T) {
	tests := []struct {
		name   string
		scenes narrative.SceneSet
		want   []string
	}{
		{
			name:   "only start with dangling choice",
			scenes: narrative.NewSceneSet(scene("start", "ghost")),
			want:   []string{},
		},
		{
			name: "orphan scenes in scene order",
			scenes: narrative.NewSceneSet(
				scene("start", "a"),
				scene("orphan2"),
				scene("a"),
				scene("orphan1", "a"),
			),
			want: []string{"orphan2", "orphan1"},
		},
		{
			name: "cycle terminates",
			scenes: narrative.NewSceneSet(
				scene("start", "a"),
				scene("a", "b"),
				scene("b", "a"),
				scene("island", "island"),
			),
			want: []string{"island"},
		},
		{
			name: "edge into start from unreachable does not help",
			scenes: narrative.NewSceneSet(
				scene("start"),
				scene("x", "start"),
			),
			want: []string{"x"},
		},
		{
			name: "missing start makes everything unreachable",
			scenes: narrative.NewSceneSet(
				scene("a", "b"),
				scene("b", "a"),
			),
			want: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindUnreachableScenes(tt.scenes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindUnreachableScenes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsSceneReachable(t *testing.T) {
	scenes := narrative.NewSceneSet(
		scene("start", "a", "ghost"),
		scene("a", "b"),
		scene("b", "a"),
		scene("c", "start"),
	)

	tests := []struct {
		target string
		want   bool
	}{
		{"start", true},
		{"a", true},
		{"b", true},
		{"c", false},
		{"ghost", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if got := IsSceneReachable(scenes, tt.target); got != tt.want {
				t.Errorf("IsSceneReachable(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestIsSceneReachable_StartWithoutStartScene(t *testing.T) {
	if !IsSceneReachable(narrative.SceneSet{}, "start") {
		t.Error("start is always reachable")
	}
}

// Unreachable results must agree with per-node reachability queries.
func TestFindUnreachableScenes_AgreesWithIsSceneReachable(t *testing.T) {
	scenes := narrative.NewSceneSet(
		scene("start", "a", "d"),
		scene("a", "b", "start"),
		scene("b", "a", "nowhere"),
		scene("c", "b"),
		scene("d"),
		scene("e", "c"),
	)

	unreachable := make(map[string]bool)
	for _, id := range FindUnreachableScenes(scenes) {
		unreachable[id] = true
	}

	for _, id := range scenes.IDs() {
		if IsSceneReachable(scenes, id) == unreachable[id] {
			t.Errorf("scene %s: reachable=%v but unreachable-list membership=%v", id, IsSceneReachable(scenes, id), unreachable[id])
		}
	}
	if unreachable["start"] {
		t.Error("start must never be unreachable")
	}
}

func TestAnalyze_TemplateIsClean(t *testing.T) {
	ep := narrative.NewEpisodeTemplate()
	report := Analyze(ep.Scenes)
	if !report.Clean() {
		t.Errorf("template should be clean, got %+v", report)
	}
}
