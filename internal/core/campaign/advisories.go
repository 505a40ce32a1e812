package campaign

import (
	"fmt"
	"sort"

	"github.com/example/storyforge/internal/core/narrative"
)

// Advisory codes.
const (
	AdvisoryMissingEpisode    = "missing_episode"
	AdvisoryUnknownPrevious   = "unknown_previous_episode"
	AdvisorySelfDependency    = "self_dependency"
	AdvisoryUnsatisfiableFlag = "unsatisfiable_flag"
)

// Advisory is a soft, user-correctable defect in a campaign. Advisories never
// block persistence.
type Advisory struct {
	Index   int    `json:"index"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Analyze reports dangling references and impossible conditions.
// knownEpisodes is the set of episode ids currently in the store.
func Analyze(c *narrative.Campaign, knownEpisodes map[string]bool) []Advisory {
	advisories := []Advisory{}
	if c == nil {
		return advisories
	}

	inCampaign := make(map[string]bool, len(c.Episodes))
	settable := make(map[string]bool)
	for _, entry := range c.Episodes {
		if entry.EpisodeID != "" {
			inCampaign[entry.EpisodeID] = true
		}
		if entry.InitialState != nil {
			for name, v := range entry.InitialState.Flags {
				if v {
					settable[name] = true
				}
			}
		}
	}

	for i, entry := range c.Episodes {
		switch {
		case entry.EpisodeID == "":
			advisories = append(advisories, Advisory{Index: i, Code: AdvisoryMissingEpisode, Message: "no episode selected"})
		case !knownEpisodes[entry.EpisodeID]:
			advisories = append(advisories, Advisory{Index: i, Code: AdvisoryMissingEpisode,
				Message: fmt.Sprintf("episode %s does not exist", entry.EpisodeID)})
		}

		cond := entry.Condition
		if cond.IsEmpty() {
			continue
		}

		if prev := cond.PreviousEpisodeID; prev != "" {
			if prev == entry.EpisodeID {
				advisories = append(advisories, Advisory{Index: i, Code: AdvisorySelfDependency,
					Message: fmt.Sprintf("requires its own episode %s to be completed first", prev)})
			} else if !inCampaign[prev] {
				advisories = append(advisories, Advisory{Index: i, Code: AdvisoryUnknownPrevious,
					Message: fmt.Sprintf("requires episode %s which is not part of this campaign", prev)})
			}
		}

		names := make([]string, 0, len(cond.Flags))
		for name := range cond.Flags {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if cond.Flags[name] && !settable[name] {
				advisories = append(advisories, Advisory{Index: i, Code: AdvisoryUnsatisfiableFlag,
					Message: fmt.Sprintf("requires flag %q = true but no episode sets it", name)})
			}
		}
	}

	return advisories
}
