package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/example/storyforge/internal/core/campaign"
	"github.com/example/storyforge/internal/core/validation"
	"github.com/example/storyforge/internal/ports/primary"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
	warnMark = color.New(color.FgYellow).Sprint("!")
)

func printFindings(out io.Writer, findings []validation.Finding) {
	for _, f := range findings {
		fmt.Fprintf(out, "  %s %s\n", failMark, f.String())
	}
}

// printEpisodeCheck renders hard findings first, then advisories.
func printEpisodeCheck(out io.Writer, subject string, check *primary.EpisodeCheck) {
	if check.Clean() {
		fmt.Fprintf(out, "%s %s: no problems found\n", okMark, subject)
		return
	}

	if len(check.Findings) > 0 {
		fmt.Fprintf(out, "%s %s: %d validation error(s)\n", failMark, subject, len(check.Findings))
		printFindings(out, check.Findings)
	}
	if !check.Report.Clean() {
		fmt.Fprintf(out, "%s %s: %d broken link(s), %d unreachable scene(s)\n",
			warnMark, subject, len(check.Report.BrokenLinks), len(check.Report.Unreachable))
		for _, bl := range check.Report.BrokenLinks {
			fmt.Fprintf(out, "  %s scene %q choice %d points to a missing scene\n", warnMark, bl.SceneID, bl.ChoiceIndex)
		}
		for _, id := range check.Report.Unreachable {
			fmt.Fprintf(out, "  %s scene %q cannot be reached from start\n", warnMark, id)
		}
	}
}

func printCampaignCheck(out io.Writer, subject string, check *primary.CampaignCheck) {
	if check.Clean() {
		fmt.Fprintf(out, "%s %s: no problems found\n", okMark, subject)
		return
	}

	if len(check.Findings) > 0 {
		fmt.Fprintf(out, "%s %s: %d validation error(s)\n", failMark, subject, len(check.Findings))
		printFindings(out, check.Findings)
	}
	if len(check.Advisories) > 0 {
		fmt.Fprintf(out, "%s %s: %d advisory(ies)\n", warnMark, subject, len(check.Advisories))
		printAdvisories(out, check.Advisories)
	}
}

func printAdvisories(out io.Writer, advisories []campaign.Advisory) {
	for _, a := range advisories {
		fmt.Fprintf(out, "  %s entry %d [%s] %s\n", warnMark, a.Index, a.Code, a.Message)
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
