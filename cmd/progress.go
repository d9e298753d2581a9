package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ashwin/cadence/internal/messages"
	"github.com/ashwin/cadence/internal/rhythm"
	"github.com/ashwin/cadence/internal/ui/theme"
)

var progressCmd = &cobra.Command{
	Use:   "progress NAME",
	Short: "Show a rhythm's chains, current week and journey stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		def, err := s.RhythmByName(ctx, args[0])
		if err != nil {
			return err
		}

		pool, err := messages.Load()
		if err != nil {
			return err
		}

		lastMessageID, err := s.LastMessageID(ctx, def.ID)
		if err != nil {
			return err
		}

		svc := rhythm.NewService(pool)
		progress, err := svc.ComputeProgress(ctx, def, s.Fetch(def), time.Now(), rhythm.Options{
			LastMessageID: lastMessageID,
		})
		if err != nil {
			return err
		}

		if progress.Encouragement != nil {
			if err := s.SetLastMessageID(ctx, def.ID, progress.Encouragement.MessageID); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderProgress(progress))
		return nil
	},
}

// renderProgress formats the progress object for the terminal.
func renderProgress(p *rhythm.Progress) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render(p.RhythmName))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("as of %s · %s", p.AsOf.Format("Mon Jan 2"), stageLabel(p.JourneyStage))))
	b.WriteString("\n\n")

	b.WriteString(theme.Body.Render("This week  "))
	b.WriteString(renderWeekDots(p.CurrentWeek))
	if p.CurrentWeek.Achieved != nil {
		b.WriteString("  ")
		b.WriteString(theme.TierLabel.Render(p.CurrentWeek.Achieved.Label))
	}
	b.WriteString("\n")
	if p.CurrentWeek.Nudge != "" {
		b.WriteString(theme.Hint.Render(p.CurrentWeek.Nudge))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, c := range p.Chains {
		line := fmt.Sprintf("%-10s %3d week(s) now · longest %d", c.Tier.Label, c.Current, c.Longest)
		b.WriteString(theme.Body.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	totals := fmt.Sprintf("%d sessions · %s total", p.Totals.Sessions,
		(time.Duration(p.Totals.TotalSecs) * time.Second).String())
	if p.Totals.FirstActivity != nil {
		totals += " · since " + p.Totals.FirstActivity.Format("Jan 2, 2006")
	}
	b.WriteString(theme.Subtitle.Render(totals))

	if p.Encouragement != nil {
		b.WriteString("\n\n")
		b.WriteString(theme.Encourage.Render(p.Encouragement.Text))
	}

	return theme.Card.Render(b.String())
}

// renderWeekDots draws one dot per day of the week: filled for
// complete days, open for incomplete past days, dim dots for days
// still to come.
func renderWeekDots(week rhythm.WeekDetail) string {
	var dots []string
	for _, d := range week.Days {
		if d.Complete {
			dots = append(dots, theme.DayDone.Render("●"))
		} else {
			dots = append(dots, theme.DayOpen.Render("○"))
		}
	}
	for i := 0; i < week.DaysRemaining; i++ {
		dots = append(dots, theme.DayOpen.Render("·"))
	}
	return strings.Join(dots, " ")
}

func stageLabel(stage rhythm.Stage) string {
	switch stage {
	case rhythm.StageStarting:
		return "just starting"
	case rhythm.StageBuilding:
		return "building the habit"
	case rhythm.StageBecoming:
		return "becoming who you practice"
	default:
		return string(stage)
	}
}
