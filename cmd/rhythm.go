package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ashwin/cadence/internal/rhythm"
)

var rhythmCmd = &cobra.Command{
	Use:   "rhythm",
	Short: "Manage rhythm definitions",
}

var rhythmAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Define a new rhythm",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		category, _ := cmd.Flags().GetString("category")
		subcategory, _ := cmd.Flags().GetString("subcategory")
		activityName, _ := cmd.Flags().GetString("activity")
		activityType, _ := cmd.Flags().GetString("type")
		threshold, _ := cmd.Flags().GetDuration("threshold")
		timezone, _ := cmd.Flags().GetString("timezone")

		def, err := s.SaveRhythm(cmd.Context(), rhythm.Definition{
			Name: args[0],
			Criteria: rhythm.Criteria{
				Category:    category,
				Subcategory: subcategory,
				Name:        activityName,
				Type:        activityType,
			},
			DailyThresholdSecs: int(threshold / time.Second),
			Timezone:           timezone,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added rhythm %q (daily threshold %s)\n",
			def.Name, time.Duration(def.DailyThresholdSecs)*time.Second)
		return nil
	},
}

var rhythmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rhythm definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		defs, err := s.ListRhythms(cmd.Context())
		if err != nil {
			return err
		}
		if len(defs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No rhythms defined yet. Try: cadence rhythm add")
			return nil
		}
		for _, def := range defs {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s threshold %-8s %s\n",
				def.Name, time.Duration(def.DailyThresholdSecs)*time.Second, describeCriteria(def.Criteria))
		}
		return nil
	},
}

var rhythmRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove a rhythm definition (activity records are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.DeleteRhythm(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed rhythm %q\n", args[0])
		return nil
	},
}

func describeCriteria(c rhythm.Criteria) string {
	out := ""
	add := func(label, v string) {
		if v == "" {
			return
		}
		if out != "" {
			out += " "
		}
		out += label + "=" + v
	}
	add("category", c.Category)
	add("subcategory", c.Subcategory)
	add("activity", c.Name)
	add("type", c.Type)
	if out == "" {
		return "matches all activities"
	}
	return out
}

func init() {
	rhythmAddCmd.Flags().String("category", "", "Match activities in this category")
	rhythmAddCmd.Flags().String("subcategory", "", "Match activities in this subcategory")
	rhythmAddCmd.Flags().String("activity", "", "Match activities with this name")
	rhythmAddCmd.Flags().String("type", "", "Match activities of this type")
	rhythmAddCmd.Flags().Duration("threshold", 6*time.Minute, "Daily duration needed to complete a day")
	rhythmAddCmd.Flags().String("timezone", "", "IANA timezone for day boundaries (default UTC)")

	rhythmCmd.AddCommand(rhythmAddCmd)
	rhythmCmd.AddCommand(rhythmListCmd)
	rhythmCmd.AddCommand(rhythmRemoveCmd)
}
