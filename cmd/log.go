package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ashwin/cadence/internal/store"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log an activity record",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		category, _ := cmd.Flags().GetString("category")
		subcategory, _ := cmd.Flags().GetString("subcategory")
		name, _ := cmd.Flags().GetString("name")
		activityType, _ := cmd.Flags().GetString("type")
		duration, _ := cmd.Flags().GetDuration("duration")
		at, _ := cmd.Flags().GetString("at")

		activity := store.Activity{
			Category:    category,
			Subcategory: subcategory,
			Name:        name,
			Type:        activityType,
		}
		if at != "" {
			t, err := time.Parse(time.RFC3339, at)
			if err != nil {
				return fmt.Errorf("parse --at %q (want RFC3339, e.g. 2026-08-31T07:30:00Z): %w", at, err)
			}
			activity.OccurredAt = t
		}
		if cmd.Flags().Changed("duration") {
			secs := int(duration / time.Second)
			activity.DurationSecs = &secs
		}

		saved, err := s.AppendActivity(cmd.Context(), activity)
		if err != nil {
			return err
		}

		desc := "logged"
		if saved.DurationSecs != nil {
			desc = fmt.Sprintf("logged %s", time.Duration(*saved.DurationSecs)*time.Second)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s at %s\n", desc, saved.OccurredAt.Format("Mon 15:04"))
		return nil
	},
}

func init() {
	logCmd.Flags().String("category", "", "Activity category")
	logCmd.Flags().String("subcategory", "", "Activity subcategory")
	logCmd.Flags().String("name", "", "Activity name")
	logCmd.Flags().String("type", "", "Activity type")
	logCmd.Flags().Duration("duration", 0, "How long the activity lasted")
	logCmd.Flags().String("at", "", "When it happened (RFC3339, default now)")
}
