package app

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/GoWebAPP/GoWebAPP/internal/analytics"
	"github.com/GoWebAPP/GoWebAPP/internal/db"
	"github.com/GoWebAPP/GoWebAPP/internal/housekeeping"
)

func init() { //nolint: gochecknoinits
	cleanupCmd.Flags().Int("retention-days", 0, "Days of analytics events to keep (default from config)")

	rootCmd.AddCommand(cleanupCmd)
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old analytics events once and compact the table",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		days, err := cmd.Flags().GetInt("retention-days")
		if err != nil {
			return err
		}

		if days <= 0 {
			days = cfg.Housekeeping.RetentionDays
		}

		conn, err := db.Open(&cfg)
		if err != nil {
			return err
		}

		res, err := housekeeping.NewSweeper(analytics.NewRecorder(conn), days).Run(context.Background())
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %s events recorded before %s\n",
			humanize.Comma(res.Pruned), res.Cutoff.Format("2006-01-02"))

		return err
	},
}
