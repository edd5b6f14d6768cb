package app

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/GoWebAPP/GoWebAPP/internal/daemon"
	"github.com/GoWebAPP/GoWebAPP/internal/db"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
)

// ErrNotConfirmed is returned by uninstall without --yes.
var ErrNotConfirmed = errors.New("uninstall deletes all app data, pass --yes to confirm")

func init() { //nolint: gochecknoinits
	uninstallCmd.Flags().Bool("yes", false, "Confirm the removal")

	rootCmd.AddCommand(uninstallCmd)
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Delete all settings, the app icon, likes, bookmarks, view counts and analytics",
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return ErrNotConfirmed
		}

		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		conn, err := db.Open(&cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		removal, err := daemon.Uninstall(ctx, handler.NewEnv(&cfg, conn), operator{})
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed settings, %s likes, %s bookmarks, %s events; reset %s posts\n",
			humanize.Comma(removal.Likes), humanize.Comma(removal.Bookmarks),
			humanize.Comma(removal.Events), humanize.Comma(removal.Posts))

		return err
	},
}
