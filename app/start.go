package app

import (
	"github.com/spf13/cobra"

	"github.com/GoWebAPP/GoWebAPP/internal/daemon"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().Bool("dev", false, "Enable dev mode")

	startCmd.Flags().Bool(
		"browse",
		false,
		"Enable static file browsing (for development purposes only)",
	)

	for _, name := range []string{"dev", "browse"} {
		if err := flags.BindPFlag(name, startCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the WebAPP web service",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		if flags.GetBool("browse") {
			cfg.Webserver.BrowseStatic = true
		}

		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		d, err := daemon.New(&cfg)
		if err != nil {
			return err
		}

		return d.Start()
	},
}
