package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/GoWebAPP/GoWebAPP/internal/db"
	"github.com/GoWebAPP/GoWebAPP/internal/settings"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
)

// operator is the caller behind the settings commands. Shell access to the
// host stands in for both the token and the capability.
type operator struct{}

func (operator) VerifiedToken() bool { return true }
func (operator) CanAdminister() bool { return true }

func init() { //nolint: gochecknoinits
	settingsCmd.AddCommand(settingsExportCmd, settingsImportCmd, settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func openSettings() (*settings.Store, error) {
	conn, err := db.Open(&cfg)
	if err != nil {
		return nil, err
	}

	return handler.SettingsStore(&cfg, conn), nil
}

var (
	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Export, import or reset the app settings",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
	}

	settingsExportCmd = &cobra.Command{
		Use:   "export",
		Short: "Write the settings as JSON to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openSettings()
			if err != nil {
				return err
			}

			doc, err := store.Export()
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return errors.Wrap(enc.Encode(doc), "write export")
		},
	}

	settingsImportCmd = &cobra.Command{
		Use:   "import [file]",
		Short: "Apply an exported settings file, or stdin when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				payload []byte
				err     error
			)

			if len(args) == 1 {
				payload, err = os.ReadFile(args[0])
			} else {
				payload, err = io.ReadAll(cmd.InOrStdin())
			}

			if err != nil {
				return errors.Wrap(err, "read settings file")
			}

			store, err := openSettings()
			if err != nil {
				return err
			}

			n, err := store.Import(operator{}, payload)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d settings\n", n)

			return err
		},
	}

	settingsResetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Restore every setting to its default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openSettings()
			if err != nil {
				return err
			}

			if err = store.ResetAll(operator{}); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "settings reset to defaults")

			return err
		},
	}
)
