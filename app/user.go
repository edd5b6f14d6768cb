package app

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/GoWebAPP/GoWebAPP/internal/auth"
	"github.com/GoWebAPP/GoWebAPP/internal/db"
)

// ErrPasswordRequired is returned by user add and user passwd without --password.
var ErrPasswordRequired = errors.New("--password is required")

func init() { //nolint: gochecknoinits
	userAddCmd.Flags().String("password", "", "Password of the new account")
	userAddCmd.Flags().String("email", "", "Email address")
	userAddCmd.Flags().String("name", "", "Display name")
	userAddCmd.Flags().Bool("admin", false, "Grant settings and analytics access")

	userPasswdCmd.Flags().String("password", "", "New password")
	userPasswdCmd.Flags().String("old", "", "Current password; when empty the password is reset without checking it")

	userCmd.AddCommand(userAddCmd, userPasswdCmd, userEnableCmd, userDisableCmd)
	rootCmd.AddCommand(userCmd)
}

func openAccounts() (*auth.LocalProvider, error) {
	conn, err := db.Open(&cfg)
	if err != nil {
		return nil, err
	}

	return auth.NewLocalProvider(conn), nil
}

// setActive backs user enable and user disable.
func setActive(cmd *cobra.Command, username string, active bool) error {
	accounts, err := openAccounts()
	if err != nil {
		return err
	}

	user, err := accounts.GetUserByUsername(username)
	if err != nil {
		return err
	}

	if err = accounts.SetActive(user.ID, active); err != nil {
		return err
	}

	state := "disabled"
	if active {
		state = "enabled"
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "user %s %s\n", username, state)

	return err
}

var (
	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage local accounts",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
	}

	userAddCmd = &cobra.Command{
		Use:   "add <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			password, _ := f.GetString("password")
			email, _ := f.GetString("email")
			name, _ := f.GetString("name")
			admin, _ := f.GetBool("admin")

			if password == "" {
				return ErrPasswordRequired
			}

			accounts, err := openAccounts()
			if err != nil {
				return err
			}

			user, err := accounts.CreateUser(args[0], email, password, name, admin)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d, admin: %t)\n", user.Username, user.ID, user.Admin)

			return err
		},
	}

	userPasswdCmd = &cobra.Command{
		Use:   "passwd <username>",
		Short: "Change the password of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			old, _ := cmd.Flags().GetString("old")

			if password == "" {
				return ErrPasswordRequired
			}

			accounts, err := openAccounts()
			if err != nil {
				return err
			}

			user, err := accounts.GetUserByUsername(args[0])
			if err != nil {
				return err
			}

			if old != "" {
				err = accounts.ChangePassword(user.ID, old, password)
			} else {
				err = accounts.ResetPassword(user.ID, password)
			}

			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "password of %s changed\n", user.Username)

			return err
		},
	}

	userEnableCmd = &cobra.Command{
		Use:   "enable <username>",
		Short: "Allow an account to sign in again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setActive(cmd, args[0], true)
		},
	}

	userDisableCmd = &cobra.Command{
		Use:   "disable <username>",
		Short: "Stop an account from signing in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setActive(cmd, args[0], false)
		},
	}
)
