// Package app implements the main application commands.
package app

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GoWebAPP/GoWebAPP/internal/config"
	"github.com/GoWebAPP/GoWebAPP/internal/logger"
)

const (
	// envPrefix is the prefix of environment variables overriding flags,
	// e.g. WEBAPP_DEV for --dev.
	envPrefix = "WEBAPP"
	// EnvConfigPath overrides --config.
	EnvConfigPath = "WEBAPP_CONFIG_PATH"
)

var (
	cfg config.Config

	flags = viper.New() //nolint:gochecknoglobals

	rootCmd = &cobra.Command{
		Use:   "go-webapp",
		Short: "WebAPP turns a content site into an installable mobile app shell",
		Long: `WebAPP serves a mobile app shell over a site's posts: an infinite feed
with search and categories, likes and bookmarks, themes, a web app
manifest and a service worker, plus an admin area for settings and analytics.`,
		Args:         cobra.OnlyValidArgs,
		SilenceUsage: true,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().String("config", "./etc/", "Directory holding main.toml")

	flags.SetEnvPrefix(envPrefix)
	flags.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	flags.AutomaticEnv()

	if err := flags.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		panic(err)
	}

	if err := flags.BindEnv("config", EnvConfigPath); err != nil {
		panic(err)
	}
}

// loadConfig reads the configuration and starts logging.
func loadConfig() error {
	var err error

	if cfg, err = config.ReadConfig(configDir()); err != nil {
		return err
	}

	if flags.GetBool("dev") {
		cfg.DevMode = true
	}

	return errors.Wrap(logger.Init(cfg.Log), "init logger")
}

func configDir() string {
	dir := flags.GetString("config")
	if dir != "" && !strings.HasSuffix(dir, "/") {
		dir += "/"
	}

	return dir
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
