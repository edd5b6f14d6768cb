// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

const (
	// EnvConfigJSON holds a JSON document merged over the TOML file.
	EnvConfigJSON = "WEBAPP_CONFIG_JSON"

	defaultShutDownTime  = 5
	defaultRetentionDays = 90
	defaultSchedule      = "0 3 * * *"
	defaultVersion       = "1.0.0"
	defaultOfflinePath   = "/offline.html"
	defaultSessionExpiry = 24 * time.Hour
)

// DefaultPrecacheURLs are cached by the service worker on install.
var DefaultPrecacheURLs = []string{ //nolint:gochecknoglobals
	"/",
	"/static/css/frontend.css",
	"/static/js/frontend.js",
	defaultOfflinePath,
}

// CronParser is the parser used for housekeeping schedules.
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor) //nolint:gochecknoglobals,lll

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to merge config from "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validCookieKey accepts an empty key, which leaves cookies unencrypted.
func validCookieKey(key string) bool {
	if key == "" {
		return true
	}

	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return false
	}

	switch len(raw) {
	case 16, 24, 32: //nolint:mnd
		return true
	default:
		return false
	}
}

// validate checks the settings the service can not start without
// and fills in defaults for the optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if !validCookieKey(c.Webserver.CookieEncryptionKey) {
		return errors.Wrap(ErrInvalidCookieKey, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EngineSQLite, EngineMySQL, EnginePostgres:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime <= 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Housekeeping.RetentionDays <= 0 {
		c.Housekeeping.RetentionDays = defaultRetentionDays
	}

	if c.Housekeeping.Schedule == "" {
		c.Housekeeping.Schedule = defaultSchedule
	}

	if _, err := CronParser.Parse(c.Housekeeping.Schedule); err != nil {
		return errors.Wrap(ErrInvalidSchedule, err.Error())
	}

	if c.Site.Version == "" {
		c.Site.Version = defaultVersion
	}

	if c.PWA.OfflinePath == "" {
		c.PWA.OfflinePath = defaultOfflinePath
	}

	if len(c.PWA.PrecacheURLs) == 0 {
		c.PWA.PrecacheURLs = append([]string(nil), DefaultPrecacheURLs...)
	}

	return nil
}
