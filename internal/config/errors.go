package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if db.gormEngine is not sqlite, mysql or postgres.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine must be sqlite, mysql or postgres")

	// ErrInvalidCookieKey error if webserver.cookieEncryptionKey is not a base64 AES key.
	ErrInvalidCookieKey = errors.New("toml config webserver.cookieEncryptionKey must be a base64 encoded 16, 24 or 32 byte key")

	// ErrInvalidSchedule error if housekeeping.schedule can not be parsed.
	ErrInvalidSchedule = errors.New("toml config housekeeping.schedule is not a valid cron expression")
)
