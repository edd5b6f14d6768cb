package config

import (
	"time"

	"github.com/GoWebAPP/GoWebAPP/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode      bool // enable dev mode for development
	DB           DB
	Log          logger.Log
	Title        string
	Webserver    Webserver
	Site         Site
	PWA          PWA
	Housekeeping Housekeeping
	Admin        Admin
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic        bool    // enable static file browsing (for development purposes only)
	CleanPath           bool    // route multi slash and dot segment paths like their clean form
	DisableRecover      bool    // disable recover middleware
	Domain              string  // cookie domain, empty for host only cookies
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	CookieEncryptionKey string  // base64 AES key, enables cookie encryption when set
	Session             Session // session settings
}

// Site describes the host site the app shell is layered on.
type Site struct {
	Name        string
	Description string
	Language    string // manifest lang, e.g. en-US
	Direction   string // ltr or rtl
	Version     string // embedded in the service worker cache name
}

// PWA holds service worker settings.
type PWA struct {
	PrecacheURLs []string
	OfflinePath  string
}

// Housekeeping configures the analytics retention sweep.
type Housekeeping struct {
	Disabled      bool
	Schedule      string // cron expression, minute hour dom month dow
	RetentionDays int
}

// Admin is the account created on first start.
type Admin struct {
	Username string
	Password string
}
