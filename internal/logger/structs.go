package logger

// Console configures output on stdout and stderr.
type Console struct {
	Enabled bool `toml:"enabled"`
	// Pretty writes human readable lines instead of JSON.
	Pretty bool `toml:"pretty"`
}

// Rotation configures one rolling log file.
type Rotation struct {
	Name       string `toml:"name"`       // file name below Files.Dir
	MaxSize    int    `toml:"maxSize"`    // megabytes before rotation
	MaxBackups int    `toml:"maxBackups"` // rotated files kept
	MaxAge     int    `toml:"maxAge"`     // days rotated files are kept
	Compress   bool   `toml:"compress"`
}

// Files configures rolling log files, one per stream.
type Files struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`

	Access Rotation `toml:"access"`
	Error  Rotation `toml:"error"` // error, fatal and panic
	Warn   Rotation `toml:"warn"`
	Info   Rotation `toml:"info"` // info and debug
	Trace  Rotation `toml:"trace"`
}

// Access configures the HTTP access log.
type Access struct {
	// Console also writes access lines to stdout. It has no effect while
	// Console.Enabled is false.
	Console bool `toml:"console"`
	// QuietPaths are request paths never logged, e.g. health checks.
	QuietPaths []string `toml:"quietPaths"`
}

// Log implements the logger config.
type Log struct {
	Level        string // trace, debug, info, warn, error
	Env          string
	Service      string
	ReportCaller bool

	Console Console `toml:"console"`
	Files   Files   `toml:"files"`
	Access  Access  `toml:"access"`
}
