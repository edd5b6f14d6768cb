// Package fiber is a zerolog access log middleware for fiber.
package fiber

import (
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/GoWebAPP/GoWebAPP/internal/logger"
)

// HeaderPerformance carries the handling time in seconds.
const HeaderPerformance = "X-Performance"

// Config implements fiber middleware struct.
type Config struct {
	// Next skips the middleware when it returns true.
	Next func(c *fiber.Ctx) bool

	// Log selects the outputs and quiet paths.
	Log logger.Log

	// QuietPaths are added to Log.Access.QuietPaths.
	QuietPaths []string

	// Actor names who made the request, e.g. a user id. Optional.
	Actor func(c *fiber.Ctx) string

	// CacheControlError is set on responses the error handler failed on.
	CacheControlError string
}

func configDefault(config ...Config) Config {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.CacheControlError == "" {
		cfg.CacheControlError = "max-age=0"
	}

	return cfg
}

func newAccessLogger(cfg logger.Log) zerolog.Logger {
	var writers []io.Writer

	if cfg.Files.Enabled {
		if w := logger.Rolling(cfg.Files.Dir, cfg.Files.Access); w != nil {
			writers = append(writers, w)
		}
	}

	if cfg.Console.Enabled && cfg.Access.Console {
		w := io.Writer(os.Stdout)
		if cfg.Console.Pretty {
			w = zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{zerolog.LevelFieldName},
			}
		}

		writers = append(writers, w)
	}

	if len(writers) == 0 {
		return zerolog.Nop()
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)
}

// New creates the access log middleware. Each request is one line with the
// status, handling time, the URI as sent and the matched route. Errors from
// the chain are passed to the app error handler first so the logged status
// is the one the client sees.
func New(config ...Config) fiber.Handler {
	var (
		cfg        = configDefault(config...)
		access     = newAccessLogger(cfg.Log)
		once       sync.Once
		errHandler fiber.ErrorHandler
		quiet      = make(map[string]struct{})
	)

	for _, p := range append(append([]string(nil), cfg.Log.Access.QuietPaths...), cfg.QuietPaths...) {
		quiet[p] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		once.Do(func() {
			errHandler = c.App().ErrorHandler
		})

		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if err := errHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck
				c.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
			}
		}

		elapsed := time.Since(start).Seconds()
		c.Set(HeaderPerformance, strconv.FormatFloat(elapsed, 'f', 6, 64))

		if _, ok := quiet[c.Path()]; ok {
			return nil
		}

		// fasthttp normalizes the path (//a becomes /a); log what was sent
		uri := string(c.Request().RequestURI())

		line := access.Log().
			Str("ip", c.IP()).
			Int("status", c.Response().StatusCode()).
			Float64("elapsed", elapsed).
			Str("uri", uri).
			Str("route", c.Route().Path).
			Str("method", c.Method()).
			Bytes("host", c.Request().Host()).
			Bool("xhr", c.XHR()).
			Str("user_agent", c.Get(fiber.HeaderUserAgent)).
			Str("referer", c.Get(fiber.HeaderReferer))

		if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
			line = line.Str("forwarded_for", fwd)
		}

		if cfg.Actor != nil {
			line = line.Str("actor", cfg.Actor(c))
		}

		if chainErr != nil {
			line = line.Err(chainErr)
		}

		line.Send()

		return nil
	}
}
