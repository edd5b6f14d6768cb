// Package logger configures the global zerolog logger used by every package.
package logger

import (
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Stream is a group of levels sharing one output.
type Stream int

// Streams in ascending severity.
const (
	StreamTrace Stream = iota
	StreamInfo
	StreamWarn
	StreamError
	streamCount
)

// StreamOf returns the stream level l is written to. Debug goes with info,
// fatal and panic with error.
func StreamOf(l zerolog.Level) Stream {
	switch {
	case l == zerolog.TraceLevel:
		return StreamTrace
	case l == zerolog.WarnLevel:
		return StreamWarn
	case l > zerolog.WarnLevel:
		return StreamError
	default:
		return StreamInfo
	}
}

// LevelWriter sends each event to the writer of its stream.
type LevelWriter struct {
	streams [streamCount]io.Writer
}

// NewLevelWriter returns a writer with out(s) as the output of stream s.
func NewLevelWriter(out func(s Stream) io.Writer) *LevelWriter {
	lw := &LevelWriter{}
	for s := range streamCount {
		lw.streams[s] = out(s)
	}

	return lw
}

// Write implements io.Writer for events without a level.
func (lw *LevelWriter) Write(p []byte) (int, error) {
	return lw.streams[StreamInfo].Write(p) //nolint:wrapcheck
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l == zerolog.Disabled {
		return 0, nil
	}

	w := lw.streams[StreamOf(l)]
	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init replaces the global logger. Outputs not enabled in cfg stay silent,
// so at least one of Console and Files should be on.
func Init(cfg Log) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return errors.Wrapf(err, "log level %s is not supported", cfg.Level)
	}

	if cfg.Service == "" {
		return ErrServiceIsEmpty
	}

	zerolog.SetGlobalLevel(level)
	zerolog.ErrorHandler = ErrorHandler //nolint:reassign

	stack := level == zerolog.TraceLevel
	if stack {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg.Console))
	}

	if cfg.Files.Enabled {
		if w := newRollingFiles(cfg.Files); w != nil {
			writers = append(writers, w)
		}
	}

	logCtx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.Service)).
		With().
		Timestamp().
		Str("service", cfg.Service)

	if cfg.Env != "" {
		logCtx = logCtx.Str("env", cfg.Env)
	}

	switch {
	case cfg.ReportCaller && stack:
		log.Logger = logCtx.Stack().Caller().Logger()
	case cfg.ReportCaller:
		log.Logger = logCtx.Caller().Logger()
	default:
		log.Logger = logCtx.Logger()
	}

	return nil
}

// Rolling returns a lumberjack file for r below dir, creating dir if needed.
// It returns nil when r has no file name or dir can not be created.
func Rolling(dir string, r Rotation) io.Writer {
	if r.Name == "" {
		return nil
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:mnd
			log.Error().Err(err).Str("dir", dir).Msg("can't create log directory")

			return nil
		}
	}

	return &lumberjack.Logger{
		Filename:   path.Join(dir, r.Name),
		MaxSize:    r.MaxSize,
		MaxAge:     r.MaxAge,
		MaxBackups: r.MaxBackups,
		Compress:   r.Compress,
	}
}

func newRollingFiles(cfg Files) io.Writer {
	rotations := [streamCount]Rotation{
		StreamTrace: cfg.Trace,
		StreamInfo:  cfg.Info,
		StreamWarn:  cfg.Warn,
		StreamError: cfg.Error,
	}

	opened := false
	lw := NewLevelWriter(func(s Stream) io.Writer {
		w := Rolling(cfg.Dir, rotations[s])
		if w == nil {
			return nil
		}

		opened = true

		return w
	})

	if !opened {
		return nil
	}

	return lw
}

// NewConsoleWriter writes info and debug to stdout and everything else to
// stderr.
func NewConsoleWriter(cfg Console) io.Writer {
	stdout, stderr := consoleOut(os.Stdout, cfg.Pretty), consoleOut(os.Stderr, cfg.Pretty)

	return NewLevelWriter(func(s Stream) io.Writer {
		if s == StreamInfo {
			return stdout
		}

		return stderr
	})
}

func consoleOut(f *os.File, pretty bool) io.Writer {
	if !pretty {
		return f
	}

	return zerolog.ConsoleWriter{Out: f, TimeFormat: zerolog.TimeFieldFormat}
}
