package stdlogger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoWebAPP/GoWebAPP/internal/logger/adapter/stdlogger"
)

type entry struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component"`
}

// captureGlobal swaps the global logger for one writing JSON into a buffer.
func captureGlobal(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()

	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(level)

	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	return &buf
}

func decode(t *testing.T, buf *bytes.Buffer) []entry {
	t.Helper()

	var out []entry

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var e entry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		out = append(out, e)
	}

	return out
}

func TestLevels(t *testing.T) {
	buf := captureGlobal(t, zerolog.InfoLevel)

	l := stdlogger.New()
	l.Debugf("hidden %d", 1)
	l.Infof("info %d", 2)
	l.Warningf("warn %d", 3)
	l.Errorf("error %d", 4)

	entries := decode(t, buf)
	require.Len(t, entries, 3)
	assert.Equal(t, "info", entries[0].Level)
	assert.Equal(t, "info 2", entries[0].Message)
	assert.Equal(t, "warn", entries[1].Level)
	assert.Equal(t, "error", entries[2].Level)
}

func TestPrintfMapsGormLevels(t *testing.T) {
	testCases := []struct {
		name  string
		msg   string
		level string
	}{
		{name: "error", msg: "/app/db.go:12 [error] failed to open", level: "error"},
		{name: "warn", msg: "/app/db.go:12 [warn] record not found", level: "warn"},
		{name: "slow sql", msg: "/app/db.go:12 SLOW SQL >= 200ms", level: "warn"},
		{name: "info", msg: "/app/db.go:12 [info] migrated", level: "info"},
		{name: "trace", msg: "/app/db.go:12 [1.2ms] [rows:1] SELECT 1", level: "debug"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureGlobal(t, zerolog.DebugLevel)

			stdlogger.NewComponent("gorm").Printf("%s", tc.msg)

			entries := decode(t, buf)
			require.Len(t, entries, 1)
			assert.Equal(t, tc.level, entries[0].Level)
			assert.Equal(t, "gorm", entries[0].Component)
			assert.Equal(t, tc.msg, entries[0].Message)
		})
	}
}
