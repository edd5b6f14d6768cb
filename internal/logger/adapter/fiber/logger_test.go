package fiber_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoWebAPP/GoWebAPP/internal/logger"
	adapter "github.com/GoWebAPP/GoWebAPP/internal/logger/adapter/fiber"
)

// accessLine implements the fields of one access log entry the tests care about.
type accessLine struct {
	Status int    `json:"status"`
	URI    string `json:"uri"`
	Route  string `json:"route"`
	Method string `json:"method"`
	Host   string `json:"host"`
	Actor  string `json:"actor"`
	XHR    bool   `json:"xhr"`
}

func consoleConfig() adapter.Config {
	return adapter.Config{
		Log: logger.Log{
			Console: logger.Console{Enabled: true},
			Access:  logger.Access{Console: true},
		},
	}
}

func TestNew(t *testing.T) {
	quiet := consoleConfig()
	quiet.Log.Access.QuietPaths = []string{"/checkalive"}
	quiet.QuietPaths = []string{"/metrics"}

	withActor := consoleConfig()
	withActor.Actor = func(*fiber.Ctx) string { return "user:7" }

	consoleOff := consoleConfig()
	consoleOff.Log.Console.Enabled = false

	tests := []struct {
		name       string
		targetPath string
		config     adapter.Config
		want       *accessLine
	}{
		{
			name:       "nothing enabled no output",
			targetPath: "/api/posts",
		},
		{
			name:       "access console needs console",
			targetPath: "/api/posts",
			config:     consoleOff,
		},
		{
			name:       "posts endpoint json",
			targetPath: "/api/posts",
			config:     consoleConfig(),
			want:       &accessLine{Status: 200, URI: "/api/posts", Route: "/api/posts", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "query string is kept",
			targetPath: "/api/posts?page=2&search=go",
			config:     consoleConfig(),
			want:       &accessLine{Status: 200, URI: "/api/posts?page=2&search=go", Route: "/api/posts", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "unknown path logs 404",
			targetPath: "/no_path//x",
			config:     consoleConfig(),
			want:       &accessLine{Status: 404, URI: "/no_path//x", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "actor is logged",
			targetPath: "/api/posts",
			config:     withActor,
			want:       &accessLine{Status: 200, URI: "/api/posts", Route: "/api/posts", Method: fiber.MethodGet, Host: "example.com", Actor: "user:7"},
		},
		{
			name:       "configured quiet path",
			targetPath: "/checkalive",
			config:     quiet,
		},
		{
			name:       "extra quiet path",
			targetPath: "/metrics",
			config:     quiet,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			output := runMiddleware(t, tc.targetPath, tc.config)

			if tc.want == nil {
				assert.Empty(t, output)
				return
			}

			require.NotEmpty(t, output)

			var got accessLine
			require.NoError(t, json.Unmarshal([]byte(output), &got))

			assert.Equal(t, tc.want.Status, got.Status)
			assert.Equal(t, tc.want.URI, got.URI)
			assert.Equal(t, tc.want.Method, got.Method)
			assert.Equal(t, tc.want.Host, got.Host)
			assert.Equal(t, tc.want.Actor, got.Actor)

			if tc.want.Route != "" {
				assert.Equal(t, tc.want.Route, got.Route)
			}
		})
	}
}

func TestPerformanceHeader(t *testing.T) {
	app := fiber.New()
	app.Use(adapter.New())
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	assert.NotEmpty(t, resp.Header.Get(adapter.HeaderPerformance))
}

func runMiddleware(t *testing.T, targetPath string, adapterConfig adapter.Config) string {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	// capture stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		Immutable:     true,
	})

	app.Use(adapter.New(adapterConfig))

	ok := func(ctx *fiber.Ctx) error {
		return ctx.SendString("ok")
	}
	app.Get("/api/posts", ok)
	app.Get("/checkalive", ok)
	app.Get("/metrics", ok)

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, targetPath, nil), 100000)

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr
	out := <-outC

	require.NoError(t, err)

	return out
}
