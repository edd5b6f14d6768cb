package pwa

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/GoWebAPP/GoWebAPP/internal/pwa"
	"github.com/GoWebAPP/GoWebAPP/internal/settings"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler/handlertest"
)

func setup(t *testing.T) (*fiber.App, *handler.Env, *handlertest.Views) {
	t.Helper()

	env := handlertest.Env(t)
	views := &handlertest.Views{}
	app := handlertest.NewApp(views)

	var s Service
	require.NoError(t, s.Init(app, env))

	return app, env, views
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, []byte) {
	t.Helper()

	return handlertest.Do(t, app, httptest.NewRequest(http.MethodGet, target, nil))
}

func TestManifest(t *testing.T) {
	app, env, _ := setup(t)
	require.NoError(t, env.Settings.Set(settings.KeyPrimaryColor, "#112233"))

	resp, body := get(t, app, ManifestPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, mimeManifest, resp.Header.Get(fiber.HeaderContentType))

	var m domain.Manifest
	require.NoError(t, json.Unmarshal(body, &m))
	assert.Equal(t, "Test Site", m.Name)
	assert.Equal(t, "#112233", m.ThemeColor)
	assert.Equal(t, "en-US", m.Lang)
	assert.Len(t, m.Icons, len(domain.IconSizes))
}

func TestServiceWorker(t *testing.T) {
	app, _, _ := setup(t)

	resp, body := get(t, app, WorkerPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Service-Worker-Allowed"))
	assert.Contains(t, string(body), `const CACHE_NAME = "webapp-v1.0.0";`)
	assert.Contains(t, string(body), `"/offline.html"`)
}

func TestIcon(t *testing.T) {
	app, _, _ := setup(t)

	testCases := []struct {
		name         string
		target       string
		expectedCode int
		expectedSide int
	}{
		{name: "manifest size", target: "/icons/icon-192.png", expectedCode: 200, expectedSide: 192},
		{name: "apple touch size", target: "/icons/icon-180.png", expectedCode: 200, expectedSide: 180},
		{name: "unsupported size", target: "/icons/icon-100.png", expectedCode: 404},
		{name: "not a number", target: "/icons/icon-big.png", expectedCode: 404},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := get(t, app, tc.target)
			require.Equal(t, tc.expectedCode, resp.StatusCode)

			if tc.expectedCode != http.StatusOK {
				return
			}

			img, err := png.Decode(bytes.NewReader(body))
			require.NoError(t, err)
			assert.Equal(t, tc.expectedSide, img.Bounds().Dx())
		})
	}
}

func TestDisabledPWA(t *testing.T) {
	app, env, views := setup(t)
	require.NoError(t, env.Settings.Set(settings.KeyPWAEnabled, "0"))

	for _, target := range []string{ManifestPath, WorkerPath, "/icons/icon-192.png"} {
		resp, _ := get(t, app, target)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, target)
	}

	resp, body := get(t, app, "/offline.html")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, OfflineTemplate, string(body))

	_, binding := views.Last()
	assert.Equal(t, "Test Site", binding["AppName"])
}
