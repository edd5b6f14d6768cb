package shell

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoWebAPP/GoWebAPP/internal/auth"
	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
	"github.com/GoWebAPP/GoWebAPP/internal/settings"
	domain "github.com/GoWebAPP/GoWebAPP/internal/shell"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler/api/engagement"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler/handlertest"
)

func setup(t *testing.T, user *models.User, verified bool) (*fiber.App, *handler.Env, *handlertest.Views) {
	t.Helper()

	env := handlertest.Env(t)

	tech := models.Category{Name: "Tech", Slug: "tech"}
	require.NoError(t, env.DB.Create(&tech).Error)

	for i := 1; i <= 12; i++ {
		var cats []models.Category
		if i%4 == 0 {
			cats = []models.Category{tech}
		}

		handlertest.CreatePost(t, env.DB, fmt.Sprintf("post-%d", i), time.Now().Add(-time.Duration(i)*time.Minute), cats...)
	}

	views := &handlertest.Views{}
	app := handlertest.NewApp(views, handlertest.As(user, verified))

	var s Service
	require.NoError(t, s.Init(app, env))

	return app, env, views
}

func TestPageRendersFirstFeedPage(t *testing.T) {
	testCases := []struct {
		name          string
		target        string
		expectedCount int
		expectedMore  bool
		expectedCat   string
	}{
		{name: "initial load", target: "/", expectedCount: 10, expectedMore: true},
		{name: "category preselected", target: "/?category=tech", expectedCount: 3, expectedCat: "tech"},
		{name: "search preselected", target: "/?search=post-1", expectedCount: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app, _, views := setup(t, nil, false)

			resp, _ := handlertest.Do(t, app, httptest.NewRequest(http.MethodGet, tc.target, nil))
			require.Equal(t, http.StatusOK, resp.StatusCode)

			name, binding := views.Last()
			assert.Equal(t, TemplateName, name)

			feed, ok := binding["Feed"].(domain.Snapshot)
			require.True(t, ok)
			assert.Equal(t, domain.Loaded, feed.State)
			assert.Len(t, feed.Posts, tc.expectedCount)
			assert.Equal(t, tc.expectedMore, feed.HasMore)
			assert.Equal(t, tc.expectedCat, feed.Filter.Category)
		})
	}
}

func TestPageBanner(t *testing.T) {
	testCases := []struct {
		name      string
		enabled   string
		dismissed bool
		expected  bool
	}{
		{name: "shown when enabled", enabled: "1", expected: true},
		{name: "hidden after dismissal", enabled: "1", dismissed: true},
		{name: "hidden while app is off", enabled: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app, env, views := setup(t, nil, false)
			require.NoError(t, env.Settings.Set(settings.KeyEnabled, tc.enabled))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.dismissed {
				req.AddCookie(&http.Cookie{Name: engagement.BannerCookie, Value: "1"})
			}

			handlertest.Do(t, app, req)

			_, binding := views.Last()
			assert.Equal(t, tc.expected, binding["ShowBanner"])
			assert.Equal(t, "#4f51c0", binding["BannerColor"])
		})
	}
}

func TestSavedThemeReachesStylesheet(t *testing.T) {
	admin := &models.User{ID: 1, Username: "admin", Active: true, Admin: true}
	app, env, _ := setup(t, admin, true)

	caller := auth.Principal{User: admin, TokenVerified: true}
	require.NoError(t, env.Settings.Save(caller, map[string]string{
		"theme":         "dark",
		"primary_color": "#112233",
	}))

	resp, body := handlertest.Do(t, app, httptest.NewRequest(http.MethodGet, StylesheetPath, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/css; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, string(body), "--webapp-primary: #112233;")
	assert.Contains(t, string(body), "--webapp-accent: #8b5cf6;")
	assert.Contains(t, string(body), "--webapp-border-radius: 20px;")
}

func TestPageThemeClass(t *testing.T) {
	testCases := []struct {
		name     string
		stored   string
		expected string
	}{
		{name: "catalog theme", stored: "news", expected: "webapp-theme-news"},
		{name: "unknown theme resolves to default", stored: "retro", expected: "webapp-theme-modern"},
		{name: "empty theme resolves to default", stored: "", expected: "webapp-theme-modern"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app, env, views := setup(t, nil, false)
			require.NoError(t, env.Settings.Set(settings.KeyTheme, tc.stored))

			resp, _ := handlertest.Do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, resp.StatusCode)

			_, binding := views.Last()
			assert.Equal(t, tc.expected, binding["ThemeClass"])
		})
	}
}
