// Package handlertest holds fixtures for handler tests: a recording view
// engine, a seeded environment and request helpers.
package handlertest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoWebAPP/GoWebAPP/internal/auth"
	"github.com/GoWebAPP/GoWebAPP/internal/config"
	"github.com/GoWebAPP/GoWebAPP/internal/db/dbtest"
	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
	"github.com/GoWebAPP/GoWebAPP/internal/web/response"
	"github.com/GoWebAPP/GoWebAPP/internal/web/session"
)

// Views is a minimal fiber view engine. It writes the "error" binding when
// present and the template name otherwise, and keeps the last binding.
type Views struct {
	mu       sync.Mutex
	name     string
	binding  fiber.Map
	rendered int
}

// Load implements fiber.Views.
func (v *Views) Load() error { return nil }

// Render implements fiber.Views.
func (v *Views) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.name = name
	v.rendered++
	v.binding, _ = data.(fiber.Map)

	if msg, ok := v.binding["error"].(string); ok && msg != "" {
		_, _ = io.WriteString(w, msg)

		return nil
	}

	_, _ = io.WriteString(w, name)

	return nil
}

// Last returns the last rendered template and its binding.
func (v *Views) Last() (string, fiber.Map) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.name, v.binding
}

// Config returns a valid configuration for tests.
func Config() *config.Config {
	return &config.Config{
		Title: "GoWebAPP",
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
		DB:   config.DB{GormEngine: config.EngineSQLite, Path: ":memory:"},
		Site: config.Site{Name: "Test Site", Language: "en-US", Direction: "ltr", Version: "1.0.0"},
		PWA: config.PWA{
			OfflinePath:  "/offline.html",
			PrecacheURLs: append([]string(nil), config.DefaultPrecacheURLs...),
		},
		Housekeeping: config.Housekeeping{Schedule: "0 3 * * *", RetentionDays: 90},
	}
}

// Env returns services over a fresh in-memory database with seeded settings
// and an in-memory session store.
func Env(t *testing.T) *handler.Env {
	t.Helper()

	env := handler.NewEnv(Config(), dbtest.Open(t))
	require.NoError(t, env.Settings.Seed(context.Background(), time.Now(), env.Cfg.Site.Version))

	session.Init(nil)

	return env
}

// NewApp returns an app rendering with views; mw runs before the routes.
func NewApp(views *Views, mw ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{Views: views})
	for _, h := range mw {
		app.Use(h)
	}

	return app
}

// As is a middleware acting as user. A nil user acts as guest. verified
// marks the request as having passed the anti-forgery check.
func As(user *models.User, verified bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals(auth.LocalsCurrentUser, *user)
		}

		c.Locals(auth.LocalsTokenVerified, verified)

		return c.Next()
	}
}

// CreateUser inserts an active user.
func CreateUser(t *testing.T, db *gorm.DB, username string, admin bool) *models.User {
	t.Helper()

	user, err := auth.NewLocalProvider(db).CreateUser(username, username+"@example.com", "secret", username, admin)
	require.NoError(t, err)

	return user
}

// CreatePost inserts a published post in the given categories.
func CreatePost(t *testing.T, db *gorm.DB, title string, publishedAt time.Time, categories ...models.Category) *models.Post {
	t.Helper()

	post := &models.Post{
		Title:       title,
		Content:     "<p>" + title + " body text</p>",
		Permalink:   "/" + title,
		Status:      models.PostStatusPublish,
		PublishedAt: publishedAt,
		Categories:  categories,
	}
	require.NoError(t, db.Create(post).Error)

	return post
}

// Do runs req against app and returns the response with its body.
func Do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, body
}

// Envelope decodes an API response body.
func Envelope(t *testing.T, body []byte) response.RawEnvelope {
	t.Helper()

	var env response.RawEnvelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))

	return env
}

// Data decodes the data of an API response body into out.
func Data(t *testing.T, body []byte, out any) response.RawEnvelope {
	t.Helper()

	env := Envelope(t, body)
	require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))

	return env
}
