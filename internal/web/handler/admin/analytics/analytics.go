// Package analytics provides the admin dashboard: recent engagement
// counts, the most active posts and the featured post toggle.
package analytics

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	domain "github.com/GoWebAPP/GoWebAPP/internal/analytics"
	"github.com/GoWebAPP/GoWebAPP/internal/auth"
	"github.com/GoWebAPP/GoWebAPP/internal/content"
	"github.com/GoWebAPP/GoWebAPP/internal/settings"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
	"github.com/GoWebAPP/GoWebAPP/internal/web/navigation"
	"github.com/GoWebAPP/GoWebAPP/internal/web/response"
)

const (
	// Path is the path to the analytics page.
	Path = handler.AdminPath + "/analytics"

	// FeaturedPath toggles the featured flag of a post.
	FeaturedPath = handler.AdminPath + "/posts/:id/featured"

	// TemplateName is the name of the analytics template.
	TemplateName = "admin/analytics"

	// DefaultDays is the default reporting window.
	DefaultDays = 30

	maxDays     = 365
	topPosts    = 10
	recentPosts = 20
)

// Data is the analytics page model.
type Data struct {
	Days    int               `json:"days"`
	Summary *domain.Summary   `json:"summary"`
	Recent  []content.Summary `json:"recent"`
}

// Service is the analytics handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Handler is the analytics handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the analytics handler.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if app == nil || !env.Valid() || env.Auth == nil || env.Analytics == nil || env.Content == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.env = env

	app.Get(Path,
		auth.RequirePermission(env.Auth, auth.PermAnalyticsView),
		s.Get,
	)
	app.Post(FeaturedPath,
		auth.RequirePermission(env.Auth, auth.PermContentFeature),
		s.SetFeatured,
	)

	return nil
}

// Get renders the dashboard, or serves its data to scripts.
func (s *Service) Get(c *fiber.Ctx) error {
	days := c.QueryInt("days", DefaultDays)
	if days < 1 || days > maxDays {
		days = DefaultDays
	}

	ctx := c.UserContext()
	since := s.env.Now().Add(-time.Duration(days) * 24 * time.Hour)

	summary, err := s.env.Analytics.Summarize(ctx, since, topPosts)
	if err != nil {
		return s.fail(c, err)
	}

	page, err := s.env.Content.List(ctx, content.Query{Page: 1, PerPage: recentPosts}, auth.PrincipalFromCtx(c).Actor())
	if err != nil {
		return s.fail(c, err)
	}

	data := Data{Days: days, Summary: summary, Recent: page.Posts}

	log.Debug().
		Int("days", days).
		Int("event_types", len(summary.ByType)).
		Int("top_posts", len(summary.TopPosts)).
		Msg("analytics summary retrieved")

	if response.WantsJSON(c) {
		return response.OK(c, data)
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation": navigation.Admin("Analytics", navigation.PageAnalytics),
		"Data":       data,
		"CSRFToken":  handler.CSRFToken(c),
	}, handler.BaseLayout)
}

// SetFeatured sets the featured flag of a post from the "featured" form
// value and answers with the new state.
func (s *Service) SetFeatured(c *fiber.Ctx) error {
	if !auth.PrincipalFromCtx(c).VerifiedToken() {
		return s.fail(c, settings.ErrUnauthorized)
	}

	id, err := handler.PostID(c)
	if err != nil {
		return s.fail(c, err)
	}

	featured := c.FormValue("featured") == "1"

	if err := s.env.Content.SetFeatured(c.UserContext(), id, featured); err != nil {
		return s.fail(c, err)
	}

	log.Info().Uint64("post_id", id).Bool("featured", featured).Msg("post featured flag updated")

	if response.WantsJSON(c) {
		return response.OK(c, fiber.Map{"id": id, "featured": featured})
	}

	return c.Redirect(Path, fiber.StatusSeeOther)
}

func (s *Service) fail(c *fiber.Ctx, err error) error {
	if response.WantsJSON(c) {
		return handler.Fail(c, err)
	}

	status, message := handler.Status(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("analytics request failed")
	}

	return c.Status(status).SendString(message)
}
