// Package shell renders the app shell page with its first feed page and
// serves the theme stylesheet.
package shell

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoWebAPP/GoWebAPP/internal/auth"
	"github.com/GoWebAPP/GoWebAPP/internal/content"
	domainpwa "github.com/GoWebAPP/GoWebAPP/internal/pwa"
	domain "github.com/GoWebAPP/GoWebAPP/internal/shell"
	"github.com/GoWebAPP/GoWebAPP/internal/theme"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler/api/engagement"
)

const (
	// TemplateName is the shell page template.
	TemplateName = "shell/index"

	// StylesheetPath serves the theme variables and custom CSS.
	StylesheetPath = "/webapp/theme.css"

	bannerShade = -20
)

// Service is the shell handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Handler is the shell handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the shell handler.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if app == nil || !env.Valid() || env.Content == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.env = env

	app.Get(handler.RootPath, s.Page)
	app.Get(StylesheetPath, s.Stylesheet)

	return nil
}

// Page renders the shell with the first page of the feed. A category or
// search query string preselects that filter.
func (s *Service) Page(c *fiber.Ctx) error {
	v, err := s.env.Settings.Values()
	if err != nil {
		return handler.Fail(c, err)
	}

	p := auth.PrincipalFromCtx(c)

	loader := &domain.Loader{
		Feed:   domain.NewFeed(content.DefaultPerPage),
		Source: domain.RepositorySource{Repo: s.env.Content, Actor: p.Actor()},
	}

	switch {
	case c.Query("category") != "":
		err = loader.SelectCategory(c.UserContext(), c.Query("category"))
	case c.Query("search") != "":
		err = loader.Search(c.UserContext(), c.Query("search"))
	default:
		err = loader.Initial(c.UserContext())
	}

	// a failed first page is rendered as the error state with a retry button
	if err != nil {
		log.Error().Err(err).Msg("failed to load first feed page")
	}

	var categories []content.CategoryInfo

	if v.CategoriesEnabled {
		if categories, err = s.env.Content.Categories(c.UserContext()); err != nil {
			log.Error().Err(err).Msg("failed to load categories")
		}
	}

	color := handler.ThemeColor(v)

	return c.Render(TemplateName, fiber.Map{
		"Title":           handler.AppName(v, s.env.Cfg),
		"Settings":        v,
		"ThemeClass":      theme.RootClass(theme.Resolve(v.Theme).ID),
		"Feed":            loader.Feed.Snapshot(),
		"Categories":      categories,
		"ThemeColor":      color,
		"BannerColor":     theme.AdjustBrightness(color, bannerShade),
		"ShowBanner":      v.Enabled && v.PWAEnabled && v.InstallBanner && !engagement.BannerDismissed(c),
		"AppleTouchSizes": domainpwa.AppleTouchSizes,
		"Lang":            s.env.Cfg.Site.Language,
		"Dir":             s.env.Cfg.Site.Direction,
		"Version":         s.env.Cfg.Site.Version,
		"CurrentUser":     p.User,
		"CanAdminister":   p.CanAdminister(),
		"CSRFToken":       handler.CSRFToken(c),
	}, handler.BaseLayout)
}

// Stylesheet serves the :root variables of the active theme.
func (s *Service) Stylesheet(c *fiber.Ctx) error {
	v, err := s.env.Settings.Values()
	if err != nil {
		return handler.Fail(c, err)
	}

	css, err := theme.Stylesheet(theme.StyleInput{
		ThemeID:        v.Theme,
		PrimaryColor:   v.PrimaryColor,
		SecondaryColor: v.SecondaryColor,
		DarkMode:       v.DarkMode,
		CustomCSS:      v.CustomCSS,
	})
	if err != nil {
		return handler.Fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/css; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	return c.Send(css)
}
