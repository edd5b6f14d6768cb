// Package engagement serves like and bookmark toggles, the reader's
// bookmark list and the install banner dismissal.
package engagement

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/GoWebAPP/GoWebAPP/internal/auth"
	domain "github.com/GoWebAPP/GoWebAPP/internal/engagement"
	"github.com/GoWebAPP/GoWebAPP/internal/settings"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
	"github.com/GoWebAPP/GoWebAPP/internal/web/response"
)

const (
	// BookmarksPath lists the signed-in reader's bookmarks.
	BookmarksPath = handler.APIPath + "/bookmarks"

	// BannerDismissPath hides the install banner.
	BannerDismissPath = handler.APIPath + "/banner/dismiss"

	// BannerCookie is set once the banner was dismissed.
	BannerCookie = "webapp_banner_dismissed"

	bannerCookieAge = 30 * 24 * time.Hour
)

// Service is the engagement handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Handler is the engagement handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the engagement handler.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if app == nil || !env.Valid() || env.Tracker == nil || env.Content == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.env = env

	app.Post(handler.APIPath+"/posts/:id/like", s.ToggleLike)
	app.Post(handler.APIPath+"/posts/:id/bookmark", s.ToggleBookmark)
	app.Get(BookmarksPath, s.Bookmarks)
	app.Post(BannerDismissPath, s.DismissBanner)

	return nil
}

// ToggleLike flips the caller's like on a post. Guests are identified by IP.
func (s *Service) ToggleLike(c *fiber.Ctx) error {
	p := auth.PrincipalFromCtx(c)
	if !p.VerifiedToken() {
		return handler.Fail(c, settings.ErrUnauthorized)
	}

	id, err := handler.PostID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	res, err := s.env.Tracker.ToggleLike(c.UserContext(), id, p.Actor())
	if err != nil {
		return handler.Fail(c, err)
	}

	return response.OK(c, res)
}

// ToggleBookmark flips a bookmark of the signed-in reader.
func (s *Service) ToggleBookmark(c *fiber.Ctx) error {
	p := auth.PrincipalFromCtx(c)
	if !p.VerifiedToken() {
		return handler.Fail(c, settings.ErrUnauthorized)
	}

	// guests learn they must sign in before the id is even looked at
	if p.UserID() == 0 {
		return handler.Fail(c, domain.ErrUnauthenticated)
	}

	id, err := handler.PostID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	res, err := s.env.Tracker.ToggleBookmark(c.UserContext(), id, p.UserID())
	if err != nil {
		return handler.Fail(c, err)
	}

	return response.OK(c, res)
}

// Bookmarks lists the reader's bookmarked posts, newest bookmark first.
func (s *Service) Bookmarks(c *fiber.Ctx) error {
	p := auth.PrincipalFromCtx(c)
	if p.UserID() == 0 {
		return handler.Fail(c, domain.ErrUnauthenticated)
	}

	ids, err := s.env.Tracker.Bookmarks(c.UserContext(), p.UserID())
	if err != nil {
		return handler.Fail(c, err)
	}

	posts, err := s.env.Content.Posts(c.UserContext(), ids, p.Actor())
	if err != nil {
		return handler.Fail(c, err)
	}

	return response.OK(c, posts)
}

// DismissBanner remembers for 30 days that the install banner was closed.
func (s *Service) DismissBanner(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     BannerCookie,
		Value:    "1",
		Path:     handler.RootPath,
		MaxAge:   int(bannerCookieAge.Seconds()),
		Domain:   s.env.Cfg.Webserver.Domain,
		Secure:   !s.env.Cfg.DevMode,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return response.OK(c, nil)
}

// BannerDismissed reports whether the request carries the dismissal cookie.
func BannerDismissed(c *fiber.Ctx) bool {
	return c.Cookies(BannerCookie) == "1"
}
