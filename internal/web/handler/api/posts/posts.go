// Package posts serves the read side of the content API: the paginated
// feed, single posts, categories, featured and trending posts.
package posts

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoWebAPP/GoWebAPP/internal/auth"
	"github.com/GoWebAPP/GoWebAPP/internal/content"
	"github.com/GoWebAPP/GoWebAPP/internal/engagement"
	"github.com/GoWebAPP/GoWebAPP/internal/settings"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
	"github.com/GoWebAPP/GoWebAPP/internal/web/response"
)

const (
	// Path is the feed endpoint.
	Path = handler.APIPath + "/posts"

	// CategoriesPath lists categories.
	CategoriesPath = handler.APIPath + "/categories"

	defaultRelated    = 3
	defaultFeatured   = 5
	defaultTrending   = 5
	defaultTrendDays  = 7
	maxListLimit      = 20
	maxTrendingWindow = 365
)

// ListQuery is the accepted query string of the feed endpoint.
type ListQuery struct {
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PerPage  int    `query:"per_page" validate:"omitempty,min=1,max=50"`
	Category string `query:"category" validate:"omitempty,max=200"`
	Search   string `query:"search" validate:"omitempty,max=200"`
}

// Service is the posts handler service.
type Service struct {
	handler.Service
	env      *handler.Env
	validate *validator.Validate
}

// Handler is the posts handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the posts handler.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if app == nil || !env.Valid() || env.Content == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.env = env
	s.validate = validator.New()

	app.Get(CategoriesPath, s.Categories)
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.List)
		router.Get("/featured", s.Featured)
		router.Get("/trending", s.Trending)
		router.Get("/:id", s.Get)
	})

	return nil
}

// List returns one page of the feed. Featured posts are left out.
func (s *Service) List(c *fiber.Ctx) error {
	var q ListQuery

	if err := c.QueryParser(&q); err != nil {
		return handler.Fail(c, settings.ErrInvalidInput)
	}

	if err := s.validate.Struct(q); err != nil {
		return handler.Fail(c, settings.ErrInvalidInput)
	}

	page, err := s.env.Content.List(c.UserContext(), content.Query{
		Page:            q.Page,
		PerPage:         q.PerPage,
		Category:        q.Category,
		Search:          q.Search,
		ExcludeFeatured: true,
	}, auth.PrincipalFromCtx(c).Actor())
	if err != nil {
		return handler.Fail(c, err)
	}

	return response.OK(c, page)
}

// Get returns one post with related posts and counts the view.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.PostID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	actor := auth.PrincipalFromCtx(c).Actor()

	detail, err := s.env.Content.Get(c.UserContext(), id, defaultRelated, actor)
	if err != nil {
		return handler.Fail(c, err)
	}

	if s.env.Tracker != nil {
		err = s.env.Tracker.RecordView(c.UserContext(), id, engagement.View{
			Actor:     actor,
			UserAgent: c.Get(fiber.HeaderUserAgent),
			Referrer:  c.Get(fiber.HeaderReferer),
		})
		if err != nil {
			log.Warn().Err(err).Uint64("post_id", id).Msg("failed to record view")
		} else {
			detail.Views++
		}
	}

	return response.OK(c, detail)
}

// Categories lists categories with their published post count.
func (s *Service) Categories(c *fiber.Ctx) error {
	cats, err := s.env.Content.Categories(c.UserContext())
	if err != nil {
		return handler.Fail(c, err)
	}

	return response.OK(c, cats)
}

// Featured lists the newest featured posts.
func (s *Service) Featured(c *fiber.Ctx) error {
	posts, err := s.env.Content.Featured(c.UserContext(),
		handler.Limit(c, "limit", defaultFeatured, maxListLimit),
		auth.PrincipalFromCtx(c).Actor(),
	)
	if err != nil {
		return handler.Fail(c, err)
	}

	return response.OK(c, posts)
}

// Trending lists the most liked recent posts.
func (s *Service) Trending(c *fiber.Ctx) error {
	posts, err := s.env.Content.Trending(c.UserContext(),
		handler.Limit(c, "limit", defaultTrending, maxListLimit),
		handler.Limit(c, "days", defaultTrendDays, maxTrendingWindow),
		auth.PrincipalFromCtx(c).Actor(),
	)
	if err != nil {
		return handler.Fail(c, err)
	}

	return response.OK(c, posts)
}
