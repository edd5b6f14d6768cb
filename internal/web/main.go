package web

import (
	"net/http"
	"os"
	"os/signal"
	"path"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/GoWebAPP/GoWebAPP/internal/auth"
	"github.com/GoWebAPP/GoWebAPP/internal/config"
	"github.com/GoWebAPP/GoWebAPP/internal/engagement"
	fiberlogger "github.com/GoWebAPP/GoWebAPP/internal/logger/adapter/fiber"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
	adminanalytics "github.com/GoWebAPP/GoWebAPP/internal/web/handler/admin/analytics"
	adminsettings "github.com/GoWebAPP/GoWebAPP/internal/web/handler/admin/settings"
	apiengagement "github.com/GoWebAPP/GoWebAPP/internal/web/handler/api/engagement"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler/api/posts"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler/login"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler/logout"
	pwahandler "github.com/GoWebAPP/GoWebAPP/internal/web/handler/pwa"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler/shell"
	authmw "github.com/GoWebAPP/GoWebAPP/internal/web/middleware/auth"
	"github.com/GoWebAPP/GoWebAPP/internal/web/response"
	"github.com/GoWebAPP/GoWebAPP/internal/web/session"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus registry.
	MetricsPath = "/metrics"

	// CSRFCookieName holds the double submit token.
	CSRFCookieName = "csrf_"
)

// ErrNilEnv is returned by New without config or services.
var ErrNilEnv = errors.New("config and env are required")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	env          *handler.Env
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address and blocks until the
// server stops.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan error, 1)

	go func() {
		err := s.App.Listen(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("fiber listen error")
		}

		doneFiber <- err
	}()

	return <-doneFiber
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the server down
// gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown stops the server. Unless fast shutdown is set, checkalive
// reports 503 for ShutDownTime seconds first so load balancers drain.
func (s *Service) Shutdown() {
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// SetFastShutdown skips the drain period on shutdown.
func (s *Service) SetFastShutdown(fast bool) {
	s.fastShutDown = fast
}

// Alive reports whether checkalive answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates the web service: view engine, middleware stack and every
// handler of the app.
func New(cfg *config.Config, env *handler.Env) (*Service, error) {
	if cfg == nil || !env.Valid() {
		return nil, ErrNilEnv
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          newViews(cfg),
		},
	)

	service := &Service{
		App: app,
		cfg: cfg,
		env: env,
	}
	service.alive.Store(true)

	if session.Store == nil {
		session.Init(nil)
	}

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Log:   cfg.Log,
		Actor: accessActor,
	}))

	if cfg.Webserver.CleanPath {
		app.Use(cleanPath)
	}

	// health and metrics answer before sessions are touched
	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
				MaxAge:     3600,
			},
		),
	)

	// cookies are decrypted before csrf and sessions read them
	if cfg.Webserver.CookieEncryptionKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{Key: cfg.Webserver.CookieEncryptionKey}))
	}

	app.Use(csrf.New(csrfConfig(cfg)))
	app.Use(auth.MarkTokenVerified())

	// identity, then permissions for the templates
	app.Use(authmw.New(env.DB))
	app.Use(auth.AddPermissionsToLocals())

	// init handlers (they register their own routes with permission checks)
	handlers := []handler.Service{
		&login.Handler,
		&logout.Handler,
		&shell.Handler,
		&pwahandler.Handler,
		&posts.Handler,
		&apiengagement.Handler,
		&adminsettings.Handler,
		&adminanalytics.Handler,
	}

	for _, h := range handlers {
		if err := h.Init(app, env); err != nil {
			return nil, errors.Wrapf(err, "init handler %T", h)
		}
	}

	return service, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// newViews returns the html engine over the embedded templates, or over
// the working tree in dev mode.
func newViews(cfg *config.Config) *html.Engine {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("compact", engagement.FormatNumber)
	templateEngine.AddFunc("comma", humanize.Comma)

	return templateEngine
}

// csrfConfig protects every unsafe request with a double submit token.
// Scripts send it in the X-Csrf-Token header, forms in the _csrf field.
func csrfConfig(cfg *config.Config) csrf.Config {
	return csrf.Config{
		CookieName:     CSRFCookieName,
		CookieDomain:   cfg.Webserver.Domain,
		CookieSecure:   !cfg.DevMode,
		CookieSameSite: "Lax",
		Expiration:     cfg.Webserver.Session.ExpiryTime,
		ContextKey:     handler.LocalsCSRFToken,
		Storage:        session.Store.Storage,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == MetricsPath || c.Path() == CheckAlivePath
		},
		Extractor: func(c *fiber.Ctx) (string, error) {
			if token := c.Get(csrf.HeaderName); token != "" {
				return token, nil
			}

			if token := c.FormValue(handler.CSRFFormField); token != "" {
				return token, nil
			}

			return "", csrf.ErrTokenNotFound
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Warn().Err(err).Str("path", c.Path()).Str("ip", c.IP()).Msg("csrf check failed")

			if response.WantsJSON(c) {
				return response.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
			}

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: invalid or expired form, please reload the page")
		},
	}
}

// cleanPath routes "//feed/" and "/a/../feed" like "/feed".
func cleanPath(c *fiber.Ctx) error {
	if p := path.Clean(c.Path()); p != c.Path() {
		c.Path(p)
	}

	return c.Next()
}

// accessActor names the signed-in user of a request for the access log.
func accessActor(c *fiber.Ctx) string {
	if id := auth.PrincipalFromCtx(c).UserID(); id != 0 {
		return "user:" + strconv.FormatUint(id, 10)
	}

	return "guest"
}
