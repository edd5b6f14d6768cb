package login

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoWebAPP/GoWebAPP/internal/auth"
	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
	"github.com/GoWebAPP/GoWebAPP/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the name of the login template.
	TemplateName = "login"

	// SuccessPath is where a successful login lands.
	SuccessPath = handler.AdminPath + "/settings"
)

// Form is the submitted login form.
type Form struct {
	Username string `form:"username" validate:"required,max=100"`
	Password string `form:"password" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	env       *handler.Env
	localAuth *auth.LocalProvider
	validate  *validator.Validate
}

// Handler is the login handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if app == nil || !env.Valid() {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.env = env
	s.localAuth = auth.NewLocalProvider(env.DB)
	s.validate = validator.New()

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

func (s *Service) render(c *fiber.Ctx, errMsg string) error {
	data := fiber.Map{
		"Title":     s.env.Cfg.Title,
		"CSRFToken": handler.CSRFToken(c),
	}

	if errMsg != "" {
		data["error"] = errMsg
	}

	return c.Render(TemplateName, data, handler.BaseLayout)
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, "")
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := c.BodyParser(form); err != nil {
		return s.render(c, ErrInvalidFormData.Error())
	}

	if err := s.validate.Struct(form); err != nil {
		return s.render(c, ErrInvalidFormData.Error())
	}

	user, err := s.authenticate(form.Username, form.Password)
	if err != nil {
		return s.render(c, err.Error())
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		return s.render(c, ErrInternalServerError.Error())
	}

	userSession := &session.Data{UserID: user.ID}

	if err = userSession.Write(sessionID, s.env.Cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return s.render(c, ErrInternalServerError.Error())
	}

	// set login cookie
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.env.Cfg.Webserver.Session.ExpiryTime.Seconds()),
		Domain:   s.env.Cfg.Webserver.Domain,
		Secure:   !s.env.Cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	log.Info().Str("username", user.Username).Msg("user logged in")

	return c.Redirect(SuccessPath)
}

// authenticate maps provider errors to messages safe to show on the form.
func (s *Service) authenticate(username, password string) (*models.User, error) {
	user, err := s.localAuth.Authenticate(username, password)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		return nil, ErrInvalidCredentials
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return nil, ErrAccountDisabled
	default:
		log.Error().Err(err).Str("username", username).Msg("login failed")

		return nil, ErrInternalServerError
	}
}
