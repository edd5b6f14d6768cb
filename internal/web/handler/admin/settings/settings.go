// Package settings serves the administration page of the app: the settings
// form, reset, export and import, and the app icon upload.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoWebAPP/GoWebAPP/internal/auth"
	domainpwa "github.com/GoWebAPP/GoWebAPP/internal/pwa"
	domain "github.com/GoWebAPP/GoWebAPP/internal/settings"
	"github.com/GoWebAPP/GoWebAPP/internal/theme"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
	"github.com/GoWebAPP/GoWebAPP/internal/web/navigation"
	"github.com/GoWebAPP/GoWebAPP/internal/web/response"
)

const (
	// Path is the path to the settings page.
	Path = handler.AdminPath + "/settings"

	// TemplateName is the name of the settings template.
	TemplateName = "admin/settings"

	// ImportField is the multipart field of an uploaded export.
	ImportField = "import_file"

	// IconField is the multipart field of an uploaded icon.
	IconField = "icon"

	// PreviewPath serves the stylesheet of unsaved appearance settings.
	PreviewPath = Path + "/preview"

	maxImportBytes = 1 << 20
)

// Service is the settings handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Handler is the settings handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the settings handler.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if app == nil || !env.Valid() || env.Auth == nil || env.Icons == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.env = env

	// register routes with permission checks
	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequirePermission(env.Auth, auth.PermSettingsManage))
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
		router.Post("/reset", s.Reset)
		router.Get("/export", s.Export)
		router.Get("/preview", s.Preview)
		router.Post("/import", s.Import)
		router.Post("/icon", s.UploadIcon)
		router.Post("/icon/remove", s.RemoveIcon)
	})

	return nil
}

func navigationContext() *navigation.Context {
	return navigation.Admin("WebAPP Settings", navigation.PageSettings)
}

// render shows the settings page with the stored values and an optional
// outcome message.
func (s *Service) render(c *fiber.Ctx, status int, outcome fiber.Map) error {
	v, err := s.env.Settings.Values()
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load settings")
	}

	data := fiber.Map{
		"Navigation":  navigationContext(),
		"Settings":    v,
		"Themes":      theme.All(),
		"HasIcon":     s.env.Icons.HasUpload(),
		"ThemeColor":  handler.ThemeColor(v),
		"ThemeClass":  theme.RootClass(theme.Resolve(v.Theme).ID),
		"PreviewPath": PreviewPath,
		"CSRFToken":   handler.CSRFToken(c),
	}

	for k, val := range outcome {
		data[k] = val
	}

	return c.Status(status).Render(TemplateName, data, handler.BaseLayout)
}

// finish answers a mutation: an envelope for scripts, the page otherwise.
func (s *Service) finish(c *fiber.Ctx, err error, success string, data any) error {
	if response.WantsJSON(c) {
		if err != nil {
			return handler.Fail(c, err)
		}

		return response.OK(c, data)
	}

	if err != nil {
		status, message := handler.Status(err)
		if status == fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("settings request failed")
		}

		return s.render(c, status, fiber.Map{"Error": message})
	}

	return s.render(c, fiber.StatusOK, fiber.Map{"Success": success})
}

// Get handles the settings page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, nil)
}

// Post saves the settings form. The form carries every editable key;
// unchecked flags are not submitted by browsers and are stored as "0".
func (s *Service) Post(c *fiber.Ctx) error {
	batch := make(map[string]string)

	for _, key := range domain.Keys() {
		name := string(key)
		value := c.FormValue(name)

		switch {
		case value != "":
			batch[name] = value
		case key.Kind() == domain.KindFlag:
			batch[name] = "0"
		case hasFormValue(c, name):
			batch[name] = ""
		}
	}

	err := s.env.Settings.Save(auth.PrincipalFromCtx(c), batch)

	return s.finish(c, err, "Settings saved successfully!", nil)
}

// hasFormValue reports whether name was submitted, even empty.
func hasFormValue(c *fiber.Ctx, name string) bool {
	if c.Request().PostArgs().Has(name) {
		return true
	}

	form, err := c.MultipartForm()
	if err != nil {
		return false
	}

	_, ok := form.Value[name]

	return ok
}

// Reset restores the default table.
func (s *Service) Reset(c *fiber.Ctx) error {
	err := s.env.Settings.ResetAll(auth.PrincipalFromCtx(c))

	return s.finish(c, err, "Settings reset to defaults!", nil)
}

// Export downloads the settings as a JSON document.
func (s *Service) Export(c *fiber.Ctx) error {
	doc, err := s.env.Settings.Export()
	if err != nil {
		return handler.Fail(c, err)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return handler.Fail(c, err)
	}

	c.Attachment(domain.ExportFilename(s.env.Now()))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)

	return c.Send(out)
}

// Preview renders the theme stylesheet for the appearance values in the
// query string without storing them. Absent values keep the stored ones.
func (s *Service) Preview(c *fiber.Ctx) error {
	v, err := s.env.Settings.Values()
	if err != nil {
		return handler.Fail(c, err)
	}

	in := theme.StyleInput{
		ThemeID:        v.Theme,
		PrimaryColor:   v.PrimaryColor,
		SecondaryColor: v.SecondaryColor,
		DarkMode:       v.DarkMode,
		CustomCSS:      v.CustomCSS,
	}

	q := c.Queries()

	if raw, ok := q[string(domain.KeyTheme)]; ok {
		in.ThemeID = domain.Sanitize(domain.KeyTheme.Kind(), raw)
	}

	if raw, ok := q[string(domain.KeyDarkMode)]; ok {
		in.DarkMode = domain.ParseFlag(domain.Sanitize(domain.KeyDarkMode.Kind(), raw))
	}

	if raw, ok := q[string(domain.KeyPrimaryColor)]; ok {
		in.PrimaryColor = domain.Sanitize(domain.KeyPrimaryColor.Kind(), raw)
	}

	if raw, ok := q[string(domain.KeySecondaryColor)]; ok {
		in.SecondaryColor = domain.Sanitize(domain.KeySecondaryColor.Kind(), raw)
	}

	css, err := theme.Stylesheet(in)
	if err != nil {
		return handler.Fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/css; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-store")

	return c.Send(css)
}

// Import applies an uploaded export, either as multipart file or as the
// raw JSON request body.
func (s *Service) Import(c *fiber.Ctx) error {
	payload, err := uploaded(c, ImportField, maxImportBytes)
	if errors.Is(err, fiber.ErrUnprocessableEntity) {
		payload, err = c.Body(), nil
	}

	if err != nil {
		return s.finish(c, err, "", nil)
	}

	n, err := s.env.Settings.Import(auth.PrincipalFromCtx(c), payload)

	return s.finish(c, err, "Settings imported successfully!", fiber.Map{"imported": n})
}

// UploadIcon stores a new source icon.
func (s *Service) UploadIcon(c *fiber.Ctx) error {
	if !auth.PrincipalFromCtx(c).VerifiedToken() {
		return s.finish(c, domain.ErrUnauthorized, "", nil)
	}

	data, err := uploaded(c, IconField, domainpwa.MaxIconBytes)
	if errors.Is(err, fiber.ErrUnprocessableEntity) {
		err = domainpwa.ErrInvalidIcon
	}

	if err == nil {
		err = s.env.Icons.Upload(data)
	}

	return s.finish(c, err, "App icon updated!", nil)
}

// RemoveIcon drops the uploaded icon.
func (s *Service) RemoveIcon(c *fiber.Ctx) error {
	if !auth.PrincipalFromCtx(c).VerifiedToken() {
		return s.finish(c, domain.ErrUnauthorized, "", nil)
	}

	return s.finish(c, s.env.Icons.Remove(), "App icon removed!", nil)
}

// uploaded reads the multipart file field. fiber.ErrUnprocessableEntity
// means no file was sent; oversized files are invalid input.
func uploaded(c *fiber.Ctx, field string, limit int64) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, fiber.ErrUnprocessableEntity
	}

	if fh.Size > limit {
		return nil, domain.ErrInvalidInput
	}

	return readFile(fh, limit)
}

func readFile(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	defer func() {
		_ = f.Close()
	}()

	var buf bytes.Buffer
	if _, err = io.Copy(&buf, io.LimitReader(f, limit)); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return buf.Bytes(), nil
}
