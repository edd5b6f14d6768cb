// Package pwa serves the web app manifest, the service worker, the offline
// page and the app icons.
package pwa

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	domain "github.com/GoWebAPP/GoWebAPP/internal/pwa"
	"github.com/GoWebAPP/GoWebAPP/internal/settings"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
)

const (
	// ManifestPath serves the manifest.
	ManifestPath = "/manifest.json"

	// WorkerPath serves the service worker. It lives at the root so its
	// scope covers the whole site.
	WorkerPath = "/sw.js"

	// IconPattern serves icons of every supported size.
	IconPattern = "/icons/icon-:size.png"

	// OfflineTemplate renders the offline fallback page.
	OfflineTemplate = "offline"

	mimeManifest   = "application/manifest+json"
	mimeJavaScript = "application/javascript; charset=utf-8"
)

// Service is the PWA handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Handler is the PWA handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the PWA handler.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if app == nil || !env.Valid() || env.Icons == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.env = env

	app.Get(ManifestPath, s.enabled, s.Manifest)
	app.Get(WorkerPath, s.enabled, s.ServiceWorker)
	app.Get(IconPattern, s.enabled, s.Icon)
	app.Get(env.Cfg.PWA.OfflinePath, s.Offline)

	return nil
}

// enabled answers 404 while the PWA features are switched off.
func (s *Service) enabled(c *fiber.Ctx) error {
	on, err := s.env.Settings.Bool(settings.KeyPWAEnabled)
	if err != nil {
		return handler.Fail(c, err)
	}

	if !on {
		return fiber.ErrNotFound
	}

	return c.Next()
}

// Manifest renders the manifest from the current settings.
func (s *Service) Manifest(c *fiber.Ctx) error {
	v, err := s.env.Settings.Values()
	if err != nil {
		return handler.Fail(c, err)
	}

	out, err := json.Marshal(domain.GenerateManifest(domain.ManifestInput{
		AppName:     handler.AppName(v, s.env.Cfg),
		Description: v.AppDescription,
		ThemeColor:  handler.ThemeColor(v),
		Lang:        s.env.Cfg.Site.Language,
		Dir:         s.env.Cfg.Site.Direction,
	}))
	if err != nil {
		return handler.Fail(c, err)
	}

	c.Set(fiber.HeaderContentType, mimeManifest)

	return c.Send(out)
}

// ServiceWorker renders the worker script for the running version.
func (s *Service) ServiceWorker(c *fiber.Ctx) error {
	v, err := s.env.Settings.Values()
	if err != nil {
		return handler.Fail(c, err)
	}

	script, err := domain.GenerateServiceWorker(domain.WorkerInput{
		CacheVersion: s.env.Cfg.Site.Version,
		PrecacheURLs: s.env.Cfg.PWA.PrecacheURLs,
		OfflinePath:  s.env.Cfg.PWA.OfflinePath,
		AppName:      handler.AppName(v, s.env.Cfg),
	})
	if err != nil {
		return handler.Fail(c, err)
	}

	c.Set(fiber.HeaderContentType, mimeJavaScript)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("Service-Worker-Allowed", handler.RootPath)

	return c.Send(script)
}

// Icon serves one icon size as PNG.
func (s *Service) Icon(c *fiber.Ctx) error {
	size, err := c.ParamsInt("size")
	if err != nil || !domain.SupportedSize(size) {
		return fiber.ErrNotFound
	}

	v, err := s.env.Settings.Values()
	if err != nil {
		return handler.Fail(c, err)
	}

	png, err := s.env.Icons.PNG(size, handler.ThemeColor(v), handler.AppName(v, s.env.Cfg))
	if err != nil {
		return handler.Fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")

	return c.Send(png)
}

// Offline renders the fallback page the worker shows without network.
func (s *Service) Offline(c *fiber.Ctx) error {
	v, err := s.env.Settings.Values()
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.Render(OfflineTemplate, fiber.Map{
		"AppName":    handler.AppName(v, s.env.Cfg),
		"ThemeColor": handler.ThemeColor(v),
		"Lang":       s.env.Cfg.Site.Language,
	})
}
