package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoWebAPP/GoWebAPP/internal/analytics"
	"github.com/GoWebAPP/GoWebAPP/internal/auth"
	"github.com/GoWebAPP/GoWebAPP/internal/config"
	"github.com/GoWebAPP/GoWebAPP/internal/content"
	"github.com/GoWebAPP/GoWebAPP/internal/engagement"
	"github.com/GoWebAPP/GoWebAPP/internal/pwa"
	"github.com/GoWebAPP/GoWebAPP/internal/settings"
)

// Env carries the services the handlers are built on.
type Env struct {
	Cfg       *config.Config
	DB        *gorm.DB
	Auth      *auth.Service
	Settings  *settings.Store
	Tracker   *engagement.Tracker
	Content   *content.Repository
	Analytics *analytics.Recorder
	Icons     *pwa.Icons
	Now       func() time.Time
}

// NewEnv wires the domain services over db.
func NewEnv(cfg *config.Config, db *gorm.DB) *Env {
	recorder := analytics.NewRecorder(db)
	tracker := engagement.NewTracker(db, recorder)

	return &Env{
		Cfg:       cfg,
		DB:        db,
		Auth:      auth.NewService(db),
		Settings:  SettingsStore(cfg, db),
		Tracker:   tracker,
		Content:   content.NewRepository(db, tracker),
		Analytics: recorder,
		Icons:     pwa.NewIcons(db),
		Now:       time.Now,
	}
}

// SettingsStore returns the gorm backed settings store for cfg.
func SettingsStore(cfg *config.Config, db *gorm.DB) *settings.Store {
	return settings.NewStore(settings.NewGormBackend(db), settings.Site{
		Name:        cfg.Site.Name,
		Description: cfg.Site.Description,
	})
}

// Valid reports whether the services every handler relies on are set.
func (e *Env) Valid() bool {
	return e != nil && e.Cfg != nil && e.DB != nil && e.Settings != nil
}

// CSRFToken returns the token the CSRF middleware left for this request.
func CSRFToken(c *fiber.Ctx) string {
	token, _ := c.Locals(LocalsCSRFToken).(string)

	return token
}
