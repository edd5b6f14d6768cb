package handler

import (
	"github.com/GoWebAPP/GoWebAPP/internal/config"
	"github.com/GoWebAPP/GoWebAPP/internal/settings"
	"github.com/GoWebAPP/GoWebAPP/internal/theme"
)

// ThemeColor is the stored primary color, or the theme's own primary.
func ThemeColor(v settings.Values) string {
	if v.PrimaryColor != "" {
		return v.PrimaryColor
	}

	return theme.Resolve(v.Theme).Colors.Primary
}

// AppName is the configured app name, or the site name.
func AppName(v settings.Values, cfg *config.Config) string {
	if v.AppName != "" {
		return v.AppName
	}

	return cfg.Site.Name
}
