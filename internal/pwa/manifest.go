// Package pwa generates the web app manifest, the service worker script and
// the app icons.
package pwa

import (
	"strconv"
	"strings"
)

// IconSizes are the square icon sizes listed in the manifest.
var IconSizes = []int{72, 96, 128, 144, 152, 192, 384, 512} //nolint:gochecknoglobals

// AppleTouchSizes are additionally linked from the page head.
var AppleTouchSizes = []int{152, 167, 180} //nolint:gochecknoglobals

const (
	shortNameRunes  = 12
	startURL        = "/?utm_source=webapp"
	backgroundColor = "#ffffff"
)

// Icon is one manifest icon entry.
type Icon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose,omitempty"`
}

// Manifest is the web app manifest document.
type Manifest struct {
	Name            string   `json:"name"`
	ShortName       string   `json:"short_name"`
	Description     string   `json:"description"`
	StartURL        string   `json:"start_url"`
	Display         string   `json:"display"`
	ThemeColor      string   `json:"theme_color"`
	BackgroundColor string   `json:"background_color"`
	Orientation     string   `json:"orientation"`
	Scope           string   `json:"scope"`
	Icons           []Icon   `json:"icons"`
	Categories      []string `json:"categories"`
	Lang            string   `json:"lang"`
	Dir             string   `json:"dir"`
}

// ManifestInput is everything the manifest depends on.
type ManifestInput struct {
	AppName     string
	Description string
	ThemeColor  string
	Lang        string
	Dir         string
}

// IconPath is where the icon of the given size is served.
func IconPath(size int) string {
	return "/icons/icon-" + strconv.Itoa(size) + ".png"
}

// GenerateManifest builds the manifest from in. It is a pure function.
func GenerateManifest(in ManifestInput) Manifest {
	icons := make([]Icon, 0, len(IconSizes))
	for _, size := range IconSizes {
		s := strconv.Itoa(size)
		icons = append(icons, Icon{
			Src:     IconPath(size),
			Sizes:   s + "x" + s,
			Type:    "image/png",
			Purpose: "any maskable",
		})
	}

	dir := strings.ToLower(in.Dir)
	if dir != "rtl" {
		dir = "ltr"
	}

	themeColor := in.ThemeColor
	if themeColor == "" {
		themeColor = "#6366f1"
	}

	return Manifest{
		Name:            in.AppName,
		ShortName:       ShortName(in.AppName),
		Description:     in.Description,
		StartURL:        startURL,
		Display:         "standalone",
		ThemeColor:      themeColor,
		BackgroundColor: backgroundColor,
		Orientation:     "portrait-primary",
		Scope:           "/",
		Icons:           icons,
		Categories:      []string{"news", "entertainment", "magazines"},
		Lang:            in.Lang,
		Dir:             dir,
	}
}

// ShortName truncates name for the home screen label.
func ShortName(name string) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) <= shortNameRunes {
		return string(r)
	}

	return strings.TrimSpace(string(r[:shortNameRunes]))
}
