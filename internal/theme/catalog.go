// Package theme holds the fixed theme catalog and turns a theme plus the
// configured color overrides into CSS custom properties.
package theme

// DefaultID is used whenever a theme id is not in the catalog.
const DefaultID = "modern"

// Colors of a theme, in emission order.
type Colors struct {
	Primary   string
	Secondary string
	Accent    string
	Success   string
	Warning   string
	Error     string
}

// Typography of a theme.
type Typography struct {
	FontFamily    string
	HeadingWeight string
	BodyWeight    string
}

// Layout of a theme.
type Layout struct {
	BorderRadius string
	CardShadow   string
	Spacing      string
}

// Definition is an immutable catalog entry.
type Definition struct {
	ID          string
	Name        string
	Description string
	Colors      Colors
	Typography  Typography
	Layout      Layout
}

var catalog = []Definition{ //nolint:gochecknoglobals
	{
		ID:          "modern",
		Name:        "Modern",
		Description: "Clean and modern design with card-based layout",
		Colors: Colors{
			Primary: "#6366f1", Secondary: "#8b5cf6", Accent: "#06b6d4",
			Success: "#10b981", Warning: "#f59e0b", Error: "#ef4444",
		},
		Typography: Typography{
			FontFamily:    `-apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif`,
			HeadingWeight: "700",
			BodyWeight:    "400",
		},
		Layout: Layout{BorderRadius: "16px", CardShadow: "0 4px 6px -1px rgba(0, 0, 0, 0.1)", Spacing: "20px"},
	},
	{
		ID:          "news",
		Name:        "News",
		Description: "Professional news layout with rich media support",
		Colors: Colors{
			Primary: "#dc2626", Secondary: "#ea580c", Accent: "#059669",
			Success: "#16a34a", Warning: "#d97706", Error: "#dc2626",
		},
		Typography: Typography{
			FontFamily:    `Georgia, "Times New Roman", serif`,
			HeadingWeight: "600",
			BodyWeight:    "400",
		},
		Layout: Layout{BorderRadius: "8px", CardShadow: "0 2px 4px rgba(0, 0, 0, 0.1)", Spacing: "16px"},
	},
	{
		ID:          "magazine",
		Name:        "Magazine",
		Description: "Magazine-style layout with featured content blocks",
		Colors: Colors{
			Primary: "#7c3aed", Secondary: "#db2777", Accent: "#0891b2",
			Success: "#059669", Warning: "#ea580c", Error: "#e11d48",
		},
		Typography: Typography{
			FontFamily:    `"Playfair Display", Georgia, serif`,
			HeadingWeight: "700",
			BodyWeight:    "400",
		},
		Layout: Layout{BorderRadius: "12px", CardShadow: "0 8px 25px rgba(0, 0, 0, 0.15)", Spacing: "24px"},
	},
	{
		ID:          "minimal",
		Name:        "Minimal",
		Description: "Clean and minimal design focusing on content",
		Colors: Colors{
			Primary: "#374151", Secondary: "#6b7280", Accent: "#10b981",
			Success: "#059669", Warning: "#d97706", Error: "#dc2626",
		},
		Typography: Typography{
			FontFamily:    `"Inter", -apple-system, BlinkMacSystemFont, sans-serif`,
			HeadingWeight: "500",
			BodyWeight:    "400",
		},
		Layout: Layout{BorderRadius: "4px", CardShadow: "0 1px 3px rgba(0, 0, 0, 0.1)", Spacing: "16px"},
	},
	{
		ID:          "dark",
		Name:        "Dark Pro",
		Description: "Premium dark theme with elegant design",
		Colors: Colors{
			Primary: "#f59e0b", Secondary: "#ef4444", Accent: "#8b5cf6",
			Success: "#10b981", Warning: "#f59e0b", Error: "#ef4444",
		},
		Typography: Typography{
			FontFamily:    `"SF Pro Display", -apple-system, BlinkMacSystemFont, sans-serif`,
			HeadingWeight: "600",
			BodyWeight:    "400",
		},
		Layout: Layout{BorderRadius: "20px", CardShadow: "0 10px 40px rgba(0, 0, 0, 0.3)", Spacing: "20px"},
	},
}

// All returns the catalog in display order.
func All() []Definition {
	return append([]Definition(nil), catalog...)
}

// Lookup returns the definition for id and whether it exists.
func Lookup(id string) (Definition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}

	return Definition{}, false
}

// Resolve returns the definition for id, or the default theme. It never fails.
func Resolve(id string) Definition {
	if d, ok := Lookup(id); ok {
		return d
	}

	d, _ := Lookup(DefaultID)

	return d
}
