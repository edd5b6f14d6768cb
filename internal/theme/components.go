package theme

// Declaration is one CSS property of a component rule.
type Declaration struct {
	Property string
	Value    string
}

// Rule styles one component of the shell under a theme. Selector is
// relative to the theme root class; an empty selector styles the root.
type Rule struct {
	Selector     string
	Declarations []Declaration
}

var components = map[string][]Rule{ //nolint:gochecknoglobals
	"modern": {
		{Selector: ".webapp-post-card", Declarations: []Declaration{
			{"background", "linear-gradient(145deg, var(--webapp-bg) 0%, var(--webapp-bg-secondary) 100%)"},
			{"border", "1px solid rgba(99, 102, 241, 0.1)"},
			{"transition", "all 0.3s cubic-bezier(0.4, 0, 0.2, 1)"},
		}},
		{Selector: ".webapp-post-card:hover", Declarations: []Declaration{
			{"transform", "translateY(-4px)"},
			{"box-shadow", "0 20px 25px -5px rgba(0, 0, 0, 0.1), 0 10px 10px -5px rgba(0, 0, 0, 0.04)"},
		}},
		{Selector: ".webapp-button", Declarations: []Declaration{
			{"background", "linear-gradient(135deg, var(--webapp-primary) 0%, var(--webapp-secondary) 100%)"},
			{"border-radius", "25px"},
			{"box-shadow", "0 4px 15px rgba(99, 102, 241, 0.3)"},
		}},
		{Selector: ".webapp-header", Declarations: []Declaration{
			{"backdrop-filter", "blur(20px)"},
			{"border-bottom", "1px solid rgba(99, 102, 241, 0.1)"},
		}},
	},
	"news": {
		{Selector: ".webapp-post-card", Declarations: []Declaration{
			{"border-left", "4px solid var(--webapp-primary)"},
			{"box-shadow", "0 2px 8px rgba(220, 38, 38, 0.1)"},
		}},
		{Selector: ".webapp-post-title", Declarations: []Declaration{
			{"font-weight", "700"},
			{"line-height", "1.2"},
		}},
		{Selector: ".webapp-post-categories .webapp-chip", Declarations: []Declaration{
			{"background", "var(--webapp-primary)"},
			{"color", "#ffffff"},
			{"font-size", "11px"},
			{"text-transform", "uppercase"},
			{"letter-spacing", "0.5px"},
		}},
		{Selector: ".webapp-post-meta", Declarations: []Declaration{
			{"font-size", "12px"},
			{"font-style", "italic"},
		}},
		{Selector: ".webapp-header", Declarations: []Declaration{
			{"border-bottom", "3px solid var(--webapp-primary)"},
		}},
		{Selector: ".webapp-button", Declarations: []Declaration{
			{"border-radius", "4px"},
			{"text-transform", "uppercase"},
		}},
	},
	"magazine": {
		{Selector: ".webapp-post-card", Declarations: []Declaration{
			{"border-radius", "20px"},
			{"overflow", "hidden"},
			{"box-shadow", "0 10px 30px rgba(124, 58, 237, 0.2)"},
		}},
		{Selector: ".webapp-post-title", Declarations: []Declaration{
			{"font-weight", "700"},
		}},
		{Selector: ".webapp-header", Declarations: []Declaration{
			{"background", "linear-gradient(135deg, rgba(124, 58, 237, 0.8) 0%, rgba(219, 39, 119, 0.8) 100%)"},
			{"color", "#ffffff"},
		}},
		{Selector: ".webapp-button", Declarations: []Declaration{
			{"background", "linear-gradient(135deg, var(--webapp-primary) 0%, var(--webapp-secondary) 100%)"},
			{"border-radius", "20px"},
		}},
	},
	"minimal": {
		{Selector: ".webapp-post-card", Declarations: []Declaration{
			{"border", "1px solid var(--webapp-border)"},
			{"box-shadow", "none"},
			{"transition", "border-color 0.2s ease"},
		}},
		{Selector: ".webapp-post-card:hover", Declarations: []Declaration{
			{"border-color", "var(--webapp-primary)"},
		}},
		{Selector: ".webapp-button", Declarations: []Declaration{
			{"border-radius", "6px"},
			{"font-weight", "500"},
			{"transition", "all 0.2s ease"},
		}},
		{Selector: ".webapp-header", Declarations: []Declaration{
			{"border-bottom", "1px solid var(--webapp-border)"},
		}},
		{Selector: ".webapp-post-title", Declarations: []Declaration{
			{"font-weight", "500"},
		}},
	},
	"dark": {
		{Declarations: []Declaration{
			{"background", "#0f0f0f"},
			{"color", "#ffffff"},
		}},
		{Selector: ".webapp-post-card", Declarations: []Declaration{
			{"background", "linear-gradient(145deg, #1a1a1a 0%, #2d2d2d 100%)"},
			{"border", "1px solid rgba(245, 158, 11, 0.2)"},
			{"box-shadow", "0 8px 32px rgba(0, 0, 0, 0.4)"},
		}},
		{Selector: ".webapp-post-card:hover", Declarations: []Declaration{
			{"border-color", "rgba(245, 158, 11, 0.4)"},
			{"box-shadow", "0 20px 40px rgba(245, 158, 11, 0.1)"},
		}},
		{Selector: ".webapp-header", Declarations: []Declaration{
			{"background", "rgba(15, 15, 15, 0.9)"},
			{"backdrop-filter", "blur(20px)"},
			{"border-bottom", "1px solid rgba(245, 158, 11, 0.2)"},
		}},
		{Selector: ".webapp-button", Declarations: []Declaration{
			{"background", "linear-gradient(135deg, var(--webapp-primary) 0%, var(--webapp-secondary) 100%)"},
			{"box-shadow", "0 4px 20px rgba(245, 158, 11, 0.3)"},
		}},
		{Selector: ".webapp-post-meta", Declarations: []Declaration{
			{"color", "#a1a1aa"},
		}},
	},
}

// RootClass is the class the shell root carries for theme id.
func RootClass(id string) string {
	return "webapp-theme-" + id
}

// Components returns the component rules of the theme, or of the default
// theme when id is not in the catalog.
func Components(id string) []Rule {
	return append([]Rule(nil), components[Resolve(id).ID]...)
}

// FullSelector scopes r to the root class of theme id.
func (r Rule) FullSelector(id string) string {
	if r.Selector == "" {
		return "." + RootClass(id)
	}

	return "." + RootClass(id) + " " + r.Selector
}
