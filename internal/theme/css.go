package theme

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

// Variable is one CSS custom property.
type Variable struct {
	Name  string
	Value string
}

// ToCSSVariables maps a definition to custom properties: colors, then
// typography, then layout. Non-empty overrides replace the built-in primary
// and secondary colors.
func ToCSSVariables(d Definition, primary, secondary string) []Variable {
	c := d.Colors
	if primary != "" {
		c.Primary = primary
	}

	if secondary != "" {
		c.Secondary = secondary
	}

	return []Variable{
		{Name: "--webapp-primary", Value: c.Primary},
		{Name: "--webapp-secondary", Value: c.Secondary},
		{Name: "--webapp-accent", Value: c.Accent},
		{Name: "--webapp-success", Value: c.Success},
		{Name: "--webapp-warning", Value: c.Warning},
		{Name: "--webapp-error", Value: c.Error},
		{Name: "--webapp-font-family", Value: d.Typography.FontFamily},
		{Name: "--webapp-heading-weight", Value: d.Typography.HeadingWeight},
		{Name: "--webapp-body-weight", Value: d.Typography.BodyWeight},
		{Name: "--webapp-border-radius", Value: d.Layout.BorderRadius},
		{Name: "--webapp-card-shadow", Value: d.Layout.CardShadow},
		{Name: "--webapp-spacing", Value: d.Layout.Spacing},
	}
}

// Palette returns the base surface and text colors for dark or light mode.
func Palette(dark bool) []Variable {
	if dark {
		return []Variable{
			{Name: "--webapp-bg", Value: "#1a1a1a"},
			{Name: "--webapp-bg-secondary", Value: "#2d2d2d"},
			{Name: "--webapp-text", Value: "#f5f6fa"},
			{Name: "--webapp-text-secondary", Value: "#c7c7c7"},
			{Name: "--webapp-border", Value: "#404040"},
		}
	}

	return []Variable{
		{Name: "--webapp-bg", Value: "#ffffff"},
		{Name: "--webapp-bg-secondary", Value: "#f8f9fa"},
		{Name: "--webapp-text", Value: "#2f3542"},
		{Name: "--webapp-text-secondary", Value: "#57606f"},
		{Name: "--webapp-border", Value: "#dfe4ea"},
	}
}

// StyleInput is everything the stylesheet depends on.
type StyleInput struct {
	ThemeID        string
	PrimaryColor   string
	SecondaryColor string
	DarkMode       bool
	CustomCSS      string
}

var stylesheet = template.Must(template.New("theme.css").Funcs(template.FuncMap{ //nolint:gochecknoglobals
	"cssValue": cssValue,
}).Parse(`:root {
{{- range .Variables}}
  {{.Name}}: {{cssValue .Value}};
{{- end}}
}
{{- range .Rules}}

{{.FullSelector $.ThemeID}} {
{{- range .Declarations}}
  {{.Property}}: {{cssValue .Value}};
{{- end}}
}
{{- end}}
{{- if .CustomCSS}}

{{.CustomCSS}}
{{- end}}
`))

// Stylesheet renders the :root block for in, the component rules of the
// resolved theme and then the custom CSS.
func Stylesheet(in StyleInput) ([]byte, error) {
	d := Resolve(in.ThemeID)
	vars := append(ToCSSVariables(d, in.PrimaryColor, in.SecondaryColor), Palette(in.DarkMode)...)

	var buf bytes.Buffer

	err := stylesheet.Execute(&buf, struct {
		ThemeID   string
		Variables []Variable
		Rules     []Rule
		CustomCSS string
	}{ThemeID: d.ID, Variables: vars, Rules: Components(d.ID), CustomCSS: sanitizeCSS(in.CustomCSS)})
	if err != nil {
		return nil, errors.Wrap(err, "render theme stylesheet")
	}

	return buf.Bytes(), nil
}

// cssValue keeps a value from closing the declaration or the rule.
func cssValue(v string) string {
	return strings.NewReplacer(";", "", "{", "", "}", "", "<", "", "\n", " ").Replace(v)
}

// sanitizeCSS keeps custom CSS from terminating an enclosing style element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(strings.TrimSpace(css), "</", `<\/`)
}

// AdjustBrightness scales every channel of a #rrggbb or #rgb color by
// percent of itself, truncated and clamped to 0..255. Invalid input is
// returned as is.
func AdjustBrightness(hex string, percent int) string {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = strings.Repeat(h[0:1], 2) + strings.Repeat(h[1:2], 2) + strings.Repeat(h[2:3], 2)
	}

	if len(h) != 6 {
		return hex
	}

	out := "#"

	for i := 0; i < 6; i += 2 {
		v, err := strconv.ParseUint(h[i:i+2], 16, 8)
		if err != nil {
			return hex
		}

		f := float64(v) * (1 + float64(percent)/100)
		c := min(max(int(f), 0), 255)
		out += fmt.Sprintf("%02x", c)
	}

	return out
}
