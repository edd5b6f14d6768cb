package settings

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/GoWebAPP/GoWebAPP/internal/markup"
)

// hexColorTag accepts #rgb and #rrggbb but not the alpha forms.
const hexColorTag = "hexcolor,len=4|len=7"

var validate = validator.New() //nolint:gochecknoglobals

// Sanitize normalizes a raw value for the given kind. It never fails:
// values that can not be repaired become the kind's empty value.
func Sanitize(kind Kind, raw string) string {
	switch kind {
	case KindColor:
		return SanitizeHexColor(raw)
	case KindFlag:
		if ParseFlag(raw) {
			return "1"
		}

		return "0"
	case KindTextarea:
		return SanitizeTextarea(raw)
	case KindCSS:
		return markup.StripTags(raw)
	default:
		return SanitizeText(raw)
	}
}

// SanitizeHexColor returns the color if it is #rgb or #rrggbb, else "".
func SanitizeHexColor(raw string) string {
	v := strings.TrimSpace(raw)
	if validate.Var(v, hexColorTag) != nil {
		return ""
	}

	return v
}

// ParseFlag interprets common truthy spellings.
func ParseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// SanitizeText strips markup and collapses all whitespace, including line
// breaks, to single spaces.
func SanitizeText(raw string) string {
	return strings.Join(strings.Fields(markup.StripTags(raw)), " ")
}

// SanitizeTextarea strips markup but keeps line breaks.
func SanitizeTextarea(raw string) string {
	lines := strings.Split(strings.ReplaceAll(markup.StripTags(raw), "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
