package settings

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ExportFilename returns the download name for an export taken at now.
func ExportFilename(now time.Time) string {
	return "webapp-settings-" + now.Format("2006-01-02") + ".json"
}

// Export returns every editable key under its prefixed option name.
func (s *Store) Export() (map[string]string, error) {
	raw, err := s.Raw()
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(raw))
	for key, value := range raw {
		out[key.OptionName()] = value
	}

	return out, nil
}

// Import applies an exported document. Only prefixed names of editable keys
// are applied; anything else is ignored. A payload that is not a JSON object
// is rejected.
func (s *Store) Import(caller Caller, payload []byte) (int, error) {
	if err := authorize(caller); err != nil {
		return 0, err
	}

	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil || doc == nil {
		return 0, errors.Wrap(ErrInvalidInput, "invalid settings file")
	}

	values := map[string]string{}

	for name, v := range doc {
		if !strings.HasPrefix(name, OptionPrefix) {
			continue
		}

		key, ok := ParseKey(name)
		if !ok || !key.Editable() {
			log.Debug().Str("name", name).Msg("import: skipping unknown setting")

			continue
		}

		raw := stringify(v)
		clean := Sanitize(key.Kind(), raw)

		if key.Kind() == KindColor && clean == "" && raw != "" {
			log.Debug().Str("name", name).Str("value", raw).Msg("import: clearing invalid color")
		}

		values[key.OptionName()] = clean
	}

	if err := s.backend.SaveAll(values); err != nil {
		return 0, err
	}

	log.Info().Int("keys", len(values)).Msg("settings imported")

	return len(values), nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "1"
		}

		return "0"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, _ := json.Marshal(t)

		return string(b)
	}
}
