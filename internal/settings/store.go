// Package settings holds the plugin's closed option table: typed keys,
// per-kind sanitizing, defaults and the authorized write paths used by the
// admin screen.
package settings

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultDescription is used as app description when the site has none.
const DefaultDescription = "A modern web app experience"

// Site carries the host site facts the default table derives from.
type Site struct {
	Name        string
	Description string
}

// Caller is the identity behind a write request.
type Caller interface {
	// VerifiedToken reports whether the request carried a valid anti-forgery token.
	VerifiedToken() bool
	// CanAdminister reports whether the caller may manage settings.
	CanAdminister() bool
}

// Values is a typed snapshot of every editable key.
type Values struct {
	Enabled              bool
	Theme                string
	DarkMode             bool
	InstallBanner        bool
	PWAEnabled           bool
	AppName              string
	AppDescription       string
	PrimaryColor         string
	SecondaryColor       string
	CustomCSS            string
	HeaderEnabled        bool
	BottomNavEnabled     bool
	SearchEnabled        bool
	CategoriesEnabled    bool
	NotificationsEnabled bool
}

// Store reads and writes settings through a Backend.
type Store struct {
	backend  Backend
	defaults map[Key]string
}

// NewStore returns a store whose defaults derive from site.
func NewStore(backend Backend, site Site) *Store {
	return &Store{backend: backend, defaults: Defaults(site)}
}

// Defaults returns the fixed default table for site.
func Defaults(site Site) map[Key]string {
	description := site.Description
	if description == "" {
		description = DefaultDescription
	}

	return map[Key]string{
		KeyEnabled:              "0",
		KeyTheme:                "modern",
		KeyDarkMode:             "0",
		KeyInstallBanner:        "1",
		KeyPWAEnabled:           "1",
		KeyAppName:              site.Name,
		KeyAppDescription:       description,
		KeyPrimaryColor:         "#6366f1",
		KeySecondaryColor:       "#8b5cf6",
		KeyCustomCSS:            "",
		KeyHeaderEnabled:        "1",
		KeyBottomNavEnabled:     "1",
		KeySearchEnabled:        "1",
		KeyCategoriesEnabled:    "1",
		KeyNotificationsEnabled: "1",
	}
}

// Default returns the default value of key.
func (s *Store) Default(key Key) string {
	return s.defaults[key]
}

// Get returns the stored value of key, or its default when never written.
func (s *Store) Get(key Key) (string, error) {
	return s.GetOr(key, s.defaults[key])
}

// GetOr returns the stored value of key, or fallback when never written.
func (s *Store) GetOr(key Key, fallback string) (string, error) {
	stored, err := s.backend.Load([]string{key.OptionName()})
	if err != nil {
		return "", errors.Wrapf(err, "load %s", key)
	}

	if v, ok := stored[key.OptionName()]; ok {
		return v, nil
	}

	return fallback, nil
}

// Bool reads a flag key.
func (s *Store) Bool(key Key) (bool, error) {
	v, err := s.Get(key)
	if err != nil {
		return false, err
	}

	return ParseFlag(v), nil
}

// Set sanitizes and writes a single key without authorization. It is meant
// for trusted callers such as the command line and seeding.
func (s *Store) Set(key Key, raw string) error {
	if _, ok := kinds[key]; !ok {
		return errors.Wrapf(ErrInvalidInput, "unknown key %q", key)
	}

	return s.backend.SaveAll(map[string]string{key.OptionName(): Sanitize(key.Kind(), raw)})
}

// Save validates the caller, sanitizes the batch and writes it atomically.
// Keys may be bare or prefixed. Keys missing from the batch keep their stored
// values. Any unknown key rejects the whole batch and nothing is written.
func (s *Store) Save(caller Caller, batch map[string]string) error {
	if err := authorize(caller); err != nil {
		return err
	}

	values := make(map[string]string, len(batch))

	for name, raw := range batch {
		key, ok := ParseKey(name)
		if !ok || !key.Editable() {
			return errors.Wrapf(ErrInvalidInput, "unknown setting %q", name)
		}

		values[key.OptionName()] = Sanitize(key.Kind(), raw)
	}

	if err := s.backend.SaveAll(values); err != nil {
		return err
	}

	log.Info().Int("keys", len(values)).Msg("settings saved")

	return nil
}

// ResetAll restores the default table for every editable key.
func (s *Store) ResetAll(caller Caller) error {
	if err := authorize(caller); err != nil {
		return err
	}

	if err := s.writeDefaults(); err != nil {
		return err
	}

	log.Info().Msg("settings reset to defaults")

	return nil
}

// ResetDefaults restores the default table without authorization.
func (s *Store) ResetDefaults() error {
	return s.writeDefaults()
}

func (s *Store) writeDefaults() error {
	values := make(map[string]string, len(editable))
	for _, key := range editable {
		values[key.OptionName()] = s.defaults[key]
	}

	return s.backend.SaveAll(values)
}

// Purge deletes every stored option of the table, bookkeeping keys
// included, plus the extra option names given.
func (s *Store) Purge(caller Caller, extra ...string) error {
	if err := authorize(caller); err != nil {
		return err
	}

	names := make([]string, 0, len(kinds)+len(extra))
	for key := range kinds {
		names = append(names, key.OptionName())
	}

	if err := s.backend.DeleteAll(append(names, extra...)); err != nil {
		return errors.Wrap(err, "delete settings")
	}

	log.Info().Int("keys", len(names)+len(extra)).Msg("settings purged")

	return nil
}

// Seed writes the default of every key that was never stored, records the
// first activation time once and keeps the stored version current.
func (s *Store) Seed(_ context.Context, now time.Time, version string) error {
	names := make([]string, 0, len(kinds))
	for key := range kinds {
		names = append(names, key.OptionName())
	}

	stored, err := s.backend.Load(names)
	if err != nil {
		return errors.Wrap(err, "load settings")
	}

	missing := map[string]string{}

	for _, key := range editable {
		if _, ok := stored[key.OptionName()]; !ok {
			missing[key.OptionName()] = s.defaults[key]
		}
	}

	if _, ok := stored[KeyFirstActivation.OptionName()]; !ok {
		missing[KeyFirstActivation.OptionName()] = strconv.FormatInt(now.Unix(), 10)
	}

	if stored[KeyVersion.OptionName()] != version {
		missing[KeyVersion.OptionName()] = version
	}

	if len(missing) == 0 {
		return nil
	}

	log.Debug().Int("keys", len(missing)).Msg("seeding settings")

	return s.backend.SaveAll(missing)
}

// Raw returns the stored or default value of every editable key.
func (s *Store) Raw() (map[Key]string, error) {
	names := make([]string, 0, len(editable))
	for _, key := range editable {
		names = append(names, key.OptionName())
	}

	stored, err := s.backend.Load(names)
	if err != nil {
		return nil, errors.Wrap(err, "load settings")
	}

	out := make(map[Key]string, len(editable))

	for _, key := range editable {
		if v, ok := stored[key.OptionName()]; ok {
			out[key] = v

			continue
		}

		out[key] = s.defaults[key]
	}

	return out, nil
}

// Values returns a typed snapshot of every editable key.
func (s *Store) Values() (Values, error) {
	raw, err := s.Raw()
	if err != nil {
		return Values{}, err
	}

	return Values{
		Enabled:              ParseFlag(raw[KeyEnabled]),
		Theme:                raw[KeyTheme],
		DarkMode:             ParseFlag(raw[KeyDarkMode]),
		InstallBanner:        ParseFlag(raw[KeyInstallBanner]),
		PWAEnabled:           ParseFlag(raw[KeyPWAEnabled]),
		AppName:              raw[KeyAppName],
		AppDescription:       raw[KeyAppDescription],
		PrimaryColor:         raw[KeyPrimaryColor],
		SecondaryColor:       raw[KeySecondaryColor],
		CustomCSS:            raw[KeyCustomCSS],
		HeaderEnabled:        ParseFlag(raw[KeyHeaderEnabled]),
		BottomNavEnabled:     ParseFlag(raw[KeyBottomNavEnabled]),
		SearchEnabled:        ParseFlag(raw[KeySearchEnabled]),
		CategoriesEnabled:    ParseFlag(raw[KeyCategoriesEnabled]),
		NotificationsEnabled: ParseFlag(raw[KeyNotificationsEnabled]),
	}, nil
}

func authorize(caller Caller) error {
	if caller == nil || !caller.VerifiedToken() {
		return ErrUnauthorized
	}

	if !caller.CanAdminister() {
		return ErrForbidden
	}

	return nil
}
