package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoWebAPP/GoWebAPP/internal/db/dbtest"
)

type caller struct {
	token bool
	admin bool
}

func (c caller) VerifiedToken() bool { return c.token }
func (c caller) CanAdminister() bool { return c.admin }

var admin = caller{token: true, admin: true} //nolint:gochecknoglobals

func newStore(t *testing.T) *Store {
	t.Helper()

	return NewStore(NewGormBackend(dbtest.Open(t)), Site{Name: "Example Site"})
}

func TestDefaults(t *testing.T) {
	d := Defaults(Site{Name: "Blog"})
	assert.Equal(t, "Blog", d[KeyAppName])
	assert.Equal(t, DefaultDescription, d[KeyAppDescription])
	assert.Equal(t, "modern", d[KeyTheme])
	assert.Equal(t, "0", d[KeyEnabled])
	assert.Equal(t, "1", d[KeyPWAEnabled])

	d = Defaults(Site{Name: "Blog", Description: "Just a blog"})
	assert.Equal(t, "Just a blog", d[KeyAppDescription])
}

func TestParseKey(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  Key
		ok    bool
	}{
		{name: "bare", input: "theme", want: KeyTheme, ok: true},
		{name: "prefixed", input: "webapp_dark_mode", want: KeyDarkMode, ok: true},
		{name: "unknown", input: "webapp_bogus", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseKey(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSanitize(t *testing.T) {
	testCases := []struct {
		name string
		kind Kind
		raw  string
		want string
	}{
		{name: "color long", kind: KindColor, raw: "#ff0000", want: "#ff0000"},
		{name: "color short", kind: KindColor, raw: "#abc", want: "#abc"},
		{name: "color invalid", kind: KindColor, raw: "red", want: ""},
		{name: "color four digits", kind: KindColor, raw: "#abcd", want: ""},
		{name: "color eight digits", kind: KindColor, raw: "#aabbccdd", want: ""},
		{name: "color trimmed", kind: KindColor, raw: " #A1b2C3 ", want: "#A1b2C3"},
		{name: "color without hash", kind: KindColor, raw: "abcdef", want: ""},
		{name: "color bad digit", kind: KindColor, raw: "#abg", want: ""},
		{name: "color empty", kind: KindColor, raw: "", want: ""},
		{name: "flag on", kind: KindFlag, raw: "1", want: "1"},
		{name: "flag empty", kind: KindFlag, raw: "", want: "0"},
		{name: "flag true", kind: KindFlag, raw: "true", want: "1"},
		{name: "text strips tags", kind: KindText, raw: "<b>My</b>  App", want: "My App"},
		{name: "text drops script", kind: KindText, raw: "App<script>alert(1)</script>", want: "App"},
		{name: "text collapses newlines", kind: KindText, raw: "a\nb", want: "a b"},
		{name: "textarea keeps newlines", kind: KindTextarea, raw: "line  one\nline <i>two</i>", want: "line one\nline two"},
		{name: "css strips style tag", kind: KindCSS, raw: "body{color:red}<style>x</style>", want: "body{color:red}"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.kind, tc.raw))
		})
	}
}

func TestGetFallsBackToDefault(t *testing.T) {
	s := newStore(t)

	v, err := s.Get(KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "modern", v)

	v, err = s.GetOr(KeyAppName, "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)

	require.NoError(t, s.Set(KeyTheme, "news"))

	v, err = s.Get(KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "news", v)
}

func TestSave(t *testing.T) {
	batch := map[string]string{
		"theme":         "news",
		"dark_mode":     "1",
		"primary_color": "#000000",
		"app_name":      "Changed",
		"custom_css":    "body{margin:0}",
	}

	with := func(extra map[string]string) map[string]string {
		out := map[string]string{}
		for k, v := range batch {
			out[k] = v
		}

		for k, v := range extra {
			out[k] = v
		}

		return out
	}

	testCases := []struct {
		name    string
		caller  Caller
		batch   map[string]string
		wantErr error
	}{
		{name: "no caller", caller: nil, batch: batch, wantErr: ErrUnauthorized},
		{name: "stale token", caller: caller{admin: true}, batch: batch, wantErr: ErrUnauthorized},
		{name: "not admin", caller: caller{token: true}, batch: batch, wantErr: ErrForbidden},
		{
			name:    "unknown key rejects batch",
			caller:  admin,
			batch:   with(map[string]string{"bogus": "1"}),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown prefixed key rejects batch",
			caller:  admin,
			batch:   with(map[string]string{"webapp_bogus": "1"}),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bookkeeping key rejected",
			caller:  admin,
			batch:   with(map[string]string{"version": "9"}),
			wantErr: ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			require.NoError(t, s.Seed(context.Background(), time.Now(), "1.0.0"))
			require.NoError(t, s.Set(KeySecondaryColor, "#123456"))

			before, err := s.Raw()
			require.NoError(t, err)

			err = s.Save(tc.caller, tc.batch)
			require.ErrorIs(t, err, tc.wantErr)

			// rejected saves leave every key untouched
			after, err := s.Raw()
			require.NoError(t, err)
			assert.Equal(t, before, after)

			version, err := s.Get(KeyVersion)
			require.NoError(t, err)
			assert.Equal(t, "1.0.0", version)
		})
	}
}

func TestSaveSanitizes(t *testing.T) {
	s := newStore(t)

	err := s.Save(admin, map[string]string{
		"webapp_primary_color": "#ff0000",
		"secondary_color":      "blue",
		"enabled":              "1",
		"app_name":             "<b>Shop</b>",
	})
	require.NoError(t, err)

	v, err := s.Values()
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", v.PrimaryColor)
	assert.Empty(t, v.SecondaryColor)
	assert.True(t, v.Enabled)
	assert.Equal(t, "Shop", v.AppName)
	// untouched keys keep their defaults
	assert.Equal(t, "modern", v.Theme)
	assert.True(t, v.PWAEnabled)
}

func TestResetAll(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.Save(admin, map[string]string{"theme": "dark", "dark_mode": "1"}))
	require.ErrorIs(t, s.ResetAll(caller{token: true}), ErrForbidden)

	v, err := s.Values()
	require.NoError(t, err)
	assert.Equal(t, "dark", v.Theme)

	require.NoError(t, s.ResetAll(admin))

	v, err = s.Values()
	require.NoError(t, err)
	assert.Equal(t, "modern", v.Theme)
	assert.False(t, v.DarkMode)
	assert.Equal(t, "Example Site", v.AppName)
}

func TestSeed(t *testing.T) {
	s := newStore(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, s.Set(KeyTheme, "news"))
	require.NoError(t, s.Seed(context.Background(), now, "1.0.0"))

	v, err := s.Get(KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "news", v, "seed must not overwrite stored values")

	first, err := s.Get(KeyFirstActivation)
	require.NoError(t, err)
	assert.Equal(t, "1767323045", first)

	require.NoError(t, s.Seed(context.Background(), now.Add(time.Hour), "1.1.0"))

	first, err = s.Get(KeyFirstActivation)
	require.NoError(t, err)
	assert.Equal(t, "1767323045", first)

	version, err := s.Get(KeyVersion)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", version)
}

func TestExportImport(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save(admin, map[string]string{"theme": "news", "dark_mode": "1"}))

	exported, err := s.Export()
	require.NoError(t, err)
	assert.Equal(t, "news", exported["webapp_theme"])
	assert.Equal(t, "1", exported["webapp_dark_mode"])
	assert.Len(t, exported, len(Keys()))

	assert.Equal(t, "webapp-settings-2026-03-04.json", ExportFilename(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)))

	other := newStore(t)
	n, err := other.Import(admin, []byte(`{"webapp_theme":"dark","webapp_dark_mode":true,"theme":"news","webapp_version":"9","foo":1}`))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, err := other.Values()
	require.NoError(t, err)
	assert.Equal(t, "dark", v.Theme)
	assert.True(t, v.DarkMode)
}

func TestImportRejects(t *testing.T) {
	testCases := []struct {
		name    string
		caller  Caller
		payload string
		wantErr error
	}{
		{name: "array", caller: admin, payload: `[1,2]`, wantErr: ErrInvalidInput},
		{name: "null", caller: admin, payload: `null`, wantErr: ErrInvalidInput},
		{name: "garbage", caller: admin, payload: `not json`, wantErr: ErrInvalidInput},
		{name: "forbidden", caller: caller{token: true}, payload: `{}`, wantErr: ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newStore(t).Import(tc.caller, []byte(tc.payload))
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestImportValidatesColors(t *testing.T) {
	s := newStore(t)

	n, err := s.Import(admin, []byte(`{"webapp_primary_color":"#aabbccdd","webapp_secondary_color":" #0f0 ","webapp_theme":"news"}`))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	v, err := s.Values()
	require.NoError(t, err)
	assert.Empty(t, v.PrimaryColor)
	assert.Equal(t, "#0f0", v.SecondaryColor)
	assert.Equal(t, "news", v.Theme)
}

func TestPurge(t *testing.T) {
	testCases := []struct {
		name    string
		caller  Caller
		wantErr error
		purged  bool
	}{
		{name: "stale token", caller: caller{admin: true}, wantErr: ErrUnauthorized},
		{name: "not admin", caller: caller{token: true}, wantErr: ErrForbidden},
		{name: "admin", caller: admin, purged: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			backend := NewGormBackend(dbtest.Open(t))
			s := NewStore(backend, Site{Name: "Example Site"})

			require.NoError(t, s.Seed(context.Background(), time.Now(), "1.0.0"))
			require.NoError(t, backend.SaveAll(map[string]string{"webapp_extra": "x", "other_plugin": "y"}))

			err := s.Purge(tc.caller, "webapp_extra")
			require.ErrorIs(t, err, tc.wantErr)

			names := []string{"webapp_extra", "other_plugin"}
			for key := range kinds {
				names = append(names, key.OptionName())
			}

			stored, err := backend.Load(names)
			require.NoError(t, err)

			if !tc.purged {
				assert.Len(t, stored, len(names))

				return
			}

			assert.Equal(t, map[string]string{"other_plugin": "y"}, stored)
		})
	}
}
