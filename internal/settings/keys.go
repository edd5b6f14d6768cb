package settings

import "strings"

// OptionPrefix is prepended to every key when stored or exported.
const OptionPrefix = "webapp_"

// Key names one option of the closed settings table.
type Key string

// Editable keys, in the order the admin form shows them.
const (
	KeyEnabled              Key = "enabled"
	KeyTheme                Key = "theme"
	KeyDarkMode             Key = "dark_mode"
	KeyInstallBanner        Key = "install_banner"
	KeyPWAEnabled           Key = "pwa_enabled"
	KeyAppName              Key = "app_name"
	KeyAppDescription       Key = "app_description"
	KeyPrimaryColor         Key = "primary_color"
	KeySecondaryColor       Key = "secondary_color"
	KeyCustomCSS            Key = "custom_css"
	KeyHeaderEnabled        Key = "header_enabled"
	KeyBottomNavEnabled     Key = "bottom_nav_enabled"
	KeySearchEnabled        Key = "search_enabled"
	KeyCategoriesEnabled    Key = "categories_enabled"
	KeyNotificationsEnabled Key = "notifications_enabled"
)

// Bookkeeping keys are written by Seed only.
const (
	KeyFirstActivation Key = "first_activation"
	KeyVersion         Key = "version"
)

// Kind is the declared value type of a key and selects its sanitizer.
type Kind int

// Value kinds.
const (
	KindText Kind = iota
	KindTextarea
	KindColor
	KindFlag
	KindCSS
)

var kinds = map[Key]Kind{ //nolint:gochecknoglobals
	KeyEnabled:              KindFlag,
	KeyTheme:                KindText,
	KeyDarkMode:             KindFlag,
	KeyInstallBanner:        KindFlag,
	KeyPWAEnabled:           KindFlag,
	KeyAppName:              KindText,
	KeyAppDescription:       KindTextarea,
	KeyPrimaryColor:         KindColor,
	KeySecondaryColor:       KindColor,
	KeyCustomCSS:            KindCSS,
	KeyHeaderEnabled:        KindFlag,
	KeyBottomNavEnabled:     KindFlag,
	KeySearchEnabled:        KindFlag,
	KeyCategoriesEnabled:    KindFlag,
	KeyNotificationsEnabled: KindFlag,
	KeyFirstActivation:      KindText,
	KeyVersion:              KindText,
}

var editable = []Key{ //nolint:gochecknoglobals
	KeyEnabled,
	KeyTheme,
	KeyDarkMode,
	KeyInstallBanner,
	KeyPWAEnabled,
	KeyAppName,
	KeyAppDescription,
	KeyPrimaryColor,
	KeySecondaryColor,
	KeyCustomCSS,
	KeyHeaderEnabled,
	KeyBottomNavEnabled,
	KeySearchEnabled,
	KeyCategoriesEnabled,
	KeyNotificationsEnabled,
}

// Keys returns the editable keys in form order.
func Keys() []Key {
	return append([]Key(nil), editable...)
}

// Kind returns the declared kind of the key.
func (k Key) Kind() Kind {
	return kinds[k]
}

// Editable reports whether the key may be changed through save, reset or import.
func (k Key) Editable() bool {
	_, ok := kinds[k]

	return ok && k != KeyFirstActivation && k != KeyVersion
}

// OptionName is the name under which the key is persisted and exported.
func (k Key) OptionName() string {
	return OptionPrefix + string(k)
}

// ParseKey accepts a bare key ("theme") or an option name ("webapp_theme").
func ParseKey(name string) (Key, bool) {
	k := Key(strings.TrimPrefix(name, OptionPrefix))
	if _, ok := kinds[k]; !ok {
		return "", false
	}

	return k, true
}
