package auth

// Permission constants define what a signed-in user may do.
const (
	// PermSettingsManage allows saving, resetting, importing and exporting settings.
	PermSettingsManage = "settings.manage"
	// PermAnalyticsView allows reading the analytics summary.
	PermAnalyticsView = "analytics.view"
	// PermContentFeature allows marking posts as featured.
	PermContentFeature = "content.feature"
	// PermEngagementBookmark allows keeping a bookmark list.
	PermEngagementBookmark = "engagement.bookmark"
)

// adminPermissions are granted to active administrators only.
var adminPermissions = map[string]bool{ //nolint:gochecknoglobals
	PermSettingsManage: true,
	PermAnalyticsView:  true,
	PermContentFeature: true,
}

// AllPermissions lists every permission in display order.
func AllPermissions() []string {
	return []string{PermSettingsManage, PermAnalyticsView, PermContentFeature, PermEngagementBookmark}
}
