// Package auth provides authentication and authorization for the app shell.
//
// Accounts live in the local users table with Argon2id password hashes.
// Permissions are derived from two account flags:
//   - every active user may keep bookmarks
//   - active administrators may also manage settings, view analytics and
//     feature posts
//
// # Middleware
//
// Fiber middleware functions are provided for route protection:
//   - RequirePermission: Protect routes requiring a specific permission
//   - AddPermissionsToLocals: Add user permissions to template context
//   - MarkTokenVerified: Flag requests that passed the CSRF check
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	app.Post("/admin/settings",
//	    auth.RequirePermission(authService, auth.PermSettingsManage),
//	    handler,
//	)
package auth
