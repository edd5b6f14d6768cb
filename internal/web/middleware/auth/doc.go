// Package auth provides the identity middleware for the web application.
//
// The middleware performs the following tasks:
//   - Resolves the session cookie to an active user and adds it to fiber.Locals
//   - Lets guests through to the public shell and API, where they act by IP
//   - Redirects guests requesting administration pages to the login page
//   - Redirects signed-in users away from the login page
//
// Usage:
//
//	app.Use(authmiddleware.New(db))
//
// Sessions are managed by the session package.
package auth
