// Package main provides the entry point of WebAPP, a mobile app shell for
// content sites. It serves the post feed with search, categories, likes and
// bookmarks, generates the web app manifest, service worker and theme
// stylesheet, and offers an admin area for settings and engagement
// analytics. The application uses Fiber for HTTP, gorm for persistence and
// a cron driven sweep to keep analytics storage bounded.
package main
