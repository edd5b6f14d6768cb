package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath prefixes every JSON endpoint.
	APIPath = "/api"

	// AdminPath prefixes the administration pages.
	AdminPath = "/admin"

	// LocalsCSRFToken is where the CSRF middleware leaves the current token.
	LocalsCSRFToken = "csrf"

	// CSRFFormField carries the token in classic form posts.
	CSRFFormField = "_csrf"

	// ErrNilACDFatalLogMsg is used if app or env pointer is nil.
	ErrNilACDFatalLogMsg = "app or env is nil"
)
