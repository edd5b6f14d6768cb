// Package navigation builds the admin menu and breadcrumb trail of a page.
package navigation

// SectionAdmin is the section of every admin page.
const SectionAdmin = "admin"

// Admin page ids.
const (
	PageSettings  = "settings"
	PageAnalytics = "analytics"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// MenuItem is one entry of the admin menu.
type MenuItem struct {
	Title  string
	URL    string
	Active bool
}

type page struct {
	id    string
	title string
	url   string
}

// adminPages is the admin menu in display order.
var adminPages = []page{ //nolint:gochecknoglobals
	{id: PageSettings, title: "Settings", url: "/admin/settings"},
	{id: PageAnalytics, title: "Analytics", url: "/admin/analytics"},
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// Admin returns the context of the admin page with id pageID. The trail is
// Home followed by the page itself; unknown ids get only the Home crumb.
func Admin(pageTitle, pageID string) *Context {
	c := NewContext(pageTitle, SectionAdmin, pageID).AddBreadcrumb("Home", "/", false)

	for _, p := range adminPages {
		if p.id == pageID {
			c.AddBreadcrumb(p.title, p.url, true)
		}
	}

	return c
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// Menu returns the admin menu with the current page marked. Pages outside
// the admin section get no menu.
func (c *Context) Menu() []MenuItem {
	if c.ActiveSection != SectionAdmin {
		return nil
	}

	items := make([]MenuItem, 0, len(adminPages))
	for _, p := range adminPages {
		items = append(items, MenuItem{Title: p.title, URL: p.url, Active: c.IsActive(SectionAdmin, p.id)})
	}

	return items
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}
