// Package navigation holds the app's route table and the router that moves the user from the
// login screen into the tab stack.
package navigation

// Route is an app path.
type Route string

const (
	RouteLogin Route = "/auth/login"
	RouteTabs  Route = "/(tabs)"
)

// Tab is one entry of the authenticated tab bar.
type Tab struct {
	Name  string
	Title string
	Icon  string
}

// Path returns the tab's route. The index tab is the tab group root.
func (t Tab) Path() Route {
	if t.Name == "index" {
		return RouteTabs
	}
	return RouteTabs + "/" + Route(t.Name)
}

// Tabs lists the authenticated tabs in display order.
var Tabs = []Tab{
	{Name: "index", Title: "Today", Icon: "today-outline"},
	{Name: "discover", Title: "Discover", Icon: "compass-outline"},
	{Name: "saved", Title: "Saved", Icon: "bookmark-outline"},
	{Name: "profile", Title: "Profile", Icon: "person-outline"},
}

// TabByName returns the tab called name.
func TabByName(name string) (Tab, bool) {
	for _, t := range Tabs {
		if t.Name == name {
			return t, true
		}
	}
	return Tab{}, false
}

// TabForRoute returns the tab whose path is route.
func TabForRoute(route Route) (Tab, bool) {
	for _, t := range Tabs {
		if t.Path() == route {
			return t, true
		}
	}
	return Tab{}, false
}
