package session

import "strings"

const (
	LoginRoute = "/login"
	HomeRoute  = "/"
)

var publicPrefixes = []string{"/static/", "/favicon.ico"}

func isPublic(route string) bool {
	if route == LoginRoute {
		return true
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(route, p) {
			return true
		}
	}
	return false
}

// Gate decides whether route may be shown. When it may not, redirect names
// the route to show instead.
func Gate(route string, authenticated bool) (redirect string, allowed bool) {
	if route == LoginRoute && authenticated {
		return HomeRoute, false
	}
	if isPublic(route) || authenticated {
		return "", true
	}
	return LoginRoute, false
}
