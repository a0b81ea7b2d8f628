package sources

import (
	"net/url"
	"strings"
)

// Source identifies an upstream content provider known to the remote API.
type Source struct {
	ID    string
	Label string
	// Proxied sources serve images that must be relayed through /proxy-image
	// because they reject requests carrying a foreign referrer.
	Proxied bool
}

const DefaultID = "up-manga"

var all = []Source{
	{ID: "up-manga", Label: "Up-Manga"},
	{ID: "reapertrans", Label: "ReaperTrans", Proxied: true},
	{ID: "slow-manga", Label: "Slow-Manga", Proxied: true},
}

// All returns the known sources in tab order.
func All() []Source {
	out := make([]Source, len(all))
	copy(out, all)
	return out
}

func Lookup(id string) (Source, bool) {
	for _, s := range all {
		if s.ID == id {
			return s, true
		}
	}
	return Source{}, false
}

// OrDefault returns id, or DefaultID when id is blank.
func OrDefault(id string) string {
	if strings.TrimSpace(id) == "" {
		return DefaultID
	}
	return id
}

// Index returns the tab position of id, or 0 when unknown.
func Index(id string) int {
	for i, s := range all {
		if s.ID == id {
			return i
		}
	}
	return 0
}

// ImageURL returns the URL a client should fetch for rawURL. Images of proxied
// sources are routed through the API's /proxy-image endpoint.
func ImageURL(apiBase, rawURL, source string) string {
	if rawURL == "" {
		return ""
	}
	s, ok := Lookup(source)
	if !ok || !s.Proxied {
		return rawURL
	}
	params := url.Values{}
	params.Set("url", rawURL)
	params.Set("source", source)
	return strings.TrimRight(apiBase, "/") + "/proxy-image?" + params.Encode()
}
