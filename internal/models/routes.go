package models

import "net/url"

// Route is a client-side navigation target.
type Route string

const (
	IntakeRoute    Route = "/"
	SlideshowRoute Route = "/slideshow"
	storyPrefix          = "/story/"
)

// StoryRoute returns the detail route addressed by a story identifier.
func StoryRoute(id string) Route {
	return Route(storyPrefix + url.PathEscape(id))
}

// StoryID extracts the identifier from a story route.
func (r Route) StoryID() (string, bool) {
	s := string(r)
	if len(s) <= len(storyPrefix) || s[:len(storyPrefix)] != storyPrefix {
		return "", false
	}
	id, err := url.PathUnescape(s[len(storyPrefix):])
	if err != nil {
		return "", false
	}
	return id, true
}

func (r Route) String() string { return string(r) }
