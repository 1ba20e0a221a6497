// Package site holds per-visitor presentation settings.
package site

import "strconv"

// ThemeCookie persists the dark mode preference between visits.
const ThemeCookie = "prefers-dark"

// Settings is the presentation state passed to templates.
type Settings struct {
	Dark bool
}

// FromCookie builds settings from the stored cookie value. Anything other
// than "true" is the light theme.
func FromCookie(value string) Settings {
	return Settings{Dark: value == "true"}
}

// Toggle flips the theme.
func (s Settings) Toggle() Settings {
	s.Dark = !s.Dark
	return s
}

// CookieValue is the value stored in ThemeCookie.
func (s Settings) CookieValue() string {
	return strconv.FormatBool(s.Dark)
}

// Theme is the class applied to the root element.
func (s Settings) Theme() string {
	if s.Dark {
		return "dark"
	}
	return "light"
}
