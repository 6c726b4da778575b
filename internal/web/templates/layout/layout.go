// Package layout renders the page frame shared by every console page.
package layout

import (
	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/console/notify"
)

// AppTitle is shown in the browser title and on the sign-in pages
const AppTitle = "天津市大学生空手道比赛报名"

// Navigation sections
const (
	NavAthletes = "athletes"
	NavAdmin    = "admin"
	NavSettings = "settings"
)

// Colour themes; ThemeSystem follows the browser preference
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// Themes lists the selectable colour themes in display order
var Themes = []string{ThemeSystem, ThemeLight, ThemeDark}

// ValidTheme reports whether name is a known theme
func ValidTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}

// PageData is common to every page
type PageData struct {
	Title  string
	User   *client.User
	Toasts []notify.Toast
	Nav    string
	Theme  string
}

// DocumentTitle is the text of the title element
func (d PageData) DocumentTitle() string {
	if d.Title == "" {
		return AppTitle
	}
	return d.Title + " | " + AppTitle
}

// ThemeName is the theme the page is drawn with
func (d PageData) ThemeName() string {
	if !ValidTheme(d.Theme) {
		return ThemeSystem
	}
	return d.Theme
}
