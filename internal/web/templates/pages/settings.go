package pages

import (
	"net/url"

	"github.com/hankerbiao/Registration-System/internal/console/validate"
	"github.com/hankerbiao/Registration-System/internal/web/templates/layout"
)

// Settings tabs
const (
	TabProfile    = "profile"
	TabPassword   = "password"
	TabAppearance = "appearance"
	TabDanger     = "danger"
)

// SettingsData is the user settings page
type SettingsData struct {
	layout.PageData
	Tab string

	Profile       validate.ProfileForm
	Editing       bool
	ProfileErrors validate.Errors
	// Dirty enables the profile save control
	Dirty bool

	PasswordErrors validate.Errors

	ConfirmDelete bool
	Submitting    bool
}

var settingsTabs = []struct{ id, label string }{
	{TabProfile, "我的资料"},
	{TabPassword, "修改密码"},
	{TabAppearance, "外观"},
	{TabDanger, "危险区域"},
}

var themeLabels = map[string]string{
	layout.ThemeSystem: "跟随系统",
	layout.ThemeLight:  "浅色模式",
	layout.ThemeDark:   "深色模式",
}

func tabHref(tab string) string {
	return "/settings?tab=" + tab
}

func deleteAccountHref() string {
	return "/settings?" + url.Values{"tab": {TabDanger}, "dialog": {DialogDelete}}.Encode()
}
