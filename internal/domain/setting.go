package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a key has no stored value.
var ErrNotFound = errors.New("not found")

// Shell preference keys. They match the keys the UI has always stored so existing
// installs keep their choices.
const (
	SettingShowDockIcon    = "show_dock_icon"
	SettingShowStatusIcon  = "show_status_icon"
	SettingCloseOnExit     = "close_on_exit"
	SettingDevtoolsEnabled = "devtools_enabled"
)

// Setting is one persisted key/value pair.
type Setting struct {
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
