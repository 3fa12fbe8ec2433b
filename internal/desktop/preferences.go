package desktop

import (
	"errors"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/konnyaku-app/konnyaku/internal/domain"
	"github.com/konnyaku-app/konnyaku/internal/repository"
)

// Preferences are the shell settings the UI toggles and the shell re-applies at launch.
type Preferences struct {
	ShowDockIcon    bool `json:"showDockIcon"`
	ShowStatusIcon  bool `json:"showStatusIcon"`
	CloseOnExit     bool `json:"closeOnExit"`
	DevtoolsEnabled bool `json:"devtoolsEnabled"`
}

// DefaultPreferences matches a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		ShowDockIcon:   true,
		ShowStatusIcon: true,
		CloseOnExit:    true,
	}
}

// LoadPreferences reads stored values over defaults. Missing or unparsable values keep
// the default; a nil repository yields the defaults.
func LoadPreferences(repo repository.SettingRepository, defaults Preferences, log zerolog.Logger) Preferences {
	p := defaults
	if repo == nil {
		return p
	}
	for _, f := range p.fields() {
		raw, err := repo.Get(f.key)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				log.Warn().Err(err).Str("key", f.key).Msg("failed to read preference, using default")
			}
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			log.Warn().Str("key", f.key).Str("value", raw).Msg("ignoring malformed preference")
			continue
		}
		*f.ptr = v
	}
	return p
}

type preferenceField struct {
	key string
	ptr *bool
}

func (p *Preferences) fields() []preferenceField {
	return []preferenceField{
		{domain.SettingShowDockIcon, &p.ShowDockIcon},
		{domain.SettingShowStatusIcon, &p.ShowStatusIcon},
		{domain.SettingCloseOnExit, &p.CloseOnExit},
		{domain.SettingDevtoolsEnabled, &p.DevtoolsEnabled},
	}
}

// set updates the field stored under key.
func (p *Preferences) set(key string, v bool) {
	for _, f := range p.fields() {
		if f.key == key {
			*f.ptr = v
			return
		}
	}
}

// PreferenceKeys lists the stored keys of every shell preference.
func PreferenceKeys() []string {
	var p Preferences
	fields := p.fields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}
