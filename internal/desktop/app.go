package desktop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/konnyaku-app/konnyaku/internal/domain"
	"github.com/konnyaku-app/konnyaku/internal/repository"
)

// dispatchBuffer is the number of queued UI tasks before posters block.
const dispatchBuffer = 64

// ShellApp is the object bound to the webview. Its exported methods are the commands
// the UI invokes; the lifecycle hooks are wired into the Wails options.
type ShellApp struct {
	policy      *ClosePolicy
	window      WindowHost
	coordinator *WindowCoordinator
	tray        *TrayController
	trayHost    TrayHost
	dispatcher  *Dispatcher
	settings    repository.SettingRepository
	log         zerolog.Logger

	mu    sync.Mutex
	prefs Preferences
}

// Options wires a ShellApp to its hosts and stores.
type Options struct {
	Window   WindowHost
	TrayHost TrayHost
	Dock     DockController
	Caps     Capabilities
	// Settings persists preference changes; nil keeps them in memory only.
	Settings    repository.SettingRepository
	Preferences Preferences
	TrayTooltip string
	TrayImage   []byte
	Log         zerolog.Logger
}

func NewShellApp(opts Options) *ShellApp {
	a := &ShellApp{
		policy:     NewClosePolicy(),
		window:     opts.Window,
		trayHost:   opts.TrayHost,
		dispatcher: NewDispatcher(dispatchBuffer, opts.Log.With().Str("component", "dispatcher").Logger()),
		settings:   opts.Settings,
		log:        opts.Log.With().Str("component", "shell").Logger(),
		prefs:      opts.Preferences,
	}
	a.coordinator = NewWindowCoordinator(opts.Window, a.policy, opts.Dock, opts.Caps,
		opts.Log.With().Str("component", "window").Logger())
	a.tray = NewTrayController(TrayOptions{
		Host:    opts.TrayHost,
		Window:  a.coordinator,
		Caps:    opts.Caps,
		Tooltip: opts.TrayTooltip,
		Image:   opts.TrayImage,
		Post: func(fn func()) {
			if !a.dispatcher.Post(fn) {
				a.log.Debug().Msg("dropping tray event after shutdown")
			}
		},
		Log: opts.Log.With().Str("component", "tray").Logger(),
	})
	return a
}

// Startup attaches the window, starts the UI dispatcher and applies the preferences.
func (a *ShellApp) Startup(ctx context.Context) {
	if w, ok := a.window.(interface{ Attach(context.Context) }); ok {
		w.Attach(ctx)
	}
	a.dispatcher.Start()
	a.log.Info().Msg("shell started")
	a.applyPreferences()
}

// applyPreferences re-applies the stored shell settings. Each step stands alone: a
// failure is logged and the rest still run.
func (a *ShellApp) applyPreferences() {
	p := a.Preferences()
	a.policy.Set(p.CloseOnExit)

	steps := []struct {
		name string
		fn   func() error
	}{
		{"dock icon", func() error { return a.coordinator.SetDockIconVisibility(p.ShowDockIcon) }},
		{"status icon", func() error { return a.tray.SetVisible(p.ShowStatusIcon) }},
		{"devtools", func() error { a.coordinator.SetDevtools(p.DevtoolsEnabled); return nil }},
	}
	for _, step := range steps {
		if err := a.dispatcher.Do(step.fn); err != nil {
			a.log.Warn().Err(err).Str("step", step.name).Msg("failed to apply preference")
		}
	}
}

// DomReady is called once the webview content has loaded.
func (a *ShellApp) DomReady(ctx context.Context) {
	a.log.Debug().Msg("dom ready")
}

// BeforeClose resolves the window close control. Returning true keeps the app running.
func (a *ShellApp) BeforeClose(ctx context.Context) bool {
	return a.coordinator.BeforeClose()
}

// Shutdown stops the dispatcher and releases the status area.
func (a *ShellApp) Shutdown(ctx context.Context) {
	a.dispatcher.Stop()
	if c, ok := a.trayHost.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close status area")
		}
	}
	if w, ok := a.window.(interface{ Detach() }); ok {
		w.Detach()
	}
	a.log.Info().Msg("shell stopped")
}

// SetDockIconVisibility shows or hides the app in the dock and app switcher.
func (a *ShellApp) SetDockIconVisibility(visible bool) error {
	err := a.apply(domain.SettingShowDockIcon, visible, func() error {
		return a.coordinator.SetDockIconVisibility(visible)
	})
	if err != nil {
		a.log.Warn().Err(err).Bool("visible", visible).Msg("failed to toggle dock icon")
	}
	return err
}

// SetStatusIconVisibility creates, shows or hides the status-area icon.
func (a *ShellApp) SetStatusIconVisibility(visible bool) error {
	err := a.apply(domain.SettingShowStatusIcon, visible, func() error {
		return a.tray.SetVisible(visible)
	})
	if err != nil {
		a.log.Warn().Err(err).Bool("visible", visible).Msg("failed to toggle status icon")
	}
	return err
}

// SetCloseOnExit sets whether the close control exits (true) or hides the window.
func (a *ShellApp) SetCloseOnExit(enabled bool) {
	a.applyAlways(domain.SettingCloseOnExit, enabled, func() {
		a.policy.Set(enabled)
	})
	a.log.Info().Bool("enabled", enabled).Msg("close policy changed")
}

// SetDevtools records whether the inspector should be open. Wails opens the inspector
// only at launch, so the change applies on the next launch of the app.
func (a *ShellApp) SetDevtools(enabled bool) {
	a.applyAlways(domain.SettingDevtoolsEnabled, enabled, func() {
		a.coordinator.SetDevtools(enabled)
	})
}

// apply runs fn on the UI context and, when it succeeds, records the preference in
// the same task so the stored value follows the order the changes were applied in.
func (a *ShellApp) apply(key string, v bool, fn func() error) error {
	return a.dispatcher.Do(func() error {
		if err := fn(); err != nil {
			return err
		}
		a.persist(key, v)
		return nil
	})
}

// applyAlways is apply for changes that cannot fail. Outside the dispatcher's
// lifetime it runs inline.
func (a *ShellApp) applyAlways(key string, v bool, fn func()) {
	err := a.apply(key, v, func() error {
		fn()
		return nil
	})
	if errors.Is(err, ErrDispatcherClosed) {
		fn()
		a.persist(key, v)
	}
}

// ShowWindow shows and focuses the main window.
func (a *ShellApp) ShowWindow() {
	if !a.dispatcher.Post(a.coordinator.Show) {
		a.coordinator.Show()
	}
}

// QuitApp terminates the process regardless of the close policy.
func (a *ShellApp) QuitApp() {
	a.coordinator.Quit()
}

// Greet returns a greeting for name.
func (a *ShellApp) Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Go!", name)
}

// GetPreferences returns the current shell preferences for the settings screen.
func (a *ShellApp) GetPreferences() Preferences {
	return a.Preferences()
}

// Preferences returns a copy of the current preferences.
func (a *ShellApp) Preferences() Preferences {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prefs
}

// WindowState returns the coordinator's view of the main window.
func (a *ShellApp) WindowState() WindowState {
	return a.coordinator.State()
}

// persist records a preference in memory and in the settings store. Store failures
// are logged; the command itself already took effect.
func (a *ShellApp) persist(key string, v bool) {
	a.mu.Lock()
	a.prefs.set(key, v)
	a.mu.Unlock()

	if a.settings == nil {
		return
	}
	if err := a.settings.Set(key, strconv.FormatBool(v)); err != nil {
		a.log.Warn().Err(err).Str("key", key).Msg("failed to persist preference")
	}
}
