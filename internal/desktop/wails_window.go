package desktop

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// WailsWindow drives the Wails main window through the runtime package. It has no
// window until Attach is called from OnStartup.
type WailsWindow struct {
	mu       sync.RWMutex
	ctx      context.Context
	devtools bool
	log      zerolog.Logger
}

// NewWailsWindow returns a detached window. devtools is the inspector state the
// window was launched with.
func NewWailsWindow(devtools bool, log zerolog.Logger) *WailsWindow {
	return &WailsWindow{devtools: devtools, log: log}
}

// Attach binds the Wails application context.
func (w *WailsWindow) Attach(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctx = ctx
}

// Detach drops the context at shutdown.
func (w *WailsWindow) Detach() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctx = nil
}

func (w *WailsWindow) context() context.Context {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ctx
}

func (w *WailsWindow) Exists() bool {
	return w.context() != nil
}

func (w *WailsWindow) Show() {
	if ctx := w.context(); ctx != nil {
		runtime.WindowShow(ctx)
		runtime.WindowUnminimise(ctx)
	}
}

func (w *WailsWindow) Hide() {
	if ctx := w.context(); ctx != nil {
		runtime.WindowHide(ctx)
	}
}

// Focus raises the window above other windows.
func (w *WailsWindow) Focus() {
	if ctx := w.context(); ctx != nil {
		runtime.WindowSetAlwaysOnTop(ctx, true)
		runtime.WindowSetAlwaysOnTop(ctx, false)
	}
}

// SetDevtools records the inspector state. Wails v2 only opens the inspector at
// launch, so a change on a live window takes effect on the next start.
func (w *WailsWindow) SetDevtools(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.devtools == enabled {
		return
	}
	w.devtools = enabled
	w.log.Info().Bool("enabled", enabled).Msg("devtools setting changed, applies on next launch")
}

// DevtoolsEnabled returns the recorded inspector state.
func (w *WailsWindow) DevtoolsEnabled() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.devtools
}

// Quit ends the Wails run loop, or the process directly when no window is attached.
func (w *WailsWindow) Quit() {
	ctx := w.context()
	if ctx == nil {
		w.log.Info().Msg("quit without a window, exiting process")
		os.Exit(0)
	}
	runtime.Quit(ctx)
}
