package desktop

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// MainWindowName is the logical name of the one primary window.
const MainWindowName = "main"

// WindowState is the visibility state of the main window.
type WindowState int

const (
	WindowVisible WindowState = iota
	WindowHidden
)

func (s WindowState) String() string {
	switch s {
	case WindowVisible:
		return "visible"
	case WindowHidden:
		return "hidden"
	default:
		return fmt.Sprintf("WindowState(%d)", int(s))
	}
}

// WindowHost performs window operations on the OS window. Exists is false while no
// window is attached; the other calls are only made when it is true, except Quit.
type WindowHost interface {
	Exists() bool
	Show()
	Hide()
	Focus()
	SetDevtools(enabled bool)
	// Quit terminates the process with exit code 0.
	Quit()
}

// DockController switches the app between the regular (dock and app switcher) and
// accessory (no dock icon) activation policies.
type DockController interface {
	SetActivationPolicy(regular bool) error
}

// WindowCoordinator owns the main window's lifecycle: it resolves close requests
// against the ClosePolicy and drives show, hide, focus and quit.
type WindowCoordinator struct {
	host   WindowHost
	policy *ClosePolicy
	dock   DockController
	caps   Capabilities
	log    zerolog.Logger

	mu    sync.Mutex
	state WindowState

	// quitting lets the close hook pass the close that an explicit quit triggers.
	quitting atomic.Bool
}

func NewWindowCoordinator(host WindowHost, policy *ClosePolicy, dock DockController, caps Capabilities, log zerolog.Logger) *WindowCoordinator {
	return &WindowCoordinator{
		host:   host,
		policy: policy,
		dock:   dock,
		caps:   caps,
		log:    log,
		state:  WindowVisible,
	}
}

// State returns the current window state.
func (c *WindowCoordinator) State() WindowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Quitting reports whether an unconditional quit is in progress.
func (c *WindowCoordinator) Quitting() bool {
	return c.quitting.Load()
}

// BeforeClose resolves a close request. It returns true to veto the close (the window
// is hidden instead) and false to let the process exit.
func (c *WindowCoordinator) BeforeClose() (prevent bool) {
	if c.quitting.Load() {
		c.log.Info().Msg("close during quit, allowing exit")
		return false
	}
	if c.policy.ExitOnClose() {
		c.log.Info().Msg("close requested, exiting")
		c.quitting.Store(true)
		return false
	}

	c.log.Info().Msg("close requested, hiding window")
	c.Hide()
	return true
}

// Show makes the window visible and requests focus, even if it already was visible.
func (c *WindowCoordinator) Show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.host.Exists() {
		c.log.Debug().Msg("show requested without a window")
		return
	}
	c.host.Show()
	c.host.Focus()
	c.state = WindowVisible
}

// Hide hides the window without releasing it.
func (c *WindowCoordinator) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.host.Exists() {
		c.log.Debug().Msg("hide requested without a window")
		return
	}
	c.host.Hide()
	c.state = WindowHidden
}

// Quit terminates the process regardless of the close policy.
func (c *WindowCoordinator) Quit() {
	c.log.Info().Msg("quit requested")
	c.quitting.Store(true)
	c.host.Quit()
}

// SetDockIconVisibility toggles the dock/app-switcher presence where supported.
func (c *WindowCoordinator) SetDockIconVisibility(visible bool) error {
	if !c.caps.Dock || c.dock == nil {
		c.log.Debug().Bool("visible", visible).Msg("dock policy not supported on this platform")
		return nil
	}
	if err := c.dock.SetActivationPolicy(visible); err != nil {
		return fmt.Errorf("set activation policy: %w", err)
	}
	c.log.Info().Bool("visible", visible).Msg("dock icon visibility changed")
	return nil
}

// SetDevtools opens or closes the inspector; without a window it does nothing.
func (c *WindowCoordinator) SetDevtools(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.host.Exists() {
		return
	}
	c.host.SetDevtools(enabled)
}
