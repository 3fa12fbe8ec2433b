package desktop

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/energye/systray"
	"github.com/rs/zerolog"

	"github.com/konnyaku-app/konnyaku/internal/icon"
)

// readyTimeout bounds the wait for the status-area loop to come up.
const readyTimeout = 5 * time.Second

// SystrayHost hosts the status-area icon with energye/systray. The library drives a
// single icon per process, so a second Build while one is live is refused.
//
// On macOS the status item joins the window's own event loop and Prepare must run on
// the main goroutine before wails.Run. Elsewhere the library runs its own loop, started
// lazily by the first Build.
type SystrayHost struct {
	mu       sync.Mutex
	started  bool
	prepared bool
	ready    chan struct{}
	current  *systrayIcon
	blank    []byte
	log      zerolog.Logger
}

func NewSystrayHost(log zerolog.Logger) *SystrayHost {
	blank, err := icon.Blank()
	if err == nil {
		blank, err = icon.ForOS(runtime.GOOS, blank)
	}
	if err != nil {
		log.Warn().Err(err).Msg("blank tray image unavailable")
	}
	return &SystrayHost{
		ready: make(chan struct{}),
		blank: blank,
		log:   log,
	}
}

func (h *SystrayHost) Build(spec TrayIconSpec) (TrayIcon, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != nil {
		return nil, fmt.Errorf("status icon %q already exists", h.current.spec.ID)
	}
	if err := h.startLocked(); err != nil {
		return nil, err
	}

	ic := &systrayIcon{host: h, spec: spec}
	ic.configure()
	if err := ic.SetMenu(spec.Menu); err != nil {
		ic.reset()
		return nil, err
	}
	h.current = ic
	h.log.Debug().Str("id", spec.ID).Msg("status icon built")
	return ic, nil
}

// Prepare registers the status item with a shared event loop where the platform
// needs one. It is a no-op elsewhere and on repeated calls.
func (h *SystrayHost) Prepare() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.prepared || !sharedLoop {
		return
	}
	h.prepared = true
	h.started = true
	registerLoop(h.onReady(), h.onExit)
	h.log.Debug().Msg("status area registered with the app loop")
}

// Close stops the status-area loop at shutdown.
func (h *SystrayHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started {
		stopLoop()
		h.started = false
	}
	h.current = nil
	return nil
}

func (h *SystrayHost) onReady() func() {
	ready := h.ready
	var once sync.Once
	return func() { once.Do(func() { close(ready) }) }
}

func (h *SystrayHost) onExit() {
	h.log.Info().Msg("status area loop exited")
}

func (h *SystrayHost) startLocked() error {
	if !h.started {
		if sharedLoop {
			return errors.New("status area not registered with the app loop")
		}
		h.started = true
		go systray.Run(h.onReady(), h.onExit)
	}
	select {
	case <-h.ready:
		return nil
	case <-time.After(readyTimeout):
		return errors.New("status area did not become ready")
	}
}

// systrayIcon is the live icon. energye/systray has no visibility switch, so a hidden
// icon shows the blank image with no tooltip and no menu, and ignores clicks.
type systrayIcon struct {
	host *SystrayHost
	spec TrayIconSpec

	mu             sync.Mutex
	visible        bool
	showMenuOnLeft bool
}

func (i *systrayIcon) configure() {
	i.reset()
	systray.SetOnClick(func(menu systray.IMenu) {
		i.click(menu, ButtonPrimary)
	})
	systray.SetOnRClick(func(menu systray.IMenu) {
		i.click(menu, ButtonSecondary)
	})
}

// reset puts the native icon in its hidden presentation.
func (i *systrayIcon) reset() {
	if len(i.host.blank) > 0 {
		systray.SetIcon(i.host.blank)
	}
	systray.SetTooltip("")
	systray.ResetMenu()
}

func (i *systrayIcon) isVisible() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.visible
}

// clickOutcome decides what a click on the native icon does: a hidden icon ignores
// every click, the secondary button opens the menu and is still reported, and the
// primary button opens the menu only when configured to.
func clickOutcome(visible, showMenuOnLeft, hasMenu bool, button MouseButton) (openMenu, report bool) {
	if !visible {
		return false, false
	}
	switch button {
	case ButtonSecondary:
		return hasMenu, true
	case ButtonPrimary:
		if showMenuOnLeft && hasMenu {
			return true, false
		}
	}
	return false, true
}

func (i *systrayIcon) click(menu systray.IMenu, button MouseButton) {
	i.mu.Lock()
	visible, showMenu := i.visible, i.showMenuOnLeft
	i.mu.Unlock()

	openMenu, report := clickOutcome(visible, showMenu, menu != nil, button)
	if openMenu {
		menu.ShowMenu()
	}
	if report && i.spec.Events.OnClick != nil {
		// The library reports clicks once the button is released.
		i.spec.Events.OnClick(ClickEvent{Button: button, State: ButtonReleased})
	}
}

// selectItem forwards a menu selection; a hidden icon has no menu to select from.
func (i *systrayIcon) selectItem(id MenuItemID) {
	if i.isVisible() && i.spec.Events.OnMenu != nil {
		i.spec.Events.OnMenu(id)
	}
}

func (i *systrayIcon) SetVisible(visible bool) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if visible {
		if len(i.spec.Icon) > 0 {
			systray.SetIcon(i.spec.Icon)
		}
		systray.SetTooltip(i.spec.Tooltip)
	} else {
		i.reset()
	}
	i.visible = visible
	return nil
}

func (i *systrayIcon) SetMenu(menu Menu) error {
	systray.ResetMenu()
	for _, entry := range menu {
		if entry.Separator {
			systray.AddSeparator()
			continue
		}
		if entry.ID == "" {
			return fmt.Errorf("menu entry %q has no id", entry.Title)
		}
		id := entry.ID
		item := systray.AddMenuItem(entry.Title, entry.Tooltip)
		item.Click(func() { i.selectItem(id) })
	}
	return nil
}

func (i *systrayIcon) SetShowMenuOnLeftClick(enabled bool) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.showMenuOnLeft = enabled
	return nil
}

func (i *systrayIcon) Dispose() error {
	i.mu.Lock()
	i.visible = false
	i.mu.Unlock()
	i.reset()

	i.host.mu.Lock()
	defer i.host.mu.Unlock()
	if i.host.current == i {
		i.host.current = nil
	}
	return nil
}
