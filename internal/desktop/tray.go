package desktop

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// TrayID is the logical id of the one status-area icon.
const TrayID = "status"

// ErrTrayBuild wraps failures while constructing the status-area icon.
var ErrTrayBuild = errors.New("build status icon")

// MenuItemID tags a tray menu entry so selections can be routed.
type MenuItemID string

const (
	MenuShow MenuItemID = "tray_show"
	MenuHide MenuItemID = "tray_hide"
	MenuQuit MenuItemID = "tray_quit"
)

// MenuEntry is one row of a tray menu. Separator rows carry no id.
type MenuEntry struct {
	ID        MenuItemID
	Title     string
	Tooltip   string
	Separator bool
}

// Menu is an ordered list of entries.
type Menu []MenuEntry

// StandardMenu returns Show, Hide, a separator and Quit.
func StandardMenu() Menu {
	return Menu{
		{ID: MenuShow, Title: "Show", Tooltip: "Show the main window"},
		{ID: MenuHide, Title: "Hide", Tooltip: "Hide the main window"},
		{Separator: true},
		{ID: MenuQuit, Title: "Quit", Tooltip: "Quit Konnyaku Translator"},
	}
}

type MouseButton int

const (
	ButtonPrimary MouseButton = iota
	ButtonSecondary
	ButtonMiddle
)

type ButtonState int

const (
	ButtonPressed ButtonState = iota
	ButtonReleased
)

// ClickEvent is a click on the icon itself.
type ClickEvent struct {
	Button MouseButton
	State  ButtonState
}

// TrayEvents receives events from a built icon. Hosts may call them from any goroutine.
type TrayEvents struct {
	OnClick func(ClickEvent)
	OnMenu  func(MenuItemID)
}

// TrayIconSpec is everything a host needs to build an icon.
type TrayIconSpec struct {
	ID      string
	Tooltip string
	// Icon is nil when no default image is available.
	Icon   []byte
	Menu   Menu
	Events TrayEvents
}

// TrayHost creates status-area icons. A failed Build must leave nothing registered.
type TrayHost interface {
	Build(spec TrayIconSpec) (TrayIcon, error)
}

// TrayIcon is a built icon. Errors carry the OS message.
type TrayIcon interface {
	SetVisible(visible bool) error
	SetMenu(menu Menu) error
	SetShowMenuOnLeftClick(enabled bool) error
	// Dispose removes the icon; only used to roll back a failed construction.
	Dispose() error
}

// WindowActions are the window operations tray events trigger.
type WindowActions interface {
	Show()
	Hide()
	Quit()
}

// TrayController owns the status-area icon slot: it creates the icon on first show,
// reuses it afterwards and routes its events to window actions.
type TrayController struct {
	host    TrayHost
	window  WindowActions
	caps    Capabilities
	tooltip string
	image   []byte
	post    func(func())
	log     zerolog.Logger

	// mu makes "create if absent, else mutate" one decision.
	mu   sync.Mutex
	icon TrayIcon
	menu Menu

	actions map[MenuItemID]func()
}

// TrayOptions configures a TrayController.
type TrayOptions struct {
	Host    TrayHost
	Window  WindowActions
	Caps    Capabilities
	Tooltip string
	Image   []byte
	// Post delivers host events onto the UI context; nil runs them inline.
	Post func(func())
	Log  zerolog.Logger
}

func NewTrayController(opts TrayOptions) *TrayController {
	c := &TrayController{
		host:    opts.Host,
		window:  opts.Window,
		caps:    opts.Caps,
		tooltip: opts.Tooltip,
		image:   opts.Image,
		post:    opts.Post,
		log:     opts.Log,
	}
	if c.post == nil {
		c.post = func(fn func()) { fn() }
	}
	c.actions = map[MenuItemID]func(){
		MenuShow: c.window.Show,
		MenuHide: c.window.Hide,
		MenuQuit: c.window.Quit,
	}
	return c
}

// Exists reports whether the icon has been built.
func (c *TrayController) Exists() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.icon != nil
}

// SetVisible shows or hides the status-area icon, building it on first show.
func (c *TrayController) SetVisible(visible bool) error {
	if !c.caps.StatusArea || c.host == nil {
		c.log.Debug().Bool("visible", visible).Msg("status area not supported on this platform")
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !visible {
		if c.icon == nil {
			return nil
		}
		if err := c.icon.SetVisible(false); err != nil {
			return fmt.Errorf("hide status icon: %w", err)
		}
		c.log.Info().Msg("status icon hidden")
		return nil
	}

	if c.icon != nil {
		return c.reshow()
	}
	return c.build()
}

func (c *TrayController) reshow() error {
	if err := c.icon.SetVisible(true); err != nil {
		return fmt.Errorf("show status icon: %w", err)
	}
	if err := c.icon.SetMenu(c.menu); err != nil {
		return fmt.Errorf("attach status menu: %w", err)
	}
	if err := c.icon.SetShowMenuOnLeftClick(false); err != nil {
		return fmt.Errorf("configure status icon: %w", err)
	}
	c.log.Info().Msg("status icon shown")
	return nil
}

func (c *TrayController) build() error {
	menu := StandardMenu()
	icon, err := c.host.Build(TrayIconSpec{
		ID:      TrayID,
		Tooltip: c.tooltip,
		Icon:    c.image,
		Menu:    menu,
		Events: TrayEvents{
			OnClick: func(ev ClickEvent) { c.post(func() { c.HandleClick(ev) }) },
			OnMenu:  func(id MenuItemID) { c.post(func() { c.HandleMenu(id) }) },
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTrayBuild, err)
	}

	if err := c.finishBuild(icon); err != nil {
		if derr := icon.Dispose(); derr != nil {
			c.log.Warn().Err(derr).Msg("failed to dispose partially built status icon")
		}
		return fmt.Errorf("%w: %w", ErrTrayBuild, err)
	}

	c.icon = icon
	c.menu = menu
	c.log.Info().Str("id", TrayID).Msg("status icon created")
	return nil
}

func (c *TrayController) finishBuild(icon TrayIcon) error {
	if err := icon.SetShowMenuOnLeftClick(false); err != nil {
		return err
	}
	return icon.SetVisible(true)
}

// HandleClick shows and focuses the window on a primary-button release; every other
// click is ignored.
func (c *TrayController) HandleClick(ev ClickEvent) {
	if ev.Button != ButtonPrimary || ev.State != ButtonReleased {
		return
	}
	c.log.Debug().Msg("status icon clicked")
	c.window.Show()
}

// HandleMenu routes a menu selection. Unknown ids are ignored.
func (c *TrayController) HandleMenu(id MenuItemID) {
	action, ok := c.actions[id]
	if !ok {
		c.log.Debug().Str("id", string(id)).Msg("ignoring unknown menu item")
		return
	}
	c.log.Info().Str("id", string(id)).Msg("status menu selected")
	action()
}
