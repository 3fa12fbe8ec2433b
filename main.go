package main

import (
	"embed"
	"fmt"
	"os"
	goruntime "runtime"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
	"golang.org/x/sync/errgroup"

	"github.com/konnyaku-app/konnyaku/internal/bootstrap"
	"github.com/konnyaku-app/konnyaku/internal/desktop"
	"github.com/konnyaku-app/konnyaku/internal/icon"
	"github.com/konnyaku-app/konnyaku/internal/logging"
	"github.com/konnyaku-app/konnyaku/internal/version"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	app := &cli.App{
		Name:    "konnyaku",
		Usage:   version.AppName + " desktop shell",
		Version: version.Full(),
		Flags:   bootstrap.CLIFlags(),
		Action: func(c *cli.Context) error {
			flags := bootstrap.FlagsFrom(c)
			flags.Console = true
			return run(flags)
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(flags bootstrap.Flags) error {
	env, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer env.Close()

	logger := logging.Component(env.Log, "main")
	logger.Info().Str("version", version.Info()).Msg("starting " + version.AppName)

	// The store and the tray image are independent; prepare them together.
	var (
		g         errgroup.Group
		trayImage []byte
	)
	g.Go(env.OpenStore)
	g.Go(func() error {
		trayImage = renderTrayIcon(logging.Component(env.Log, "tray"))
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	prefs := desktop.LoadPreferences(env.Settings, env.DefaultPreferences(), logging.Component(env.Log, "config"))
	window := desktop.NewWailsWindow(prefs.DevtoolsEnabled, logging.Component(env.Log, "window"))
	trayHost := desktop.NewSystrayHost(logging.Component(env.Log, "tray"))
	// macOS hooks the status item into the app loop from the main thread, before
	// wails.Run takes it over.
	trayHost.Prepare()

	shell := desktop.NewShellApp(desktop.Options{
		Window:      window,
		TrayHost:    trayHost,
		Dock:        desktop.NewDock(),
		Caps:        desktop.PlatformCapabilities(),
		Settings:    env.Settings,
		Preferences: prefs,
		TrayTooltip: version.Tooltip(env.Config.Tray.Tooltip),
		TrayImage:   trayImage,
		Log:         env.Log,
	})

	wc := env.Config.Window
	err = wails.Run(&options.App{
		Title:     wc.Title,
		Width:     wc.Width,
		Height:    wc.Height,
		MinWidth:  wc.MinWidth,
		MinHeight: wc.MinHeight,
		// Close requests go through OnBeforeClose and the close policy.
		HideWindowOnClose: false,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        shell.Startup,
		OnDomReady:       shell.DomReady,
		OnBeforeClose:    shell.BeforeClose,
		OnShutdown:       shell.Shutdown,
		Bind: []interface{}{
			shell,
		},
		Menu: appMenu(shell),
		Debug: options.Debug{
			OpenInspectorOnStartup: prefs.DevtoolsEnabled,
		},
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    false,
		},
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: false,
				HideTitle:                  false,
				HideTitleBar:               false,
				FullSizeContent:            false,
				UseToolbar:                 false,
				HideToolbarSeparator:       true,
			},
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			About: &mac.AboutInfo{
				Title:   version.AppName,
				Message: version.Full(),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	logger.Info().Msg("exited")
	return nil
}

// appMenu builds the macOS application menu; other platforms get none.
func appMenu(shell *desktop.ShellApp) *menu.Menu {
	if goruntime.GOOS != "darwin" {
		return nil
	}
	m := menu.NewMenu()
	m.Append(menu.AppMenu())
	m.Append(menu.EditMenu())

	windowMenu := m.AddSubmenu("Window")
	windowMenu.AddText("Show", keys.Combo("k", keys.CmdOrCtrlKey, keys.ShiftKey), func(_ *menu.CallbackData) {
		shell.ShowWindow()
	})
	windowMenu.AddSeparator()
	windowMenu.AddText("Quit", keys.CmdOrCtrl("q"), func(_ *menu.CallbackData) {
		shell.QuitApp()
	})
	return m
}

// renderTrayIcon returns the status-area image in the platform's format, or nil when
// it cannot be drawn; the tray then falls back to the host's empty icon.
func renderTrayIcon(log zerolog.Logger) []byte {
	png, err := icon.Default()
	if err != nil {
		log.Warn().Err(err).Msg("failed to render tray icon")
		return nil
	}
	data, err := icon.ForOS(goruntime.GOOS, png)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode tray icon")
		return nil
	}
	return data
}
