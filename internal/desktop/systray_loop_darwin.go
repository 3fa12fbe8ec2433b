//go:build darwin

package desktop

import "github.com/energye/systray"

// The status item shares the NSApplication loop the webview runs.
const sharedLoop = true

func registerLoop(onReady, onExit func()) {
	systray.Register(onReady, onExit)
}

// stopLoop leaves the status item to go with the process; quitting the library here
// would terminate NSApp before the window finishes shutting down.
func stopLoop() {}
