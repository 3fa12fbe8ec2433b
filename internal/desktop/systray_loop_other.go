//go:build !darwin

package desktop

import "github.com/energye/systray"

const sharedLoop = false

func registerLoop(onReady, onExit func()) {}

func stopLoop() {
	systray.Quit()
}
