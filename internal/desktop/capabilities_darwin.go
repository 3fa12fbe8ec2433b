//go:build darwin

package desktop

var platformCapabilities = Capabilities{Dock: true, StatusArea: true}
