//go:build !darwin

package desktop

// Windows and Linux have no dock activation policy.
var platformCapabilities = Capabilities{Dock: false, StatusArea: true}
