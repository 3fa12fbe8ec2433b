package desktop

// Capabilities describes the shell features the host platform offers.
// Unsupported features degrade to successful no-ops.
type Capabilities struct {
	// Dock is true where the OS exposes an app-switcher/dock activation policy.
	Dock bool
	// StatusArea is true where a status-area icon can be hosted next to the window.
	StatusArea bool
}

// PlatformCapabilities returns the capabilities compiled in for this OS.
func PlatformCapabilities() Capabilities {
	return platformCapabilities
}
