//go:build !darwin

package desktop

// NewDock returns nil: there is no dock activation policy outside macOS.
func NewDock() DockController {
	return nil
}
