package version

// These variables are set at build time via -ldflags
var (
	// Version is the semantic version (e.g., "1.0.0")
	Version = "dev"
	// Commit is the git commit hash
	Commit = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// AppName is the product name shown in the window title, tray tooltip and About box.
const AppName = "Konnyaku Translator"

// Info returns formatted version information
func Info() string {
	return Version + " (" + Commit + ")"
}

// Full returns full version information including build time
func Full() string {
	return Version + " (commit: " + Commit + ", built: " + BuildTime + ")"
}

// Tooltip returns the product name followed by the short version, for the status-area icon.
func Tooltip(name string) string {
	if name == "" {
		name = AppName
	}
	if Version == "dev" {
		return name
	}
	return name + " " + Version
}
