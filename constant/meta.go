// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Sdl is the canonical application identifier used for filesystem paths and CLI branding.
	Sdl = "sdl"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the default HTTP User-Agent string used for requests to streaming sites and
	// hosting providers when the browser session has not supplied its own.
	UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36"
)

// Build metadata, stamped by the release pipeline through -ldflags.
var (
	Revision = "unknown"
	BuiltAt  = "unknown"
	BuiltBy  = "source"
)
