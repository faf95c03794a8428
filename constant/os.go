package constant

// runtime.GOOS values for the platforms with dedicated handling.
const (
	Linux   = "linux"
	Darwin  = "darwin"
	Windows = "windows"
)
