package constant

import _ "embed"

// Logo is the banner shown on the root help screen.
//
//go:embed ascii.txt
var Logo string
