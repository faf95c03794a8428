package util

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// filenameLimit caps sanitized names, leaving headroom for the episode
// suffix and extension within common 255-byte filesystem limits.
const filenameLimit = 160

var (
	spacedColonRe = regexp.MustCompile(`([\p{L}0-9]): +([\p{L}0-9])`)
	tightColonRe  = regexp.MustCompile(`([\p{L}0-9]):([\p{L}0-9])`)
	questionRe    = regexp.MustCompile(`([\p{L}0-9])\?+ +([\p{L}0-9])`)
	joinedSlashRe = regexp.MustCompile(`\b([\p{L}0-9])/+([\p{L}0-9])\b`)
	spacedSlashRe = regexp.MustCompile(`([\p{L}0-9])/+([\p{L}0-9])`)
	multiSpaceRe  = regexp.MustCompile(` {2,}`)
)

// SanitizeFilename reshapes a title into a safe cross-platform filename.
// Colons and question marks acting as separators between words become
// " - ", single letters around a slash are joined, every character
// Windows rejects is dropped, and the result is trimmed and capped at
// 160 bytes without splitting a rune. Degenerate titles come out empty.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			// ascii control characters vanish before whitespace folding
			// so tabs and newlines do not turn into spaces
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case r == '"':
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()

	s = spacedColonRe.ReplaceAllString(s, "$1 - $2")
	s = tightColonRe.ReplaceAllString(s, "$1 $2")
	s = strings.ReplaceAll(s, ":", "")

	s = questionRe.ReplaceAllString(s, "$1 - $2")
	s = strings.ReplaceAll(s, "?", "")

	s = joinedSlashRe.ReplaceAllString(s, "$1$2")
	s = spacedSlashRe.ReplaceAllString(s, "$1 $2")
	s = strings.ReplaceAll(s, "/", "")

	s = strings.Map(func(r rune) rune {
		switch r {
		case '\\', '*', '<', '>', '|':
			return -1
		}
		return r
	}, s)

	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.Trim(s, " .")

	return truncateBytes(s, filenameLimit)
}

// truncateBytes cuts s to at most limit bytes on a rune boundary.
func truncateBytes(s string, limit int) string {
	var total int
	for i, r := range s {
		total += utf8.RuneLen(r)
		if total > limit {
			return s[:i]
		}
	}
	return s
}

// FormatEpisode zero-pads an episode index to width so filenames sort
// lexicographically. Fractional indexes such as "7.5" keep their
// fraction with only the integer part padded; anything else passes
// through untouched. Width zero falls back to two digits.
func FormatEpisode(index string, width int) string {
	if width <= 0 {
		width = 2
	}
	index = strings.TrimSpace(index)

	if at := strings.IndexAny(index, ".,"); at >= 0 {
		integer, fraction := index[:at], index[at+1:]
		if isDigits(integer) && isDigits(fraction) {
			return zeroPad(integer, width) + index[at:at+1] + fraction
		}
		return index
	}
	if isDigits(index) {
		return zeroPad(index, width)
	}
	return index
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
