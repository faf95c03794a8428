// Package lang models audio/subtitle variants of an episode and the
// per-site-category preference orders used to pick between them.
package lang

import "fmt"

// Language is the audio or subtitle language of a variant.
type Language int

const (
	LanguageUnspecified Language = iota
	English
	German
)

// Short returns the three-letter display prefix ("Eng", "Ger").
func (l Language) Short() string {
	switch l {
	case English:
		return "Eng"
	case German:
		return "Ger"
	default:
		return "Und"
	}
}

// Long returns the full display name.
func (l Language) Long() string {
	switch l {
	case English:
		return "English"
	case German:
		return "German"
	default:
		return "Unspecified"
	}
}

func (l Language) String() string {
	return l.Long()
}

// ParseLanguage recognizes full and short language names, case-insensitively.
func ParseLanguage(s string) (Language, error) {
	switch lowerASCII(s) {
	case "english", "eng":
		return English, nil
	case "german", "ger":
		return German, nil
	default:
		return LanguageUnspecified, fmt.Errorf("could not recognize language: %s", s)
	}
}

// lowerASCII lowercases ASCII letters only, leaving other bytes alone.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
