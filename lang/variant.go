package lang

import (
	"fmt"

	"github.com/samber/lo"
)

// Kind is the presentation form of a variant.
type Kind int

const (
	KindUnspecified Kind = iota
	Raw
	Dub
	Sub
)

func (k Kind) String() string {
	switch k {
	case Raw:
		return "Raw"
	case Dub:
		return "Dub"
	case Sub:
		return "Sub"
	default:
		return "Unspecified"
	}
}

// ParseKind recognizes the presentation forms accepted on the command line.
func ParseKind(s string) (Kind, error) {
	switch lowerASCII(s) {
	case "", "unspecified":
		return KindUnspecified, nil
	case "raw":
		return Raw, nil
	case "dub":
		return Dub, nil
	case "sub":
		return Sub, nil
	default:
		return KindUnspecified, fmt.Errorf("could not recognize video type: %s", s)
	}
}

// Variant pairs a presentation kind with a language. Either half may be
// unspecified, in which case the variant acts as a wildcard during Narrow.
type Variant struct {
	Kind     Kind
	Language Language
}

// Compose builds the request variant from the separate type and language
// flags. Raw carries no language.
func Compose(kind Kind, language Language) Variant {
	if kind == Raw {
		return Variant{Kind: Raw}
	}
	return Variant{Kind: kind, Language: language}
}

// LanguageOf returns the variant's language; raw streams have none.
func (v Variant) LanguageOf() (Language, bool) {
	if v.Kind == Raw {
		return LanguageUnspecified, false
	}
	return v.Language, true
}

// wildcard reports whether the variant leaves its kind or language open.
func (v Variant) wildcard() bool {
	if v.Kind == KindUnspecified {
		return true
	}
	return v.Kind != Raw && v.Language == LanguageUnspecified
}

// Concrete reports whether the variant pins down an exact choice, leaving
// nothing for Narrow to decide.
func (v Variant) Concrete() bool {
	return !v.wildcard()
}

func (v Variant) String() string {
	switch v.Kind {
	case Raw:
		return "Raw"
	case Dub, Sub:
		if v.Language == LanguageUnspecified {
			return v.Kind.String()
		}
		return v.Language.Short() + v.Kind.String()
	default:
		if v.Language == LanguageUnspecified {
			return "Unspecified"
		}
		return v.Language.Long()
	}
}

// ParseVariant recognizes the bare kinds ("dub", "sub", "raw") as well as
// combined display forms such as "GerDub" or "engsub".
func ParseVariant(s string) (Variant, error) {
	switch lowerASCII(s) {
	case "", "unspecified":
		return Variant{}, nil
	case "raw":
		return Variant{Kind: Raw}, nil
	case "dub":
		return Variant{Kind: Dub}, nil
	case "sub":
		return Variant{Kind: Sub}, nil
	case "engdub":
		return Variant{Kind: Dub, Language: English}, nil
	case "engsub":
		return Variant{Kind: Sub, Language: English}, nil
	case "gerdub":
		return Variant{Kind: Dub, Language: German}, nil
	case "gersub":
		return Variant{Kind: Sub, Language: German}, nil
	default:
		return Variant{}, fmt.Errorf("could not recognize video type: %s", s)
	}
}

// Narrow reduces an ordered list of available variants to the ones matching
// the requested variant, preserving relative order. Entries that are
// themselves wildcards never match. A fully specified request yields either
// that single variant or nothing.
func Narrow(requested Variant, available []Variant) []Variant {
	concrete := lo.Filter(available, func(v Variant, _ int) bool {
		return !v.wildcard()
	})

	switch {
	case requested.Kind == KindUnspecified && requested.Language == LanguageUnspecified:
		return concrete
	case requested.Kind == KindUnspecified:
		return lo.Filter(concrete, func(v Variant, _ int) bool {
			l, ok := v.LanguageOf()
			return ok && l == requested.Language
		})
	case requested.wildcard():
		return lo.Filter(concrete, func(v Variant, _ int) bool {
			return v.Kind == requested.Kind
		})
	default:
		if lo.Contains(concrete, requested) {
			return []Variant{requested}
		}
		return nil
	}
}
