package lang

// Category is a coarse site classification deciding which variants are
// preferred when the user does not narrow the choice.
type Category int

const (
	EnglishAnime Category = iota
	GermanAnime
	GermanGeneral
)

func (c Category) String() string {
	switch c {
	case EnglishAnime:
		return "english-anime"
	case GermanAnime:
		return "german-anime"
	default:
		return "german-general"
	}
}

// Preference returns the category's variant candidates, most preferred first.
func (c Category) Preference() []Variant {
	switch c {
	case EnglishAnime:
		return []Variant{
			{Kind: Sub, Language: English},
			{Kind: Dub, Language: English},
		}
	case GermanAnime:
		return []Variant{
			{Kind: Dub, Language: German},
			{Kind: Sub, Language: German},
			{Kind: Sub, Language: English},
			{Kind: Dub, Language: English},
		}
	default:
		return []Variant{
			{Kind: Dub, Language: German},
			{Kind: Sub, Language: German},
			{Kind: Dub, Language: English},
			{Kind: Sub, Language: English},
		}
	}
}

// Rank returns the position of v in the category's preference order, or a
// value past the end for variants the category does not rank. Useful as a
// stable sort key.
func (c Category) Rank(v Variant) int {
	pref := c.Preference()
	for i, p := range pref {
		if p == v {
			return i
		}
	}
	return len(pref)
}
