// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/sdl-cli/sdl/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

// Get retrieves the visual representation for the receiver Def based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Icon identifies a UI symbol addressable through the global registry.
type Icon int

const (
	Download Icon = iota
	Success
	Fail
	Skip
	Episode
	Season
	Link
	Lang
	Clock
)

// icons maps every Icon identifier to its per-variant representations.
var icons = map[Icon]iconDef{
	Download: {emoji: "📥", nerd: "", plain: "v", kaomoji: "(・ω・)↓", squares: "🟦"},
	Success:  {emoji: "✅", nerd: "", plain: "+", kaomoji: "(≧▽≦)", squares: "🟩"},
	Fail:     {emoji: "❌", nerd: "", plain: "x", kaomoji: "(╯°□°)╯", squares: "🟥"},
	Skip:     {emoji: "⏭", nerd: "", plain: "-", kaomoji: "(-_-)zzz", squares: "🟨"},
	Episode:  {emoji: "🎬", nerd: "", plain: "#", kaomoji: "(o^▽^o)", squares: "🟪"},
	Season:   {emoji: "📁", nerd: "", plain: "S", kaomoji: "(´·ᴗ·`)", squares: "🟫"},
	Link:     {emoji: "🔗", nerd: "", plain: "@", kaomoji: "(つ°ヮ°)つ", squares: "⬜"},
	Lang:     {emoji: "🌐", nerd: "", plain: "L", kaomoji: "(^-^)/", squares: "🟧"},
	Clock:    {emoji: "⏳", nerd: "", plain: "~", kaomoji: "(-.-)Zzz", squares: "⬛"},
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.Get()
}
