package icon

import (
	"testing"

	"github.com/sdl-cli/sdl/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Every icon renders under every variant", t, func() {
		for _, variant := range AvailableVariants() {
			viper.Set(key.IconsVariant, variant)
			for id := range icons {
				So(Get(id), ShouldNotBeEmpty)
			}
		}
	})

	Convey("An unknown variant renders nothing", t, func() {
		viper.Set(key.IconsVariant, "marquee")
		So(Get(Download), ShouldBeEmpty)
	})

	Convey("An unregistered icon renders nothing", t, func() {
		viper.Set(key.IconsVariant, plain)
		So(Get(Icon(42)), ShouldBeEmpty)
	})
}
