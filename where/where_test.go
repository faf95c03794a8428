package where

import (
	"testing"

	"github.com/samber/lo"
	"github.com/sdl-cli/sdl/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Every directory resolver creates its directory", t, func() {
		resolvers := map[string]func() string{
			"Config": Config,
			"Cache":  Cache,
			"Data":   Data,
			"Logs":   Logs,
			"Temp":   Temp,
		}

		for name, resolve := range resolvers {
			Convey(name, func() {
				path := resolve()
				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			})
		}
	})

	Convey("State files sit under their parent directories", t, func() {
		So(History(), ShouldStartWith, Config())
		So(Recent(), ShouldStartWith, Cache())
	})
}
