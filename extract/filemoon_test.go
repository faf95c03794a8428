package extract

import (
	"context"
	"os"
	"testing"

	"github.com/sdl-cli/sdl/media"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFilemoon(t *testing.T) {
	Convey("Filemoon", t, func() {
		Convey("Should claim filemoon embed URLs", func() {
			So(filemoon{}.Probe("https://filemoon.sx/e/ed0p89ndlpl6?t=4xnZDvwlDV0JxQ%3D%3D&autostart=true"), ShouldBeTrue)
			So(filemoon{}.Probe("https://filemoon.sx/"), ShouldBeFalse)
		})
		Convey("Should unpack the player script", func() {
			page, err := os.ReadFile("testdata/filemoon.html")
			So(err, ShouldBeNil)

			descriptor, err := filemoon{}.Resolve(context.Background(), nil, Source{Body: string(page)})
			So(err, ShouldBeNil)
			So(descriptor.URL, ShouldEqual, "https://be7713.rcr82.waw05.cdn112.com/hls2/01/04830/ed0p89ndlpl6_x/master.m3u8?t=rvm0EjVpGO2BKMaUJjRPEKrxndDmKgV6VrdJ3HnPsp4&s=1697939838&e=43200&f=24152475&srv=30&asn=12329&sp=2500")
			So(descriptor.Kind, ShouldEqual, media.HLS)
		})
		Convey("Should skip scripts that are not packed", func() {
			page := `<script data-cfasync="false" type="text/javascript">var player = init();</script>`
			_, err := filemoon{}.Resolve(context.Background(), nil, Source{Body: page})
			So(err, ShouldNotBeNil)
		})
	})
}
