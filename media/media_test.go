package media

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestIsHLSURL(t *testing.T) {
	Convey("IsHLSURL", t, func() {
		Convey("Recognizes playlist extensions case-insensitively", func() {
			So(IsHLSURL("https://cdn.example.com/hls/master.m3u8"), ShouldBeTrue)
			So(IsHLSURL("https://cdn.example.com/hls/index.M3U8?token=abc"), ShouldBeTrue)
			So(IsHLSURL("https://cdn.example.com/list.m3u"), ShouldBeTrue)
		})

		Convey("Rejects other files and bare extensions", func() {
			So(IsHLSURL("https://cdn.example.com/video.mp4"), ShouldBeFalse)
			So(IsHLSURL("https://cdn.example.com/.m3u8"), ShouldBeFalse)
			So(IsHLSURL("https://cdn.example.com/m3u8"), ShouldBeFalse)
			So(IsHLSURL("https://cdn.example.com/playlist.m3u8.bak"), ShouldBeFalse)
		})

		Convey("Only the last path segment counts", func() {
			So(IsHLSURL("https://cdn.example.com/a.m3u8/segment.ts"), ShouldBeFalse)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("New", t, func() {
		Convey("Classifies playlists as HLS", func() {
			d := New("https://cdn.example.com/master.m3u8", "https://host.example/")
			So(d.Kind, ShouldEqual, HLS)
			So(d.Referer, ShouldEqual, "https://host.example/")
		})

		Convey("Classifies everything else as direct", func() {
			d := New("https://cdn.example.com/video.mp4", "")
			So(d.Kind, ShouldEqual, Direct)
			So(d.Kind.String(), ShouldEqual, "direct")
		})
	})
}
