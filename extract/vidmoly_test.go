package extract

import (
	"context"
	"testing"

	"github.com/sdl-cli/sdl/media"
	. "github.com/smartystreets/goconvey/convey"
)

func TestVidmoly(t *testing.T) {
	Convey("Vidmoly", t, func() {
		Convey("Should claim vidmoly embed URLs", func() {
			So(vidmoly{}.Probe("https://vidmoly.to/embed-z4knfpsh2q3o.html"), ShouldBeTrue)
			So(vidmoly{}.Probe("http://vidmoly.to/embed-z4knfpsh2q3o.html"), ShouldBeTrue)
			So(vidmoly{}.Probe("https://vidmoly.to/"), ShouldBeFalse)
		})
		Convey("Should read the playlist from the player setup", func() {
			page := `  var player = jwplayer("vplayer");
  const playerInstance =
  player.setup({
    sources: [{file:"https://box-1031-f.vmeas.cloud/hls/xqx2pso7grokjiqbtfvchm2axjkaannuk4e6hwump,byztove2jkaai2yqgpa,ikztove2jkavsbrjbqq,.urlset/master.m3u8"}],
    image: "https://box-1031-f.vmeas.cloud/i/01/01384/z4knfpsh2q3o.jpg",
    bitrate: "2160000",
    label: "720p HD",
    width: "100%",
    height: "100%",
    cast: {},
    stretching: "",
    duration: "1425",
    //aspectratio: "16:9",
    preload: 'none',
    bufferPercent: '5090',
    defaultBandwidthEstimate: "250000",
    androidhls: "true",
    hlshtml: "true",
    primary: "html5",
    playbackRateControls: "false",
    playbackRates: [0.25, 0.5, 1, 1.5, 2.0],
    startparam: "start",
    "skin": {
    "name": "alaska"
    },
    advertising: molyast21
    ,tracks: [{file: "/dl?op=get_slides&length=1425&url=https://box-1031-f.vmeas.cloud/i/01/01384/z4knfpsh2q3o0000.jpg", kind: "thumbnails"}]
    ,captions: {color: '#FFFFFF', fontSize: 16, fontFamily:"Verdana", backgroundOpacity: 0, edgeStyle: 'raised', fontOpacity: 90},'qualityLabels':{"2078":"HD","799":"SD"},related: {file:"", onclick:"link"}
  });`

			descriptor, err := vidmoly{}.Resolve(context.Background(), nil, Source{Body: page})
			So(err, ShouldBeNil)
			So(descriptor.URL, ShouldEqual, "https://box-1031-f.vmeas.cloud/hls/xqx2pso7grokjiqbtfvchm2axjkaannuk4e6hwump,byztove2jkaai2yqgpa,ikztove2jkavsbrjbqq,.urlset/master.m3u8")
			So(descriptor.Kind, ShouldEqual, media.HLS)
			So(descriptor.Referer, ShouldEqual, "https://vidmoly.to/")
		})
		Convey("Should fail without a playlist entry", func() {
			_, err := vidmoly{}.Resolve(context.Background(), nil, Source{Body: `sources: [{file:"https://example.com/video.mp4"}]`})
			So(err, ShouldNotBeNil)
		})
	})
}
