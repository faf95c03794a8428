package output

import (
	"testing"

	"github.com/sdl-cli/sdl/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFile(t *testing.T) {
	defer filesystem.SetOsFs()

	Convey("File", t, func() {
		filesystem.SetMemMapFs()

		Convey("Should hold bytes in a part file until Commit", func() {
			f, err := New("shows/demo/episode.mp4")
			So(err, ShouldBeNil)

			_, err = f.Write([]byte("media "))
			So(err, ShouldBeNil)
			_, err = f.Write([]byte("payload"))
			So(err, ShouldBeNil)
			So(f.Size(), ShouldEqual, int64(len("media payload")))
			So(Exists("shows/demo/episode.mp4"), ShouldBeFalse)
			So(Exists("shows/demo/episode.mp4.part"), ShouldBeTrue)

			So(f.Commit(), ShouldBeNil)
			So(Exists("shows/demo/episode.mp4"), ShouldBeTrue)
			So(Exists("shows/demo/episode.mp4.part"), ShouldBeFalse)

			data, err := filesystem.API().ReadFile("shows/demo/episode.mp4")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "media payload")
		})

		Convey("Truncate should start the part file over", func() {
			f, err := New("episode.mp4")
			So(err, ShouldBeNil)
			_, err = f.Write([]byte("stale bytes"))
			So(err, ShouldBeNil)

			So(f.Truncate(), ShouldBeNil)
			So(f.Size(), ShouldEqual, int64(0))

			_, err = f.Write([]byte("fresh"))
			So(err, ShouldBeNil)
			So(f.Commit(), ShouldBeNil)

			data, err := filesystem.API().ReadFile("episode.mp4")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "fresh")
		})

		Convey("Discard should remove the part file", func() {
			f, err := New("episode.mp4")
			So(err, ShouldBeNil)
			_, err = f.Write([]byte("partial"))
			So(err, ShouldBeNil)

			f.Discard()
			So(Exists("episode.mp4.part"), ShouldBeFalse)
			So(Exists("episode.mp4"), ShouldBeFalse)
		})

		Convey("Discard after Commit should keep the final file", func() {
			f, err := New("episode.mp4")
			So(err, ShouldBeNil)
			_, err = f.Write([]byte("done"))
			So(err, ShouldBeNil)
			So(f.Commit(), ShouldBeNil)

			f.Discard()
			So(Exists("episode.mp4"), ShouldBeTrue)
		})
	})
}
