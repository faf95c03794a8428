package ffmpeg

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/sdl-cli/sdl/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func gzipped(payload []byte) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func TestStaticBuildAvailable(t *testing.T) {
	Convey("Static builds cover the common platforms", t, func() {
		So(staticBuildAvailable("linux", "x64"), ShouldBeTrue)
		So(staticBuildAvailable("linux", "arm64"), ShouldBeTrue)
		So(staticBuildAvailable("win32", "x64"), ShouldBeTrue)
		So(staticBuildAvailable("win32", "ia32"), ShouldBeTrue)
		So(staticBuildAvailable("win32", "arm64"), ShouldBeFalse)
		So(staticBuildAvailable("darwin", "x64"), ShouldBeTrue)
		So(staticBuildAvailable("darwin", "arm64"), ShouldBeTrue)
		So(staticBuildAvailable("darwin", "ia32"), ShouldBeFalse)
		So(staticBuildAvailable("freebsd", "x64"), ShouldBeTrue)
		So(staticBuildAvailable("freebsd", "arm64"), ShouldBeFalse)
		So(staticBuildAvailable("plan9", "x64"), ShouldBeFalse)
	})
}

func TestUnpack(t *testing.T) {
	defer filesystem.SetOsFs()

	Convey("Unpacking a static build", t, func() {
		filesystem.SetMemMapFs()

		Convey("Writes the decompressed binary into the data directory", func() {
			path, err := unpack(bytes.NewReader(gzipped([]byte("#!ffmpeg"))))
			So(err, ShouldBeNil)

			data, err := filesystem.API().ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "#!ffmpeg")
		})

		Convey("Rejects payloads that are not gzip archives", func() {
			_, err := unpack(bytes.NewReader([]byte("certainly not a binary")))
			So(err, ShouldNotBeNil)
		})

		Convey("Removes the partial file when the archive is truncated", func() {
			full := gzipped(bytes.Repeat([]byte("x"), 4096))

			_, err := unpack(bytes.NewReader(full[:len(full)/2]))
			So(err, ShouldNotBeNil)

			exists, err := filesystem.API().Exists(cachedPath())
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})
	})
}
