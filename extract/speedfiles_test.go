package extract

import (
	"context"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSpeedfiles(t *testing.T) {
	Convey("Speedfiles", t, func() {
		Convey("Should claim speedfiles embed URLs", func() {
			So(speedfiles{}.Probe("https://speedfiles.net/d2bb8bb75e7d"), ShouldBeTrue)
			So(speedfiles{}.Probe("https://www.speedfiles.net/d2bb8bb75e7d"), ShouldBeFalse)
		})
		Convey("Should decode the layered player variable", func() {
			page, err := os.ReadFile("testdata/speedfiles.html")
			So(err, ShouldBeNil)

			descriptor, err := speedfiles{}.Resolve(context.Background(), nil, Source{Body: string(page)})
			So(err, ShouldBeNil)
			So(descriptor.URL, ShouldEqual, "https://md4.t0006.cache-tqz84v1.speedfiles.net/store_access/d2bb8bb75e7d?token=5ogOcpTFMa6TVtWFsRK6D6S044U5oDeKRWi1FDXVSv8&t=1731385663&e=10800&f=d2bb8bb75e7d&sp=1500")
		})
		Convey("Should reject candidates that do not survive the pipeline", func() {
			page := `<script>var a = "d6862e735a813f72a822d7bf4f06d95d6a562f72ca7dde7553d60da178ac5517";</script>`
			_, err := speedfiles{}.Resolve(context.Background(), nil, Source{Body: page})
			So(err, ShouldNotBeNil)
		})
	})
}
