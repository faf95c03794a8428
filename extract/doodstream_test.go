package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDoodstream(t *testing.T) {
	Convey("Doodstream", t, func() {
		Convey("Should claim dood embed URLs on every mirror", func() {
			So(doodstream{}.Probe("https://dood.li/e/s23ywsyo2fbm"), ShouldBeTrue)
			So(doodstream{}.Probe("https://d0000d.com/e/s23ywsyo2fbm"), ShouldBeTrue)
			So(doodstream{}.Probe("https://dood.li/"), ShouldBeFalse)
		})
		Convey("Should trade the pass_md5 call for the stream URL", func() {
			mux := http.NewServeMux()
			mux.HandleFunc("/e/s23ywsyo2fbm", func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `<script>$.get('/pass_md5/421yp9zpov92/s23ywsyo2fbm', function(data) { play(data); });</script>`)
			})
			mux.HandleFunc("/pass_md5/421yp9zpov92/s23ywsyo2fbm", func(w http.ResponseWriter, r *http.Request) {
				if r.Referer() == "" {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				fmt.Fprint(w, "https://video-delivery.example.net/s23ywsyo2fbm~162/")
			})
			server := httptest.NewServer(mux)
			defer server.Close()

			embed := server.URL + "/e/s23ywsyo2fbm"
			descriptor, err := doodstream{}.Resolve(context.Background(), testSession(), Source{URL: embed, Referer: "https://aniworld.to/"})
			So(err, ShouldBeNil)
			So(descriptor.URL, ShouldStartWith, "https://video-delivery.example.net/s23ywsyo2fbm~162/")
			tailed, err := regexp.MatchString(`\?token=s23ywsyo2fbm&expiry=\d+$`, descriptor.URL)
			So(err, ShouldBeNil)
			So(tailed, ShouldBeTrue)
			So(descriptor.Referer, ShouldEqual, server.URL+"/")
		})
		Convey("Should fail without a pass_md5 call", func() {
			_, err := doodstream{}.Resolve(context.Background(), nil, Source{URL: "https://dood.li/e/abc", Body: "<html></html>"})
			So(err, ShouldNotBeNil)
		})
	})
}
