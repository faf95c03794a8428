package extract

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadx(t *testing.T) {
	Convey("LoadX", t, func() {
		Convey("Should claim loadx embed URLs", func() {
			So(loadx{}.Probe("https://loadx.ws/video/9436c43d396c2eb01c5d1e2f0b1e510d"), ShouldBeTrue)
			So(loadx{}.Probe("https://www.loadx.ws/video/9436c43d396c2eb01c5d1e2f0b1e510d"), ShouldBeFalse)
		})
		Convey("Should dig the FirePlayer hash out of the packed script", func() {
			page := `<html><script>eval(function(p,a,c,k,e,d){while(c--)if(k[c])p=p.replace(new RegExp('\\b'+c.toString(a)+'\\b','g'),k[c]);return p}('1("2", "3", 4);',10,5,'|FirePlayer|9436c43d396c2eb01c5d1e2f0b1e510d|video|false'.split('|'),0,{}))</script></html>`

			id, ok := loadxPlayerID(page)
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "9436c43d396c2eb01c5d1e2f0b1e510d")
		})
		Convey("Should report pages without a player script", func() {
			_, ok := loadxPlayerID("<html>static page</html>")
			So(ok, ShouldBeFalse)
		})
	})
}
