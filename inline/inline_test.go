package inline

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/sdl-cli/sdl/extract"
	"github.com/sdl-cli/sdl/lang"
	"github.com/sdl-cli/sdl/site"
)

func demoEntry() *site.Entry {
	episodes := func(n int) []*site.Episode {
		eps := make([]*site.Episode, n)
		for i := range eps {
			eps[i] = &site.Episode{Index: i + 1}
		}
		return eps
	}

	entry := &site.Entry{
		URL:   "https://aniworld.to/anime/stream/demo-series",
		Title: "Demo Series",
		Seasons: []*site.Season{
			{Index: 0, Episodes: episodes(2)},
			{Index: 1, Episodes: episodes(3)},
		},
	}
	lo.Must0(entry.Relink())
	return entry
}

func TestFromEntry(t *testing.T) {
	Convey("Given an enumerated series", t, func() {
		output := fromEntry(demoEntry())

		Convey("The listing carries the series identity", func() {
			So(output.URL, ShouldEqual, "https://aniworld.to/anime/stream/demo-series")
			So(output.Site, ShouldEqual, "aniworld")
			So(output.Title, ShouldEqual, "Demo Series")
		})

		Convey("The movie listing keeps its special URL forms", func() {
			So(output.Seasons, ShouldHaveLength, 2)

			movies := output.Seasons[0]
			So(movies.Movies, ShouldBeTrue)
			So(movies.URL, ShouldEqual, "https://aniworld.to/anime/stream/demo-series/filme")
			So(movies.Episodes[1].URL, ShouldEqual, "https://aniworld.to/anime/stream/demo-series/filme/film-2")
		})

		Convey("Regular seasons use the staffel and episode forms", func() {
			season := output.Seasons[1]
			So(season.Movies, ShouldBeFalse)
			So(season.URL, ShouldEqual, "https://aniworld.to/anime/stream/demo-series/staffel-1")
			So(season.Episodes, ShouldHaveLength, 3)
			So(season.Episodes[2].URL, ShouldEqual, "https://aniworld.to/anime/stream/demo-series/staffel-1/episode-3")
		})

		Convey("The document survives a JSON round trip", func() {
			data := lo.Must(json.Marshal(output))

			var decoded Output
			So(json.Unmarshal(data, &decoded), ShouldBeNil)
			So(decoded.Title, ShouldEqual, "Demo Series")
			So(decoded.Seasons, ShouldHaveLength, 2)
			So(decoded.Seasons[1].Episodes[0].Index, ShouldEqual, 1)
		})
	})
}

func TestFromOptions(t *testing.T) {
	Convey("Given the options of an episode page", t, func() {
		variants := fromOptions([]site.Option{
			{
				Variant: lang.Variant{Kind: lang.Dub, Language: lang.German},
				Handles: []extract.Handle{
					{Label: "VOE", URL: "https://aniworld.to/redirect/1"},
					{Label: "Vidoza", URL: "https://aniworld.to/redirect/2"},
				},
			},
			{Variant: lang.Variant{Kind: lang.Raw}},
		})

		Convey("Dubbed variants carry label, type and language", func() {
			So(variants, ShouldHaveLength, 2)
			So(variants[0].Label, ShouldEqual, "GerDub")
			So(variants[0].Type, ShouldEqual, "Dub")
			So(variants[0].Language, ShouldEqual, "German")
		})

		Convey("Hosting options keep the page order", func() {
			So(variants[0].Hosters, ShouldHaveLength, 2)
			So(variants[0].Hosters[0].Name, ShouldEqual, "VOE")
			So(variants[0].Hosters[1].URL, ShouldEqual, "https://aniworld.to/redirect/2")
		})

		Convey("Raw variants carry no language", func() {
			So(variants[1].Label, ShouldEqual, "Raw")
			So(variants[1].Language, ShouldBeEmpty)
			So(variants[1].Hosters, ShouldBeEmpty)
		})
	})
}

func TestWriteText(t *testing.T) {
	Convey("Given a listing rendered as text", t, func() {
		output := fromEntry(demoEntry())
		output.Seasons[1].Episodes[0].Variants = []*Variant{
			{Label: "GerDub"}, {Label: "GerSub"},
		}

		var buf bytes.Buffer
		So(writeText(&buf, output), ShouldBeNil)
		text := buf.String()

		Convey("It names the series and counts each season", func() {
			So(text, ShouldContainSubstring, "Demo Series\n")
			So(text, ShouldContainSubstring, "Movies: 2\n")
			So(text, ShouldContainSubstring, "Season 1: 3\n")
		})

		Convey("Episode lines carry the page URL and known variants", func() {
			So(text, ShouldContainSubstring, "https://aniworld.to/anime/stream/demo-series/staffel-1/episode-1\t[GerDub GerSub]")
			So(text, ShouldContainSubstring, "https://aniworld.to/anime/stream/demo-series/filme/film-1")
		})
	})
}
