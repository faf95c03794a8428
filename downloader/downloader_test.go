package downloader

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/sdl-cli/sdl/filesystem"
	"github.com/sdl-cli/sdl/lang"
	"github.com/sdl-cli/sdl/rangeset"
	"github.com/sdl-cli/sdl/site"
	"github.com/spf13/afero"
	. "github.com/smartystreets/goconvey/convey"
)

const demoSeries = "https://aniworld.to/anime/stream/demo-series"

// demoEntry lists two movies, a short first season and a longer second one.
func demoEntry() *site.Entry {
	entry := &site.Entry{
		URL:   demoSeries,
		Title: "Demo Series",
		Seasons: []*site.Season{
			{Index: 0, Episodes: demoEpisodes(2)},
			{Index: 1, Episodes: demoEpisodes(3)},
			{Index: 2, Episodes: demoEpisodes(12)},
		},
	}
	if err := entry.Relink(); err != nil {
		panic(err)
	}
	return entry
}

func demoEpisodes(n int) []*site.Episode {
	episodes := make([]*site.Episode, n)
	for i := range episodes {
		episodes[i] = &site.Episode{Index: i + 1}
	}
	return episodes
}

func parseRef(rawURL string) *site.Ref {
	ref, err := site.ParseURL(rawURL)
	if err != nil {
		panic(err)
	}
	return ref
}

func parseSet(expr string) mo.Option[rangeset.Set] {
	set, err := rangeset.Parse(expr)
	if err != nil {
		panic(err)
	}
	return mo.Some(set)
}

func TestSelection(t *testing.T) {
	Convey("selection", t, func() {
		entry := demoEntry()

		Convey("Should take everything, movies included, for a bare series URL", func() {
			picked, err := selection(entry, Request{Ref: parseRef(demoSeries)})
			So(err, ShouldBeNil)
			So(len(picked), ShouldEqual, 2+3+12)
		})

		Convey("Should take one whole season for a season URL", func() {
			picked, err := selection(entry, Request{Ref: parseRef(demoSeries + "/staffel-2")})
			So(err, ShouldBeNil)
			So(len(picked), ShouldEqual, 12)
			for _, ep := range picked {
				So(ep.Season.Index, ShouldEqual, 2)
			}
		})

		Convey("Should take a single episode for an episode URL", func() {
			picked, err := selection(entry, Request{Ref: parseRef(demoSeries + "/staffel-2/episode-5")})
			So(err, ShouldBeNil)
			So(len(picked), ShouldEqual, 1)
			So(picked[0].Season.Index, ShouldEqual, 2)
			So(picked[0].Index, ShouldEqual, 5)
		})

		Convey("Should report a season the series does not have", func() {
			_, err := selection(entry, Request{Ref: parseRef(demoSeries + "/staffel-9")})
			So(errors.Is(err, site.ErrSeasonNotFound), ShouldBeTrue)
		})

		Convey("Should report an episode the season does not have", func() {
			_, err := selection(entry, Request{Ref: parseRef(demoSeries + "/staffel-1/episode-9")})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "episode 9")
		})

		Convey("Should apply an episode set to season one by default", func() {
			picked, err := selection(entry, Request{
				Ref:      parseRef(demoSeries),
				Episodes: parseSet("2-3"),
			})
			So(err, ShouldBeNil)
			So(len(picked), ShouldEqual, 2)
			So(picked[0].Season.Index, ShouldEqual, 1)
			So(picked[0].Index, ShouldEqual, 2)
			So(picked[1].Index, ShouldEqual, 3)
		})

		Convey("Should apply an episode set to the season the URL names", func() {
			picked, err := selection(entry, Request{
				Ref:      parseRef(demoSeries + "/staffel-2"),
				Episodes: parseSet("10-12"),
			})
			So(err, ShouldBeNil)
			So(len(picked), ShouldEqual, 3)
			for _, ep := range picked {
				So(ep.Season.Index, ShouldEqual, 2)
			}
		})

		Convey("Should pick movies through an episode set on the film listing", func() {
			picked, err := selection(entry, Request{
				Ref:      parseRef(demoSeries + "/filme"),
				Episodes: parseSet("2"),
			})
			So(err, ShouldBeNil)
			So(len(picked), ShouldEqual, 1)
			So(picked[0].Season.Movies(), ShouldBeTrue)
			So(picked[0].Index, ShouldEqual, 2)
		})

		Convey("Should expand a season set to whole seasons, movies excluded", func() {
			picked, err := selection(entry, Request{
				Ref:     parseRef(demoSeries),
				Seasons: parseSet("1-2"),
			})
			So(err, ShouldBeNil)
			So(len(picked), ShouldEqual, 3+12)
			for _, ep := range picked {
				So(ep.Season.Index, ShouldBeGreaterThan, 0)
			}
		})

		Convey("Should refuse a season set matching nothing", func() {
			_, err := selection(entry, Request{
				Ref:     parseRef(demoSeries),
				Seasons: parseSet("5-9"),
			})
			So(errors.Is(err, ErrNothingSelected), ShouldBeTrue)
		})

		Convey("Should refuse an episode set matching nothing", func() {
			_, err := selection(entry, Request{
				Ref:      parseRef(demoSeries),
				Episodes: parseSet("9"),
			})
			So(errors.Is(err, ErrNothingSelected), ShouldBeTrue)
		})
	})
}

func TestEpisodeNaming(t *testing.T) {
	Convey("Episode names", t, func() {
		entry := demoEntry()
		gerDub := lang.Variant{Kind: lang.Dub, Language: lang.German}

		Convey("Should pad the episode to the widest index of its season", func() {
			ep := entry.Seasons[2].Episodes[4]
			So(episodeStem(ep, gerDub), ShouldEqual, "Demo Series - S02E05 - GerDub")
		})

		Convey("Should widen the padding for long seasons", func() {
			long := &site.Entry{
				URL:     demoSeries,
				Title:   "Demo Series",
				Seasons: []*site.Season{{Index: 1, Episodes: demoEpisodes(120)}},
			}
			So(long.Relink(), ShouldBeNil)

			ep := long.Seasons[0].Episodes[6]
			So(episodeStem(ep, gerDub), ShouldEqual, "Demo Series - S01E007 - GerDub")
		})

		Convey("Should name movies through season zero", func() {
			ep := entry.Seasons[0].Episodes[1]
			variant := lang.Variant{Kind: lang.Sub, Language: lang.English}
			So(episodeStem(ep, variant), ShouldEqual, "Demo Series - S00E2 - EngSub")
		})

		Convey("Should drop a series title that sanitizes away", func() {
			entry.Title = "???"
			ep := entry.Seasons[1].Episodes[0]
			So(episodeStem(ep, lang.Variant{Kind: lang.Raw}), ShouldEqual, "S01E1 - Raw")
		})
	})
}

func TestTimestampStem(t *testing.T) {
	Convey("Direct download names", t, func() {
		defer filesystem.SetOsFs()
		filesystem.SetMemMapFs()

		Convey("Should stamp the wall clock with millisecond precision", func() {
			stem := timestampStem("dl")
			_, err := time.Parse(timestampLayout, stem)
			So(err, ShouldBeNil)
		})

		Convey("Should step over names taken by either extension", func() {
			So(collisionFree("dl", "2024-05-01_10-00-00.000"), ShouldEqual, "2024-05-01_10-00-00.000")

			So(afero.WriteFile(filesystem.API(), "dl/2024-05-01_10-00-00.000.mp4", []byte("x"), 0o644), ShouldBeNil)
			So(collisionFree("dl", "2024-05-01_10-00-00.000"), ShouldEqual, "2024-05-01_10-00-00.000-1")

			So(afero.WriteFile(filesystem.API(), "dl/2024-05-01_10-00-00.000-1.ts", []byte("x"), 0o644), ShouldBeNil)
			So(collisionFree("dl", "2024-05-01_10-00-00.000"), ShouldEqual, "2024-05-01_10-00-00.000-2")
		})
	})
}

func TestRunPool(t *testing.T) {
	Convey("runPool", t, func() {
		makeTasks := func(n int) []*task {
			tasks := make([]*task, n)
			for i := range tasks {
				tasks[i] = newTask(i, nil, "task", nil)
			}
			return tasks
		}

		Convey("Should run every task while honoring the admission bound", func() {
			var running, peak, worked atomic.Int32
			runPool(context.Background(), makeTasks(9), 3, func(*task) {
				now := running.Add(1)
				for {
					seen := peak.Load()
					if now <= seen || peak.CompareAndSwap(seen, now) {
						break
					}
				}
				worked.Add(1)
				running.Add(-1)
			})
			So(worked.Load(), ShouldEqual, 9)
			So(peak.Load(), ShouldBeLessThanOrEqualTo, 3)
		})

		Convey("Should admit everything at once with a zero bound", func() {
			var worked atomic.Int32
			runPool(context.Background(), makeTasks(6), 0, func(*task) {
				worked.Add(1)
			})
			So(worked.Load(), ShouldEqual, 6)
		})

		Convey("Should stop admitting once cancelled, waiting out running work", func() {
			ctx, cancel := context.WithCancel(context.Background())
			release := make(chan struct{})
			done := make(chan struct{})
			var worked atomic.Int32

			go func() {
				runPool(ctx, makeTasks(4), 1, func(*task) {
					worked.Add(1)
					cancel()
					<-release
				})
				close(done)
			}()

			<-ctx.Done()
			close(release)
			<-done
			So(worked.Load(), ShouldEqual, 1)
		})
	})
}
