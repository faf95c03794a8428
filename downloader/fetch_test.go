package downloader

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sdl-cli/sdl/filesystem"
	"github.com/sdl-cli/sdl/key"
	"github.com/sdl-cli/sdl/lang"
	"github.com/sdl-cli/sdl/media"
	"github.com/sdl-cli/sdl/network"
	"github.com/sdl-cli/sdl/output"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	. "github.com/smartystreets/goconvey/convey"
)

func testSession() *network.Session {
	session, err := network.New(network.Options{})
	if err != nil {
		panic(err)
	}
	return session
}

// truncated writes a response that promises more bytes than it delivers,
// then drops the connection.
func truncated(w http.ResponseWriter, declared int, payload string) {
	conn, buf, err := w.(http.Hijacker).Hijack()
	if err != nil {
		panic(err)
	}
	defer conn.Close()
	fmt.Fprintf(buf, "HTTP/1.1 200 OK\r\nContent-Length: %d\r\n\r\n%s", declared, payload)
	buf.Flush()
}

func TestFetchDirect(t *testing.T) {
	Convey("fetchDirect", t, func() {
		defer filesystem.SetOsFs()
		filesystem.SetMemMapFs()

		restore := retryBaseDelay
		retryBaseDelay = time.Millisecond
		defer func() { retryBaseDelay = restore }()

		ctx := context.Background()

		Convey("Should commit a fresh download and settle the totals", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("direct payload"))
			}))
			defer server.Close()

			r := &runner{session: testSession(), retries: 1, dir: "dl"}
			job := newTask(0, nil, "demo", nil)

			path, err := r.fetchDirect(ctx, job, "dl/demo.mp4", media.Descriptor{URL: server.URL + "/file.mp4"})
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "dl/demo.mp4")

			content, err := afero.ReadFile(filesystem.API(), "dl/demo.mp4")
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "direct payload")
			So(output.Exists("dl/demo.mp4.part"), ShouldBeFalse)

			snap := job.snapshot()
			So(snap.Done, ShouldEqual, int64(len("direct payload")))
			So(snap.Total, ShouldEqual, int64(len("direct payload")))
		})

		Convey("Should resume from the persisted offset after a truncated response", func() {
			var ranges []string
			mux := http.NewServeMux()
			mux.HandleFunc("/file.mp4", func(w http.ResponseWriter, r *http.Request) {
				if rng := r.Header.Get("Range"); rng != "" {
					ranges = append(ranges, rng)
					w.Header().Set("Content-Range", "bytes 6-11/12")
					w.WriteHeader(http.StatusPartialContent)
					w.Write([]byte("second"))
					return
				}
				truncated(w, 12, "first ")
			})
			server := httptest.NewServer(mux)
			defer server.Close()

			r := &runner{session: testSession(), retries: 2, dir: "dl"}
			job := newTask(0, nil, "demo", nil)

			path, err := r.fetchDirect(ctx, job, "dl/demo.mp4", media.Descriptor{URL: server.URL + "/file.mp4"})
			So(err, ShouldBeNil)
			So(ranges, ShouldResemble, []string{"bytes=6-"})

			content, err := afero.ReadFile(filesystem.API(), path)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "first second")

			snap := job.snapshot()
			So(snap.Done, ShouldEqual, int64(12))
			So(snap.Total, ShouldEqual, int64(12))
			So(snap.Attempt, ShouldEqual, 1)
		})

		Convey("Should start over when the server ignores the range request", func() {
			attempts := 0
			rangeSeen := ""
			mux := http.NewServeMux()
			mux.HandleFunc("/file.mp4", func(w http.ResponseWriter, r *http.Request) {
				attempts++
				if attempts == 1 {
					truncated(w, 18, "stale half")
					return
				}
				rangeSeen = r.Header.Get("Range")
				w.Write([]byte("fresh full payload"))
			})
			server := httptest.NewServer(mux)
			defer server.Close()

			r := &runner{session: testSession(), retries: 2, dir: "dl"}
			job := newTask(0, nil, "demo", nil)

			path, err := r.fetchDirect(ctx, job, "dl/demo.mp4", media.Descriptor{URL: server.URL + "/file.mp4"})
			So(err, ShouldBeNil)
			So(rangeSeen, ShouldEqual, "bytes=10-")

			content, err := afero.ReadFile(filesystem.API(), path)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "fresh full payload")

			snap := job.snapshot()
			So(snap.Done, ShouldEqual, int64(18))
			So(snap.Total, ShouldEqual, int64(18))
		})

		Convey("Should leave no part file behind on failure", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			r := &runner{session: testSession(), retries: 1, dir: "dl"}
			job := newTask(0, nil, "demo", nil)

			_, err := r.fetchDirect(ctx, job, "dl/demo.mp4", media.Descriptor{URL: server.URL + "/file.mp4"})
			So(err, ShouldNotBeNil)
			So(output.Exists("dl/demo.mp4"), ShouldBeFalse)
			So(output.Exists("dl/demo.mp4.part"), ShouldBeFalse)
		})
	})
}

const streamPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:4
#EXTINF:4.0,
seg-1.ts
#EXTINF:4.0,
seg-2.ts
#EXT-X-ENDLIST
`

func TestFetchStream(t *testing.T) {
	Convey("fetchStream", t, func() {
		defer filesystem.SetOsFs()
		filesystem.SetMemMapFs()

		ctx := context.Background()

		Convey("Should assemble the stream into a committed transport stream file", func() {
			mux := http.NewServeMux()
			mux.HandleFunc("/media.m3u8", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(streamPlaylist))
			})
			mux.HandleFunc("/seg-1.ts", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("one"))
			})
			mux.HandleFunc("/seg-2.ts", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("two"))
			})
			server := httptest.NewServer(mux)
			defer server.Close()

			r := &runner{session: testSession(), retries: 1, workers: 2, dir: "dl"}
			job := newTask(0, nil, "demo", nil)
			desc := media.Descriptor{Kind: media.HLS, URL: server.URL + "/media.m3u8"}

			path, err := r.fetchStream(ctx, job, "demo", desc)
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "dl/demo.ts")

			content, err := afero.ReadFile(filesystem.API(), path)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "onetwo")
			So(output.Exists("dl/demo.ts.part"), ShouldBeFalse)

			snap := job.snapshot()
			So(snap.Done, ShouldEqual, int64(len("onetwo")))
			So(snap.Total, ShouldEqual, snap.Done)
		})
	})
}

func TestSkipExisting(t *testing.T) {
	Convey("Skip existing downloads", t, func() {
		defer filesystem.SetOsFs()
		filesystem.SetMemMapFs()

		ctx := context.Background()
		gerDub := lang.Variant{Kind: lang.Dub, Language: lang.German}

		Convey("Should skip an episode whose file is already there, without any fetch", func() {
			entry := demoEntry()
			ep := entry.Seasons[1].Episodes[1]
			So(afero.WriteFile(filesystem.API(), "dl/Demo Series - S01E2 - GerDub.mp4", []byte("x"), 0o644), ShouldBeNil)

			var states []State
			r := &runner{variant: gerDub, dir: "dl", skip: true}
			job := newTask(0, ep, baseName(ep), func(s Snapshot) { states = append(states, s.State) })

			job.run()
			r.episode(ctx, job)

			snap := job.snapshot()
			So(snap.State, ShouldEqual, Skipped)
			So(snap.Note, ShouldContainSubstring, "already downloaded")
			So(snap.Name, ShouldEqual, "Demo Series - S01E2 - GerDub")
			So(states[0], ShouldEqual, Pending)
			So(states[len(states)-1], ShouldEqual, Skipped)
		})

		Convey("Should also skip when only the raw transport stream is there", func() {
			entry := demoEntry()
			ep := entry.Seasons[1].Episodes[1]
			So(afero.WriteFile(filesystem.API(), "dl/Demo Series - S01E2 - GerDub.ts", []byte("x"), 0o644), ShouldBeNil)

			r := &runner{variant: gerDub, dir: "dl", skip: true}
			job := newTask(0, ep, baseName(ep), nil)

			job.run()
			r.episode(ctx, job)
			So(job.snapshot().State, ShouldEqual, Skipped)
		})
	})
}

func TestRunDirect(t *testing.T) {
	Convey("RunDirect", t, func() {
		defer filesystem.SetOsFs()
		filesystem.SetMemMapFs()
		viper.Set(key.DownloadsRetries, 1)

		ctx := context.Background()

		Convey("Should download a recognized direct URL under a timestamp name", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("direct payload"))
			}))
			defer server.Close()

			result, err := RunDirect(ctx, DirectRequest{URL: server.URL + "/video.mp4", Dir: "dl"}, Options{
				Session: testSession(),
			})
			So(err, ShouldBeNil)
			So(len(result.Tasks), ShouldEqual, 1)

			snap := result.Tasks[0]
			So(snap.State, ShouldEqual, Succeeded)
			_, err = time.Parse(timestampLayout, snap.Name)
			So(err, ShouldBeNil)
			So(snap.Path, ShouldEqual, "dl/"+snap.Name+".mp4")

			content, err := afero.ReadFile(filesystem.API(), snap.Path)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "direct payload")
		})

		Convey("Should fail on a URL no extractor recognizes", func() {
			result, err := RunDirect(ctx, DirectRequest{URL: "https://example.com/page.html", Dir: "dl"}, Options{
				Session: testSession(),
			})
			So(err, ShouldNotBeNil)
			So(result.Tasks[0].State, ShouldEqual, Failed)
		})
	})
}
