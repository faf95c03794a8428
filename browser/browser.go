// Package browser maintains the single shared headless-browser session used
// when a page only renders through JavaScript.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sdl-cli/sdl/key"
	"github.com/sdl-cli/sdl/log"
	"github.com/spf13/viper"
)

// ErrBrowser marks failures of the automation session.
var ErrBrowser = errors.New("browser automation failed")

// session bundles the running browser with its launcher so teardown can
// clean up both.
type session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	idle     *time.Timer
}

var (
	// mu serializes every bridge call: one browser session holds one page
	// context at a time.
	mu      sync.Mutex
	current *session
	broken  bool
)

// Evaluate loads rawURL in the shared session and returns the result of
// script, a JavaScript function expression evaluated on the loaded page.
// The session starts lazily on first use and is torn down again after the
// configured idle period.
func Evaluate(ctx context.Context, rawURL, script string) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	s, err := acquire()
	if err != nil {
		return "", err
	}
	s.idle.Stop()
	defer s.idle.Reset(idleTimeout())

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrBrowser, err)
	}
	defer page.Close()

	pageCtx, cancel := context.WithTimeout(ctx, pageTimeout())
	defer cancel()
	page = page.Context(pageCtx)

	if err = page.Navigate(rawURL); err != nil {
		return "", fmt.Errorf("%w: %s", ErrBrowser, err)
	}
	if err = page.WaitLoad(); err != nil {
		return "", fmt.Errorf("%w: %s", ErrBrowser, err)
	}

	result, err := page.Eval(script)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrBrowser, err)
	}
	return result.Value.Str(), nil
}

// PageHTML returns the rendered HTML of rawURL.
func PageHTML(ctx context.Context, rawURL string) (string, error) {
	return Evaluate(ctx, rawURL, "() => document.documentElement.outerHTML")
}

// Shutdown closes the shared session if one is running. Safe to call at any
// time, including when no session was ever started.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()

	if current == nil {
		return
	}
	current.idle.Stop()
	if err := current.browser.Close(); err != nil {
		log.Warnf("failed to close browser: %s", err)
	}
	current.launcher.Cleanup()
	current = nil
}

// Found reports the browser binary a session would use: the configured path
// or a system install. False means rod would provision its own build on
// first use.
func Found() (string, bool) {
	if path := viper.GetString(key.BrowserPath); path != "" {
		return path, true
	}
	return launcher.LookPath()
}

// acquire returns the running session, starting one when needed. A session
// that failed to start is not retried: later calls fail fast until the
// process restarts.
func acquire() (*session, error) {
	if broken {
		return nil, fmt.Errorf("%w: browser did not start", ErrBrowser)
	}
	if current != nil {
		return current, nil
	}

	l := launcher.New().Headless(viper.GetBool(key.BrowserHeadless)).Leakless(true)
	if bin, ok := Found(); ok {
		l = l.Bin(bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		broken = true
		log.Errorf("failed to launch browser: %s", err)
		return nil, fmt.Errorf("%w: %s", ErrBrowser, err)
	}

	b := rod.New().ControlURL(controlURL)
	if err = b.Connect(); err != nil {
		broken = true
		l.Cleanup()
		log.Errorf("failed to connect to browser: %s", err)
		return nil, fmt.Errorf("%w: %s", ErrBrowser, err)
	}

	current = &session{
		browser:  b,
		launcher: l,
		idle:     time.AfterFunc(idleTimeout(), Shutdown),
	}
	return current, nil
}

func pageTimeout() time.Duration {
	return time.Duration(viper.GetInt(key.BrowserPageTimeout)) * time.Second
}

func idleTimeout() time.Duration {
	return time.Duration(viper.GetInt(key.BrowserIdleTimeout)) * time.Second
}
