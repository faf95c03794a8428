// Package ffmpeg locates a usable ffmpeg binary and drives it for remuxing
// finished stream downloads into an mp4 container. When no system binary is
// installed it can provision a static build into the application data
// directory, so remuxing works out of the box on the common platforms.
package ffmpeg

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/sdl-cli/sdl/constant"
	"github.com/sdl-cli/sdl/filesystem"
	"github.com/sdl-cli/sdl/key"
	"github.com/sdl-cli/sdl/log"
	"github.com/sdl-cli/sdl/network"
	"github.com/sdl-cli/sdl/where"
	"github.com/spf13/viper"
)

// staticBuildBase hosts prebuilt single-file ffmpeg binaries as gzipped
// release artifacts, one per platform and architecture.
const staticBuildBase = "https://github.com/eugeneware/ffmpeg-static/releases/latest/download"

// executableName returns the platform-specific name of the ffmpeg binary.
func executableName() string {
	if runtime.GOOS == constant.Windows {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

// cachedPath returns the location of a previously provisioned static build.
func cachedPath() string {
	return filepath.Join(where.Data(), executableName())
}

// Installed returns the path of an ffmpeg binary reachable without any
// network activity: the configured override, the system PATH, or a static
// build provisioned by an earlier run.
func Installed() (string, bool) {
	if custom := viper.GetString(key.FfmpegPath); custom != "" {
		return custom, true
	}

	if path, err := exec.LookPath(executableName()); err == nil {
		return path, true
	}

	cached := cachedPath()
	if exists, err := filesystem.API().Exists(cached); err == nil && exists {
		return cached, true
	}

	return "", false
}

// Find returns the path of a usable ffmpeg binary, provisioning a static
// build when none is installed and auto fetching is enabled.
func Find(ctx context.Context, session *network.Session) (string, error) {
	if path, ok := Installed(); ok {
		return path, nil
	}

	if !viper.GetBool(key.FfmpegAutoFetch) {
		return "", fmt.Errorf("ffmpeg is not installed, and %s is disabled", key.FfmpegAutoFetch)
	}

	return fetch(ctx, session)
}

// staticBuildURL resolves the release artifact for the current platform.
// The artifact naming follows node conventions, so windows is "win32" and
// amd64 is "x64".
func staticBuildURL() (string, error) {
	var platform string
	switch runtime.GOOS {
	case constant.Linux:
		platform = "linux"
	case constant.Windows:
		platform = "win32"
	case constant.Darwin:
		platform = "darwin"
	case "freebsd":
		platform = "freebsd"
	default:
		return "", fmt.Errorf("no static ffmpeg build for %s", runtime.GOOS)
	}

	var arch string
	switch runtime.GOARCH {
	case "amd64":
		arch = "x64"
	case "386":
		arch = "ia32"
	case "arm64", "arm":
		arch = "arm64"
	default:
		return "", fmt.Errorf("no static ffmpeg build for %s", runtime.GOARCH)
	}

	if !staticBuildAvailable(platform, arch) {
		return "", fmt.Errorf("no static ffmpeg build for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	return fmt.Sprintf("%s/ffmpeg-%s-%s.gz", staticBuildBase, platform, arch), nil
}

// staticBuildAvailable reports whether the release ships an artifact for the
// given platform and architecture pair.
func staticBuildAvailable(platform, arch string) bool {
	switch platform {
	case "linux":
		return true
	case "win32":
		return arch == "x64" || arch == "ia32"
	case "darwin":
		return arch == "x64" || arch == "arm64"
	case "freebsd":
		return arch == "x64"
	default:
		return false
	}
}

// fetch downloads the gzipped static build and unpacks it into the data
// directory as an executable. A partial file left by a failed unpack is
// removed so the next run starts clean.
func fetch(ctx context.Context, session *network.Session) (string, error) {
	url, err := staticBuildURL()
	if err != nil {
		return "", err
	}

	log.Infof("fetching static ffmpeg build from %s", url)

	resp, err := session.Do(ctx, network.Request{URL: url})
	if err != nil {
		return "", fmt.Errorf("failed to fetch ffmpeg build: %w", err)
	}
	defer resp.Body.Close()

	if err := network.EnsureSuccess(resp); err != nil {
		return "", fmt.Errorf("failed to fetch ffmpeg build: %w", err)
	}

	return unpack(resp.Body)
}

// unpack gunzips a static build archive into the data directory as an
// executable and returns its path.
func unpack(archive io.Reader) (string, error) {
	decoder, err := gzip.NewReader(archive)
	if err != nil {
		return "", fmt.Errorf("ffmpeg build is not a gzip archive: %w", err)
	}
	defer decoder.Close()

	path := cachedPath()
	file, err := filesystem.API().OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return "", fmt.Errorf("failed to create ffmpeg binary: %w", err)
	}

	if _, err := io.Copy(file, decoder); err != nil {
		_ = file.Close()
		_ = filesystem.API().Remove(path)
		return "", fmt.Errorf("failed to unpack ffmpeg build: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = filesystem.API().Remove(path)
		return "", fmt.Errorf("failed to finish ffmpeg binary: %w", err)
	}

	return path, nil
}

// Remux copies the media streams of input into an mp4 container at output
// without re-encoding. The input file is left in place; the caller decides
// whether to remove it once the remux succeeded.
func Remux(ctx context.Context, binary, input, output string) error {
	cmd := exec.CommandContext(ctx, binary, "-nostdin", "-i", input, "-c", "copy", output)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}
