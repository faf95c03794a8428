package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/sdl-cli/sdl/color"
	"github.com/sdl-cli/sdl/constant"
	"github.com/sdl-cli/sdl/key"
	"github.com/sdl-cli/sdl/style"
	"github.com/spf13/viper"
)

// Field is one registered setting: its key, default and help text.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty renders the field for the config info listing.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable overriding this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Sdl + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON emits the field together with its current value.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default indexes every registered field by key.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

// register adds a field to the registry. Keys must be unique; a duplicate
// is a programming error caught at startup.
func register(k string, v any, desc string) {
	if _, exists := Default[k]; exists {
		panic("config: duplicate key " + k)
	}
	Default[k] = Field{Key: k, Value: v, Description: desc}
	EnvExposed = append(EnvExposed, k)
}

func init() {
	register(key.DownloadsPath, "", "Directory to save downloads to.\nEmpty means the current working directory")
	register(key.DownloadsSkipExisting, true, "Skip episodes whose output file already exists instead of downloading them again")
	register(key.DownloadsConcurrency, 5, "How many episodes to download at the same time.\n0 means no limit")
	register(key.DownloadsRateLimit, 0, "Limit download speed in bytes per second, shared by all downloads.\n0 means unlimited")
	register(key.DownloadsRetries, 5, "How often to retry a failed request before giving up.\n0 means retry forever")
	register(key.DownloadsSegmentWorkers, 4, "How many stream segments to fetch in parallel per episode")
	register(key.DownloadsRemux, true, "Remux finished stream downloads into an mp4 container with ffmpeg")
	register(key.ThrottleRequests, 0, "Pause after every N network requests to avoid protection bans.\n0 disables the pause")
	register(key.ThrottleWait, 60, "Seconds to pause when the request threshold is reached")
	register(key.NetworkConnectTimeout, 20, "Seconds to wait for a connection to be established")
	register(key.NetworkStreamTimeout, 60, "Seconds a streaming response may stall before it is aborted")
	register(key.NetworkProxy, "", "Proxy URL to route requests through.\nEmpty means direct connection")
	register(key.BrowserPath, "", "Path to a Chrome/Chromium binary for JavaScript-gated pages.\nEmpty means auto-detect")
	register(key.BrowserHeadless, true, "Run the browser without a visible window")
	register(key.BrowserPageTimeout, 30, "Seconds to wait for a browser page to finish loading")
	register(key.BrowserIdleTimeout, 120, "Seconds of inactivity before the browser is shut down")
	register(key.ExtractorsPriority, []string{"*"}, "Hosting providers to try, in order.\n\"*\" stands for all remaining providers.\nType \"sdl extractors\" to show available providers")
	register(key.CacheSeriesTTL, 30, "Minutes to keep enumerated season/episode listings cached")
	register(key.FfmpegPath, "", "Path to the ffmpeg binary.\nEmpty means look it up on PATH")
	register(key.FfmpegAutoFetch, true, "Download a static ffmpeg build when none is installed")
	register(key.HistorySaveOnDownload, true, "Save history on episode download")
	register(key.RecentSuggest, true, "Suggest recently used series URLs when prompting")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
