// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 28

// Download Pipeline - these keys govern concurrency, pacing and persistence of media downloads.
const (
	DownloadsPath           = "downloads.path"
	DownloadsSkipExisting   = "downloads.skip_existing"
	DownloadsConcurrency    = "downloads.concurrency"
	DownloadsRateLimit      = "downloads.rate_limit"
	DownloadsRetries        = "downloads.retries"
	DownloadsSegmentWorkers = "downloads.segment_workers"
	DownloadsRemux          = "downloads.remux"
)

// Anti-Throttle Policy - these keys configure the shared request pacing that protects site origins.
const (
	ThrottleRequests = "throttle.requests"
	ThrottleWait     = "throttle.wait"
)

// Network Transport - these keys tune the shared HTTP session used for every request of a run.
const (
	NetworkConnectTimeout = "network.connect_timeout"
	NetworkStreamTimeout  = "network.stream_timeout"
	NetworkProxy          = "network.proxy"
)

// Browser Automation - these keys manage the headless-browser session used for JavaScript-gated pages.
const (
	BrowserPath        = "browser.path"
	BrowserHeadless    = "browser.headless"
	BrowserPageTimeout = "browser.page_timeout"
	BrowserIdleTimeout = "browser.idle_timeout"
)

// Extractor Dispatch - these keys select and order the hosting-provider resolvers.
const (
	ExtractorsPriority = "extractors.priority"
)

// Series Cache - these keys control reuse of enumerated season/episode trees between runs.
const (
	CacheSeriesTTL = "cache.series_ttl"
)

// Media Muxing - these keys locate or provision the external remuxing tool.
const (
	FfmpegPath      = "ffmpeg.path"
	FfmpegAutoFetch = "ffmpeg.auto_fetch"
)

// History Tracking - these keys configure the persistence of completed downloads.
const (
	HistorySaveOnDownload = "history.save_on_download"
)

// Recent Entries - these keys define the UI/UX parameters for series URL suggestions.
const (
	RecentSuggest = "recent.suggest"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
