package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Fortune/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Fortune"
	AppID             = "com.github.tartampluch.go-fortune"
	KeyringService    = "com.github.tartampluch.go-fortune"
	KeyringUser       = "storage-key"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	DBFileName        = "fortune.db"
	SettingsFileName  = "settings.yaml"
	EnvFileName       = ".env"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs and the database.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdRoot    = "go-fortune"
	CmdOnboard = "onboard"
	CmdProfile = "profile"
	CmdShow    = "show"
	CmdExport  = "export [file]"
	CmdImport  = "import <file>"
	CmdFortune = "fortune"
	CmdClear   = "clear"
	CmdStatus  = "status"
	CmdServe   = "serve"
	CmdVersion = "version"

	FlagDebug     = "debug"
	FlagConfig    = "config"
	FlagEphemeral = "ephemeral"
	FlagDate      = "date"
	FlagTime      = "time"
	FlagLat       = "lat"
	FlagLon       = "lon"
	FlagTimezone  = "tz"
	FlagVCard     = "vcard"
	FlagForce     = "force"
	FlagPort      = "port"
	FlagVCardUser = "vcard-user"

	FlagDescDebug     = "Enable debug logging"
	FlagDescConfig    = "Path to the settings YAML file"
	FlagDescEphemeral = "Keep all state in memory (nothing is written to disk)"
	FlagDescDate      = "Birth date (YYYY-MM-DD)"
	FlagDescTime      = "Birth time (HH:MM, local); omit if unknown"
	FlagDescLat       = "Birth place latitude"
	FlagDescLon       = "Birth place longitude"
	FlagDescTimezone  = "Birth place timezone (IANA identifier)"
	FlagDescVCard     = "Read birth details from a vCard file or http(s) URL"
	FlagDescVCardUser = "Basic auth user for a vCard URL (password from " + EnvVCardPwd + ")"
	FlagDescForce     = "Bypass the daily cooldown"
	FlagDescPort      = "HTTP port for the fortune publisher"

	DescRoot    = "go-fortune - daily Chinese astrology fortune cookie"
	DescOnboard = "Create the astrological profile from birth details"
	DescProfile = "Inspect, export or import the astrological profile"
	DescShow    = "Print the stored profile"
	DescExport  = "Export the profile as JSON (stdout when no file is given)"
	DescImport  = "Replace the profile with an exported JSON document"
	DescFortune = "Open today's fortune cookie"
	DescClear   = "Discard the current fortune and reset the cooldown"
	DescStatus  = "Show the fortune state and time until the next cookie"
	DescServe   = "Publish the current fortune over HTTP (JSON and iCalendar)"
	DescVersion = "Show application version"

	MsgVersionOutput = "%s version %s (commit %s, built %s, %s/%s)\n"
)

// -----------------------------------------------------------------------------
// CLI Output
// -----------------------------------------------------------------------------

const (
	OutFortune       = "\n  %s  %s\n\n      - %s\n\n"
	OutFortuneExpiry = "Valid until %s\n"
	OutNickname      = "%s\n"
	OutZodiac        = "%s %s (%d)\n\n"
	OutPillar        = "  %-6s %s%s  %s\n"
	OutEssence       = "\n%s\n"
	OutStatusLine    = "%-14s %s\n"
	OutImported      = "Profile of %s imported\n"
	OutExported      = "Profile exported to %s\n"
	OutCleared       = "Fortune cleared\n"
	OutCooldown      = "Next fortune cookie in %s\n"
	OutServing       = "Publishing on http://%s:%s%s and %s\n"

	LabelState    = "State"
	LabelNext     = "Next cookie"
	LabelLast     = "Last opened"
	LabelYear     = "Year"
	LabelMonth    = "Month"
	LabelDay      = "Day"
	LabelHour     = "Hour"
	TimeLayoutOut = "2006-01-02 15:04 MST"
)

// -----------------------------------------------------------------------------
// Persistence Keys
// -----------------------------------------------------------------------------

const (
	StoreKeyCurrentFortune = "current_fortune"
	StoreKeyProfile        = "profile"
	StoreKeyAppState       = "app_state"
)

// -----------------------------------------------------------------------------
// Environment Variables
// -----------------------------------------------------------------------------

const (
	EnvAPIKey   = "FORTUNE_API_KEY"
	EnvBaseURL  = "FORTUNE_BASE_URL"
	EnvModel    = "FORTUNE_MODEL"
	EnvLanguage = "FORTUNE_LANGUAGE"
	EnvDBPath   = "FORTUNE_DB_PATH"
	EnvEncrypt  = "FORTUNE_ENCRYPT"
	EnvPort     = "FORTUNE_PORT"
	EnvTimeout  = "FORTUNE_TIMEOUT"
	EnvVCardPwd = "FORTUNE_VCARD_PASSWORD"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort        = "18081"
	DefaultLanguage    = "en"
	DefaultModel       = "gpt-4o-mini"
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultTextTimeout = 10 * time.Second
	DefaultRefreshTick = 1 * time.Minute

	// Daily reset happens at 08:00 local time; expiration at 08:00 UTC the next day.
	DailyResetHour      = 8
	DailyResetSchedule  = "0 8 * * *"
	ConnectivityExpiry  = 5 * time.Minute
	MaxFortuneLength    = 200
	MaxPreviousFortunes = 5
	DefaultTimezone     = "UTC"

	ProfileExportVersion = 1

	// Text generation budgets.
	NicknameMaxTokens     = 20
	NicknameTemperature   = 0.9
	DescriptionMaxTokens  = 400
	DescriptionTemp       = 0.8
	EssenceMaxTokens      = 200
	EssenceTemperature    = 0.8
	FortuneMaxTokens      = 120
	FortuneTemperature    = 0.9
	EssenceLineCount      = 3
	PillarCount           = 4
	NicknameWordCount     = 2
	StorageKeySize        = 32
	ConnectivityIdeogram  = "📶"
	ConnectivitySignature = "Tech Support Oracle"
)

// SupportedLanguages defines the list of available message catalogues (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (i18n)
// -----------------------------------------------------------------------------

const (
	TKeyAvailableNow  = "countdown.available_now"
	TKeyConnectivity  = "fortune.connectivity"
	TKeyFallbackPref  = "fortune.fallback."
	TKeyDescYear      = "pillar.fallback.year"
	TKeyDescMonth     = "pillar.fallback.month"
	TKeyDescDay       = "pillar.fallback.day"
	TKeyDescHour      = "pillar.fallback.hour"
	TKeyEssenceLine1  = "essence.fallback.line1"
	TKeyEssenceLine2  = "essence.fallback.line2"
	TKeyEssenceLine3  = "essence.fallback.line3"
	TKeyAnimalPref    = "animal."
	TKeyElementPref   = "element."
	TKeyStateNone     = "state.no_fortune"
	TKeyStateActive   = "state.fortune_active"
	TKeyStateExpired  = "state.fortune_expired"
	TKeyStateOffline  = "state.connectivity_error_shown"
	TKeyEvtSummary    = "feed.summary"
	TKeyEvtReset      = "feed.reset"
	TKeyEvtResetDesc  = "feed.reset_description"
	FallbackFortunes  = 8
	LocaleDirName     = "locales"
	LocaleFilePrefix  = "active."
	LocaleFileSuffix  = ".json"
	MsgLocaleBadName  = "Locale file has no language code"
	MsgLocaleFallback = "Unsupported language, using default"
)

// -----------------------------------------------------------------------------
// Data Formats & Layouts
// -----------------------------------------------------------------------------

const (
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatBasicT    = "20060102T150405"
	DateFormatBasicTZ   = "20060102T150405Z"
	FormatCountdown     = "%dh %dm"
	FormatTimeOfDay     = "%02d:%02d"

	// vCard fields used during onboarding.
	VCardBDAY = "BDAY"
	VCardGEO  = "GEO"
	VCardTZ   = "TZ"
	GeoPrefix = "geo:"

	// iCalendar feed.
	ICalVersion     = "2.0"
	ICalProdid      = "-//Go Fortune//Engine//EN"
	ICalCalName     = "Fortune Cookie"
	ICalMethod      = "PUBLISH"
	ICalScale       = "GREGORIAN"
	ICalDomain      = "gofortune"
	FormatUID       = "%s@%s"
	FormatResetUID  = "reset-%s@%s"
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDescription = "DESCRIPTION"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropCategories  = "CATEGORIES"

	DefaultICalRefresh = 1 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object used when no fortune is available.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	MaxHTTPResponseSize = 1 << 20
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"

	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	AllowedMethods     = "GET, HEAD"
	RouteFortune       = "/fortune"
	RouteFortuneICS    = "/fortune.ics"
	AddrSeparator      = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderUserAgent       = "User-Agent"

	MimeJSON            = "application/json; charset=utf-8"
	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidDate      = "invalid date"
	ErrInvalidLatitude  = "latitude must be within [-90, 90]"
	ErrInvalidLongitude = "longitude must be within [-180, 180]"
	ErrInvalidTimezone  = "unknown timezone identifier"
	ErrZodiacStep       = "failed to calculate zodiac, check birth date"
	ErrPillarsStep      = "failed to calculate four pillars, check birth date and time"
	ErrNoProfile        = "no astrological profile available"
	ErrCooldownActive   = "a fortune was already opened today; next cookie after the 8am reset"
	ErrFortuneStorage   = "failed to persist fortune"
	ErrFortuneCache     = "failed to persist fortune state"
	ErrProfileInvalid   = "profile failed validation"
	ErrProfileDecode    = "failed to decode profile"
	ErrProfileEncode    = "failed to encode profile"
	ErrProfileVersion   = "unsupported profile export version"
	ErrProfileMissing   = "no profile stored; run onboard first"
	ErrVCardParse       = "failed to parse vCard"
	ErrVCardNoBirthday  = "vCard has no usable BDAY"
	ErrVCardGeo         = "vCard GEO is malformed"
	ErrVCardSource      = "vCard source is empty"
	ErrInvalidURL       = "invalid URL"
	ErrProtocol         = "unsupported protocol scheme"
	ErrFetchStatus      = "server returned unexpected status"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrStatusEncode     = "failed to encode fortune status"
	ErrStoreOpen        = "failed to open store"
	ErrStoreSave        = "failed to save value"
	ErrStoreLoad        = "failed to load value"
	ErrStoreRemove      = "failed to remove value"
	ErrStoreKey         = "failed to obtain storage key"
	ErrEncrypt          = "failed to encrypt value"
	ErrDecrypt          = "failed to decrypt value"
	ErrSettingsLoad     = "failed to load settings"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrBirthInput       = "either --date or --vcard is required"
	ErrReadFile         = "failed to read file"
	ErrWriteFile        = "failed to write file"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Fortune initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting      = "Starting application"
	MsgLogWarning       = "Warning: %s at %s: %v\n"
	MsgProfileCreated   = "Astrological profile created"
	MsgProfileStep      = "Profile step used fallback content"
	MsgManagerInit      = "Fortune manager initialized"
	MsgManagerReset     = "Fortune state reset after storage failure"
	MsgFortuneExpired   = "Cached fortune expired, discarding"
	MsgFortuneGenerated = "Fortune generated"
	MsgFortuneOffline   = "Text generation failed, returning connectivity fortune"
	MsgFortuneFallback  = "No API key configured, using local fortune"
	MsgFortuneCleared   = "Fortune cleared"
	MsgForceRestore     = "Forced refresh failed, previous state restored"
	MsgRemoveFailed     = "Failed to remove expired fortune"
	MsgRestoreFailed    = "Failed to restore stored fortune"
	MsgTextRequest      = "Requesting text generation"
	MsgTextDone         = "Text generation finished"
	MsgTextFailed       = "Text generation failed"
	MsgServerListen     = "HTTP server listening"
	MsgServerStop       = "Shutting down HTTP server..."
	MsgCacheUpdated     = "Fortune cache updated"
	MsgLocaleSkip       = "Skipping non-locale file"
	MsgLocaleLoaded     = "Locale loaded successfully"
	MsgTransMissing     = "Missing translation key"
	MsgKeyCreated       = "Storage key created in keyring"
	MsgVCardFetch       = "Downloading vCard"
	MsgVCardStatus      = "vCard server returned error status"
	MsgVCardTZ          = "vCard TZ is not an IANA identifier, using UTC"
	MsgVCardSkipped     = "Skipping unreadable vCard"
	MsgPublishFailed    = "Failed to render fortune publication"
	MsgCtxCancel        = "Context cancelled, stopping"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyStep      = "step"
	LogKeyKey       = "key"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyPort      = "port"
	LogKeySource    = "source"
	LogKeyFortuneID = "fortune_id"
	LogKeyExpiresAt = "expires_at"
	LogKeyAnimal    = "animal"
	LogKeyElement   = "element"
	LogKeyYear      = "year"
	LogKeyModel     = "model"
	LogKeyKind      = "kind"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"
	LogKeyState     = "state"
	LogKeyURL       = "url"
	LogKeyStatus    = "status"
	LogKeyValue     = "value"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain    = "main"
	CompProfile = "profile"
	CompFortune = "fortune"
	CompOracle  = "oracle"
	CompStore   = "store"
	CompServer  = "server"
	CompI18n    = "i18n"
)
