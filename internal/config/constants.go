package config

// AppName is used for the config directory and the environment variable prefix.
const AppName = "ticketwatch"

// Environment variables
const (
	EnvConfigPath   = "TICKETWATCH_CONFIG_PATH"
	EnvSMTPPassword = "TICKETWATCH_SMTP_PASSWORD"
)

const (
	// Target Defaults
	DefaultTargetURL       = "https://www.entertix.ro/evenimente?s=rapid+"
	DefaultTargetSiteName  = "Entertix.ro"
	DefaultTargetEventName = "Rapid vs Cluj"

	// Monitor Defaults
	DefaultCheckIntervalSeconds    = 300
	DefaultReminderIntervalSeconds = 300
	DefaultAlertBurstSize          = 12

	// HTTP Defaults
	DefaultHTTPTimeoutSeconds = 10
	DefaultHTTPUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultHTTPMaxRedirects   = 10
	DefaultHTTPMaxBodyBytes   = 0 // no limit

	// Email Defaults
	DefaultSMTPHost           = "smtp.gmail.com"
	DefaultSMTPPort           = 587
	DefaultSMTPTimeoutSeconds = 30

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// maxConfigFileSize caps the config file read
	maxConfigFileSize = 1 * 1024 * 1024
)

// DefaultTargetKeywords are matched against the lowercased page body; all must be present.
var DefaultTargetKeywords = []string{"rapid", "cluj"}
