// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and PAINEL_* environment variables.
// - Validation failures wrap ErrInvalidConfig; provider failures wrap ErrLoadConfig.
package config

// Defaults for the upstream API and the month labels.
const (
	DefaultUpstreamURL = "http://localhost:3000"
	DefaultCollection  = "empresas"
	DefaultMonthLocale = "pt-BR"
	DefaultMonthStyle  = "short-month-year"
	DefaultTimeZone    = "America/Sao_Paulo"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// UpstreamURL is the base address of the API whose root page lists the endpoints.
	UpstreamURL string `koanf:"upstream_url"`

	// UpstreamTimeoutMS bounds each upstream request; 0 disables the timeout.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// Collection is the upstream path holding the empresa records.
	Collection string `koanf:"collection"`

	// MonthLocale and MonthStyle drive the count-by-month labels.
	MonthLocale string `koanf:"month_locale"`
	MonthStyle  string `koanf:"month_style"`

	// TimeZone is the IANA zone used to place registration dates in a month.
	TimeZone string `koanf:"time_zone"`

	// GuardStaleOutput keeps results of overtaken actions out of the output area.
	GuardStaleOutput bool `koanf:"guard_stale_output"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8080",
		UpstreamURL:       DefaultUpstreamURL,
		UpstreamTimeoutMS: 0,
		Collection:        DefaultCollection,
		MonthLocale:       DefaultMonthLocale,
		MonthStyle:        DefaultMonthStyle,
		TimeZone:          DefaultTimeZone,
		GuardStaleOutput:  false,
	}
}
