package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/painel/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.UpstreamURL, convey.ShouldEqual, "http://localhost:3000")
				convey.So(cfg.Collection, convey.ShouldEqual, "empresas")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PAINEL_ADDR", ":9090")
			_ = os.Setenv("PAINEL_UPSTREAM_URL", "http://api.local:4000")
			_ = os.Setenv("PAINEL_UPSTREAM_TIMEOUT_MS", "2500")
			_ = os.Setenv("PAINEL_MONTH_LOCALE", "en-US")
			_ = os.Setenv("PAINEL_GUARD_STALE_OUTPUT", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.UpstreamURL, convey.ShouldEqual, "http://api.local:4000")
				convey.So(cfg.UpstreamTimeout(), convey.ShouldEqual, 2500*time.Millisecond)
				convey.So(cfg.MonthLocale, convey.ShouldEqual, "en-US")
				convey.So(cfg.GuardStaleOutput, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":7070"
upstream_url: "http://10.0.0.5:3000"
collection: "companies"
month_style: "numeric-month-year"
time_zone: "UTC"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PAINEL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.UpstreamURL, convey.ShouldEqual, "http://10.0.0.5:3000")
				convey.So(cfg.Collection, convey.ShouldEqual, "companies")
				convey.So(cfg.MonthStyle, convey.ShouldEqual, "numeric-month-year")
				convey.So(cfg.TimeZone, convey.ShouldEqual, "UTC")
				convey.So(cfg.MonthLocale, convey.ShouldEqual, "pt-BR") // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":7070"
collection: "companies"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PAINEL_CONFIG", tmpFile)
			_ = os.Setenv("PAINEL_ADDR", ":6060")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")          // Overridden by env
				convey.So(cfg.Collection, convey.ShouldEqual, "companies") // From file
			})
		})

		convey.Convey("When loading an explicit file path", func() {
			tmpFile := createTempConfigFile(`log_level: "debug"`)
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.LoadFile(ctx, tmpFile)

			convey.Convey("Then the file should be used without PAINEL_CONFIG", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PAINEL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PAINEL_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PAINEL_UPSTREAM_TIMEOUT_MS", "soon")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		cases := []struct {
			name   string
			key    string
			value  string
			substr string
		}{
			{"empty addr", "PAINEL_ADDR", "", "addr must not be empty"},
			{"relative upstream", "PAINEL_UPSTREAM_URL", "/api", "upstream_url"},
			{"non-http upstream", "PAINEL_UPSTREAM_URL", "ftp://host", "upstream_url"},
			{"negative timeout", "PAINEL_UPSTREAM_TIMEOUT_MS", "-1", "upstream_timeout_ms"},
			{"empty collection", "PAINEL_COLLECTION", " ", "collection"},
			{"unknown zone", "PAINEL_TIME_ZONE", "Mars/Olympus", "time_zone"},
			{"unsupported locale", "PAINEL_MONTH_LOCALE", "ja-JP", "locale"},
			{"unknown style", "PAINEL_MONTH_STYLE", "roman", "style"},
		}

		for _, tc := range cases {
			convey.Convey("When the config has "+tc.name, func() {
				_ = os.Setenv(tc.key, tc.value)
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then it should return a validation error", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.substr)
					convey.So(cfg, convey.ShouldBeNil)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PAINEL_CONFIG",
		"PAINEL_ADDR",
		"PAINEL_LOG_LEVEL",
		"PAINEL_UPSTREAM_URL",
		"PAINEL_UPSTREAM_TIMEOUT_MS",
		"PAINEL_COLLECTION",
		"PAINEL_MONTH_LOCALE",
		"PAINEL_MONTH_STYLE",
		"PAINEL_TIME_ZONE",
		"PAINEL_GUARD_STALE_OUTPUT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "painel-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
