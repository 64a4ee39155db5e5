package fixture

import "os"

// ShowHelp prints usage information for the mock API.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Painel mock API
===============

Serves a generated list of companies in the shape the dashboard expects.

Usage:
  go run ./cmd/mock-api [options]

Options:
  -addr string
        Listen address (default ":3000")
  -empresas int
        Number of companies to generate (default 200)
  -months int
        Spread registration dates over this many months (default 12)
  -latency duration
        Delay added to every JSON response (default 0)
  -workers int
        Number of generator workers (default CPU cores)
  -log-level string
        Log level (default "info")
  -help
        Show this help message

Examples:
  # Serve on the dashboard's default upstream address
  go run ./cmd/mock-api

  # Slow upstream, to watch the loading text
  go run ./cmd/mock-api -latency 2s
`)
}
