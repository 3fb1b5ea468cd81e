package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# tradevision configuration

[trading]
# Default ledger the CLI operates on: "real" or "theoretical".
default_mode = "real"
# Daily trade-count limits used by dashboards. 0 disables the limit.
long_trade_limit = 0.0
short_trade_limit = 0.0

[scoring]
# Score delta for MISS THE ENTRY / ENTRY MISS trades: -10, -5 or 0.
entry_miss_penalty = -5

[data]
# dir = "~/.config/tradevision/data"

[ui]
color_enabled = true
date_format = "02 Jan 2006"
time_format = "15:04:05"

[logging]
level = "info"
console = true
file = true
max_size = 100
max_backups = 7
max_age = 30
`

// writeTemplate writes a commented template config so a first run
// leaves something editable behind.
func writeTemplate(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil // never overwrite an existing config
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}
