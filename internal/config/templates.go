package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# optrack configuration

[import]
# Account label attached to imported trades (overridable with --account)
default_account = ""
# Force a broker format instead of header auto-detection: "tastytrade" or "robinhood"
default_broker = ""
# Timezone applied to date-only timestamps in exports
timezone = "America/New_York"

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to console
console = true
# Log to rotated file under the config directory
file = true
max_size_mb = 50
max_backups = 5
max_age_days = 30

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "2006-01-02"
`

// writeTemplate writes a commented config.toml template if none exists.
func writeTemplate(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}
