// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import "time"

// defaultConfig returns sensible defaults, applied before the config file and
// environment layers.
func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path: "./rekordbox.db",
		},
		Cache: CacheConfig{
			Path: defaultCacheDir(),
		},
		Extractor: ExtractorConfig{
			Timeout:      300 * time.Second,
			ProbeTimeout: 5 * time.Second,
		},
		Export: ExportConfig{
			OutputDir: "./rekordbox-exports",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
