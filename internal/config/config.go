// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads reklawdbox-go's configuration from environment
// variables (and an optional YAML file) using koanf, the way
// tomtom215/cartographus layers defaults -> file -> environment.
package config

import "time"

// Config holds every environment-driven setting named in spec.md §6.
type Config struct {
	Catalog   CatalogConfig   `koanf:"catalog"`
	Cache     CacheConfig     `koanf:"cache"`
	Extractor ExtractorConfig `koanf:"extractor"`
	Broker    BrokerConfig    `koanf:"broker"`
	Legacy    LegacyConfig    `koanf:"legacy"`
	ProviderA ProviderAConfig `koanf:"provider_a"`
	Export    ExportConfig    `koanf:"export"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// CatalogConfig points at the read-only track catalog.
type CatalogConfig struct {
	// Path is the catalog database location. Overridden by REKORDBOX_DB_PATH.
	Path string `koanf:"path"`
}

// CacheConfig points at the persistent cache store's data directory.
type CacheConfig struct {
	// Path is the Badger data directory. Overridden by CRATE_DIG_STORE_PATH.
	Path string `koanf:"path"`
}

// ExtractorConfig configures the out-of-process feature-extractor bridge.
type ExtractorConfig struct {
	// PythonPath overrides the interpreter used to run the extractor.
	// Overridden by CRATE_DIG_ESSENTIA_PYTHON.
	PythonPath string `koanf:"python_path"`
	// Timeout bounds a single extractor invocation. Spec default: 300s.
	Timeout time.Duration `koanf:"timeout"`
	// ProbeTimeout bounds the interpreter validation check. Spec default: 5s.
	ProbeTimeout time.Duration `koanf:"probe_timeout"`
}

// BrokerConfig configures the device-code session broker for the
// broker-authenticated provider.
type BrokerConfig struct {
	// BaseURL is the broker's base URL. Overridden by REKLAWDBOX_DISCOGS_BROKER_URL.
	BaseURL string `koanf:"base_url"`
	// Token is an optional static broker bearer token. Overridden by
	// REKLAWDBOX_DISCOGS_BROKER_TOKEN.
	Token string `koanf:"token"`
}

// LegacyConfig configures the OAuth-1 fallback credential set.
// All four must be present and non-empty for legacy auth to engage.
type LegacyConfig struct {
	Key         string `koanf:"key"`          // REKLAWDBOX_DISCOGS_KEY
	Secret      string `koanf:"secret"`       // REKLAWDBOX_DISCOGS_SECRET
	Token       string `koanf:"token"`        // REKLAWDBOX_DISCOGS_TOKEN
	TokenSecret string `koanf:"token_secret"` // REKLAWDBOX_DISCOGS_TOKEN_SECRET
}

// Enabled reports whether all four legacy credential fields are populated.
func (l LegacyConfig) Enabled() bool {
	return l.Key != "" && l.Secret != "" && l.Token != "" && l.TokenSecret != ""
}

// ProviderAConfig overrides the broker-authenticated provider's direct API base URL.
type ProviderAConfig struct {
	APIBaseURL string `koanf:"api_base_url"` // REKLAWDBOX_DISCOGS_API_BASE_URL
}

// ExportConfig configures the XML export's default output location.
type ExportConfig struct {
	OutputDir string `koanf:"output_dir"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
