// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config-file search below.
const ConfigPathEnvVar = "REKLAWDBOX_CONFIG_PATH"

// DefaultConfigPaths lists the YAML config files searched, in priority order.
var DefaultConfigPaths = []string{
	"reklawdbox.yaml",
	"reklawdbox.yml",
	"/etc/reklawdbox/config.yaml",
}

// Load builds a Config by layering defaults, an optional YAML file, and the
// spec-mandated environment variables (verbatim names, per spec.md §6), the
// way tomtom215/cartographus layers defaults -> file -> env with koanf.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps the exact, verbatim environment variable names named in
// spec.md §6 to their koanf config path. Unlike a generic prefix scheme,
// these names predate this config layout and do not follow section.field
// shape, so each is listed explicitly.
var envMappings = map[string]string{
	"rekordbox_db_path":                  "catalog.path",
	"crate_dig_store_path":               "cache.path",
	"crate_dig_essentia_python":          "extractor.python_path",
	"reklawdbox_discogs_broker_url":      "broker.base_url",
	"reklawdbox_discogs_broker_token":    "broker.token",
	"reklawdbox_discogs_key":             "legacy.key",
	"reklawdbox_discogs_secret":          "legacy.secret",
	"reklawdbox_discogs_token":           "legacy.token",
	"reklawdbox_discogs_token_secret":    "legacy.token_secret",
	"reklawdbox_discogs_api_base_url":    "provider_a.api_base_url",
	"log_level":                          "logging.level",
	"log_format":                         "logging.format",
}

// envTransformFunc maps a spec-mandated environment variable name to its
// koanf config path, or "" to leave the key unmapped (and thus ignored).
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}

// defaultCacheDir returns the platform-conventional data directory for the
// cache store, honoring CRATE_DIG_STORE_PATH via the env layer above this
// default.
func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "./reklawdbox-cache"
	}
	return filepath.Join(dir, "reklawdbox", "store")
}
