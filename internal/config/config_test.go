// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Catalog.Path)
	assert.NotEmpty(t, cfg.Cache.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REKORDBOX_DB_PATH", "/tmp/custom-catalog.db")
	t.Setenv("CRATE_DIG_STORE_PATH", "/tmp/custom-cache")
	t.Setenv("REKLAWDBOX_DISCOGS_BROKER_URL", "https://broker.example/api")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-catalog.db", cfg.Catalog.Path)
	assert.Equal(t, "/tmp/custom-cache", cfg.Cache.Path)
	assert.Equal(t, "https://broker.example/api", cfg.Broker.BaseURL)
}

func TestLegacyConfigEnabled(t *testing.T) {
	l := LegacyConfig{Key: "k", Secret: "s", Token: "t", TokenSecret: "ts"}
	assert.True(t, l.Enabled())

	l.TokenSecret = ""
	assert.False(t, l.Enabled())
}

func TestValidateRejectsPartialLegacyCreds(t *testing.T) {
	cfg := defaultConfig()
	cfg.Legacy.Key = "only-key"
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestEnvTransformFuncUnmappedKeyIgnored(t *testing.T) {
	assert.Equal(t, "", envTransformFunc("SOME_UNRELATED_VAR"))
	assert.Equal(t, "catalog.path", envTransformFunc("REKORDBOX_DB_PATH"))
}
