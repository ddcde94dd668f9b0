// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAndComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})

	Component("resolver").Info().Str("track_id", "abc").Msg("resolved")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"component":"resolver"`)
	assert.Contains(t, out, `"track_id":"abc"`)
}

func TestParseLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "disabled", "bogus"} {
		assert.NotPanics(t, func() { parseLevel(level) })
	}
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)
	logger.Info().Msg("hello")
	assert.True(t, strings.Contains(buf.String(), "hello"))
}
