// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardKeyToCamelot(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Am", "8A"},
		{"C", "8B"},
		{"F#m", "11A"},
		{"Bb", "6B"},
		{"Dbm", "12A"},
	}
	for _, c := range cases {
		got, ok := StandardKeyToCamelot(c.name)
		require.True(t, ok, c.name)
		assert.Equal(t, c.want, got.String(), c.name)
	}
}

func TestStandardKeyToCamelotUnknown(t *testing.T) {
	_, ok := StandardKeyToCamelot("H")
	assert.False(t, ok)
}

func TestParseCamelotRoundTrip(t *testing.T) {
	for n := 1; n <= 12; n++ {
		for _, letter := range []byte{'A', 'B'} {
			c := Camelot{Number: n, Letter: letter}
			parsed, ok := ParseCamelot(c.String())
			require.True(t, ok)
			assert.Equal(t, c, parsed)
		}
	}
}

func TestParseCamelotCaseFold(t *testing.T) {
	c, ok := ParseCamelot("8a")
	require.True(t, ok)
	assert.Equal(t, Camelot{8, 'A'}, c)
}

func TestParseCamelotInvalid(t *testing.T) {
	for _, s := range []string{"", "0A", "13A", "8C", "A"} {
		_, ok := ParseCamelot(s)
		assert.False(t, ok, s)
	}
}

func TestParseKeyAcceptsBothForms(t *testing.T) {
	c1, ok := ParseKey("8A")
	require.True(t, ok)
	c2, ok := ParseKey("Am")
	require.True(t, ok)
	assert.Equal(t, c1, c2)
}
