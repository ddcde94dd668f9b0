// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultTitleMatchesArtistHandlesPunctuation(t *testing.T) {
	assert.True(t, resultTitleMatchesArtist("A$AP Rocky - Praise The Lord", "A$AP Rocky"))
}

func TestResultTitleMatchesArtistAllowsShortArtistNames(t *testing.T) {
	assert.True(t, resultTitleMatchesArtist("Random Result", "DJ"))
}

func TestOAuthEscapeKeepsUnreservedCharacters(t *testing.T) {
	assert.Equal(t, "consumer%20key", oauthEscape("consumer key"))
	assert.Equal(t, "secret%2Fpart%26token%3Fsecret", oauthEscape("secret/part&token?secret"))
	assert.Equal(t, "token-value_1.0~x", oauthEscape("token-value_1.0~x"))
}

func TestAuthorizationHeaderNeverLeaksSecretsIntoQueryURL(t *testing.T) {
	c := &LegacyClient{creds: LegacyCredentials{
		Key: "consumer key", Secret: "secret/part", Token: "token value", TokenSecret: "token?secret",
	}}

	header := c.authorizationHeader()
	assert.True(t, strings.HasPrefix(header, "OAuth "))
	assert.Contains(t, header, `oauth_consumer_key="consumer%20key"`)
	assert.Contains(t, header, `oauth_signature="secret%2Fpart%26token%3Fsecret"`)
	assert.Contains(t, header, `oauth_token="token%20value"`)
	assert.Contains(t, header, `oauth_signature_method="PLAINTEXT"`)
	assert.NotContains(t, header, "token?secret")
}

func TestLegacyCredentialsEnabledRequiresAllFour(t *testing.T) {
	assert.True(t, LegacyCredentials{Key: "k", Secret: "s", Token: "t", TokenSecret: "ts"}.Enabled())
	assert.False(t, LegacyCredentials{Key: "k", Secret: "", Token: "t", TokenSecret: "ts"}.Enabled())
}
