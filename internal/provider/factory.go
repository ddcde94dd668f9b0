// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"net/http"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/config"
)

// NewDiscogsClientFromConfig wires a DiscogsClient from loaded
// configuration: a broker client when cfg.Broker.BaseURL is set, a legacy
// OAuth-1 client when cfg.Legacy is fully populated, or neither (every
// lookup then returns AuthRequiredError).
func NewDiscogsClientFromConfig(cfg *config.Config, httpClient *http.Client, store *cachestore.Store) *DiscogsClient {
	var broker *BrokerClient
	if cfg.Broker.BaseURL != "" {
		broker = NewBrokerClient(httpClient, cfg.Broker.BaseURL, cfg.Broker.Token, store)
	}

	var legacy *LegacyClient
	legacyCreds := LegacyCredentials{
		Key:         cfg.Legacy.Key,
		Secret:      cfg.Legacy.Secret,
		Token:       cfg.Legacy.Token,
		TokenSecret: cfg.Legacy.TokenSecret,
	}
	if legacyCreds.Enabled() {
		legacy = NewLegacyClient(httpClient, legacyCreds, cfg.ProviderA.APIBaseURL)
	}

	return NewDiscogsClient(broker, legacy)
}
