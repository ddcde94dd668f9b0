// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import "context"

// DiscogsClient is the Discogs provider facade: it uses legacy OAuth-1
// credentials when they are configured and the device-code broker
// otherwise (spec.md §4.8.1, §4.8.2).
type DiscogsClient struct {
	broker *BrokerClient // nil when no broker base URL is configured
	legacy *LegacyClient // nil when legacy credentials are incomplete
}

// NewDiscogsClient wires whichever backends are configured. Both may be
// nil-safe: a DiscogsClient with neither configured always returns
// AuthRequiredError.
func NewDiscogsClient(broker *BrokerClient, legacy *LegacyClient) *DiscogsClient {
	return &DiscogsClient{broker: broker, legacy: legacy}
}

// Lookup uses the legacy client whenever legacy credentials are
// configured, and the broker only when they are not. A failing backend is
// never retried through the other one.
func (c *DiscogsClient) Lookup(ctx context.Context, artist, title, album string) (*DiscogsResult, error) {
	if c.legacy != nil {
		return c.legacy.Lookup(ctx, artist, title, album)
	}
	if c.broker != nil {
		return c.broker.Lookup(ctx, artist, title, album)
	}
	return nil, newAuthRequired(
		"Discogs auth is not configured. Set the broker base URL to use device-code auth (recommended), or provide legacy OAuth-1 credentials.",
	)
}
