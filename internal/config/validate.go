// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import "fmt"

// Validate checks that the loaded configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path must not be empty")
	}
	if c.Cache.Path == "" {
		return fmt.Errorf("cache.path must not be empty")
	}
	if c.Extractor.Timeout <= 0 {
		return fmt.Errorf("extractor.timeout must be positive")
	}
	if c.Extractor.ProbeTimeout <= 0 {
		return fmt.Errorf("extractor.probe_timeout must be positive")
	}

	legacySet := []bool{c.Legacy.Key != "", c.Legacy.Secret != "", c.Legacy.Token != "", c.Legacy.TokenSecret != ""}
	anySet, allSet := false, true
	for _, set := range legacySet {
		if set {
			anySet = true
		} else {
			allSet = false
		}
	}
	if anySet && !allSet {
		return fmt.Errorf("legacy credentials must be all-or-nothing: key, secret, token, token_secret")
	}

	return nil
}
