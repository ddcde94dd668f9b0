// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads reklawdbox-go's configuration via koanf, layering
// built-in defaults, an optional YAML file, and the environment variables
// named verbatim in spec.md §6 (REKORDBOX_DB_PATH, CRATE_DIG_STORE_PATH,
// CRATE_DIG_ESSENTIA_PYTHON, the REKLAWDBOX_DISCOGS_* broker/legacy
// credentials, and REKLAWDBOX_DISCOGS_API_BASE_URL).
package config
