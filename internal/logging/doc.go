// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides a single zerolog-based logger shared by every
// package in reklawdbox-go, plus a correlation-ID context helper so that one
// incoming tool-dispatch request can be traced across the scoring engine,
// the sequencing engine, the resolver, and the audit scanner.
package logging
