// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolsurface implements the External Interfaces tool dispatch
// (spec.md §6): one exported method per named operation, each taking a
// JSON-shaped parameter struct and returning a JSON-shaped response or a
// categorized *ToolError. It is the only package that knows about the
// request/response envelope conventions (cache metadata wrapping,
// corpus-provenance wrapping, error categories); everything below it
// (resolver, sequencing, scoring, changemgr, provider, libaudit) stays
// free of transport concerns.
//
// A Service bundles every collaborator the tool surface dispatches to.
// Construction is the caller's job (see cmd/reklawdbox); toolsurface only
// wires parameter validation, selection policy, and response shaping on
// top of already-built components.
package toolsurface
