// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/changemgr"
	"github.com/ryanv/reklawdbox-go/internal/extractor"
	"github.com/ryanv/reklawdbox-go/internal/libaudit"
	"github.com/ryanv/reklawdbox-go/internal/provider"
	"github.com/ryanv/reklawdbox-go/internal/resolver"
	"github.com/ryanv/reklawdbox-go/internal/selector"
)

// Service bundles every collaborator a tool method dispatches to. It owns
// no lifecycle of its own: the caller (cmd/reklawdbox) opens and closes
// the catalog reader and cache store around it.
type Service struct {
	Catalog   *catalog.Reader
	Cache     *cachestore.Store
	Changes   *changemgr.Store
	Discogs   *provider.DiscogsClient
	Beatport  *provider.BeatportClient
	Extractor *extractor.Bridge
	Prober    *extractor.Prober
	Resolver  *resolver.Resolver
	Scanner   *libaudit.Scanner

	// DefaultMaxSelection is the selection policy's default maximum
	// when the caller supplies neither explicit identifiers nor a
	// max_tracks value (spec.md §4.12).
	DefaultMaxSelection int
	// HardCapSelection clamps every selection regardless of caller
	// input. Zero means unbounded.
	HardCapSelection int
}

// New builds a Service from already-constructed collaborators.
func New(catalogReader *catalog.Reader, cache *cachestore.Store, changes *changemgr.Store,
	discogs *provider.DiscogsClient, beatport *provider.BeatportClient,
	extractorBridge *extractor.Bridge, prober *extractor.Prober) *Service {
	return &Service{
		Catalog:             catalogReader,
		Cache:               cache,
		Changes:             changes,
		Discogs:             discogs,
		Beatport:            beatport,
		Extractor:           extractorBridge,
		Prober:              prober,
		Resolver:            resolver.New(catalogReader, cache, changes, prober),
		Scanner:             libaudit.NewScanner(cache),
		DefaultMaxSelection: 200,
		HardCapSelection:    2000,
	}
}

func (s *Service) selectionPolicy(excludeSamples bool) selector.Policy {
	return selector.Policy{
		DefaultMax:     s.DefaultMaxSelection,
		HardCap:        s.HardCapSelection,
		ExcludeSamples: excludeSamples,
	}
}
