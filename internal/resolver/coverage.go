// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolver

import (
	"math"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/provider"
)

// SourceCoverage is one analyzer's or provider's cache-hit tally across a
// filtered set (spec.md §4.11: "per-provider and per-analyzer 'cached'
// counts, 'percent' values").
type SourceCoverage struct {
	Cached  int     `json:"cached"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"` // one decimal
}

// Coverage is the coverage-variant summary for a filtered track set. It
// never materializes full Resolve output; it only checks cache presence.
type Coverage struct {
	Total           int            `json:"total"`
	DSP             SourceCoverage `json:"dsp"`
	Extractor       SourceCoverage `json:"extractor"`
	ProviderA       SourceCoverage `json:"provider_a"`
	ProviderB       SourceCoverage `json:"provider_b"`
	NoAudioAnalysis int            `json:"no_audio_analysis"`
	NoEnrichment    int            `json:"no_enrichment"`
	NoDataAtAll     int            `json:"no_data_at_all"`
}

// Coverage scans tracks, reporting cache-hit coverage without assembling
// full resolver records (spec.md §4.11 coverage variant).
func (r *Resolver) Coverage(tracks []catalog.Track) Coverage {
	cov := Coverage{Total: len(tracks)}
	cov.DSP.Total = len(tracks)
	cov.Extractor.Total = len(tracks)
	cov.ProviderA.Total = len(tracks)
	cov.ProviderB.Total = len(tracks)

	for _, t := range tracks {
		_, dspErr := r.cache.GetAnalysis(t.Path, cachestore.AnalyzerDSP)
		_, extErr := r.cache.GetAnalysis(t.Path, cachestore.AnalyzerExtractor)
		_, discogsErr := r.cache.GetEnrichment(provider.NameDiscogs, provider.Normalize(t.Artist), provider.Normalize(t.Title))
		_, beatportErr := r.cache.GetEnrichment(provider.NameBeatport, provider.Normalize(t.Artist), provider.Normalize(t.Title))

		hasDSP := dspErr == nil
		hasExtractor := extErr == nil
		hasDiscogs := discogsErr == nil
		hasBeatport := beatportErr == nil

		if hasDSP {
			cov.DSP.Cached++
		}
		if hasExtractor {
			cov.Extractor.Cached++
		}
		if hasDiscogs {
			cov.ProviderA.Cached++
		}
		if hasBeatport {
			cov.ProviderB.Cached++
		}

		hasAudio := hasDSP || hasExtractor
		hasEnrichment := hasDiscogs || hasBeatport
		if !hasAudio {
			cov.NoAudioAnalysis++
		}
		if !hasEnrichment {
			cov.NoEnrichment++
		}
		if !hasAudio && !hasEnrichment {
			cov.NoDataAtAll++
		}
	}

	cov.DSP.Percent = percent(cov.DSP.Cached, cov.DSP.Total)
	cov.Extractor.Percent = percent(cov.Extractor.Cached, cov.Extractor.Total)
	cov.ProviderA.Percent = percent(cov.ProviderA.Cached, cov.ProviderA.Total)
	cov.ProviderB.Percent = percent(cov.ProviderB.Cached, cov.ProviderB.Total)

	return cov
}

func percent(cached, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(cached)/float64(total)*1000) / 10
}
