// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"context"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/ryanv/reklawdbox-go/internal/audiodecoder"
	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/dsp"
	"github.com/ryanv/reklawdbox-go/internal/extractor"
)

const (
	batchAudioDefaultMax = 20
	batchAudioHardCap    = 200

	extractorSetupHint = "Essentia is not installed. Call setup_essentia to install it into a managed venv."
)

// AnalyzeTrackAudioParams is analyze_track_audio's parameter object.
type AnalyzeTrackAudioParams struct {
	TrackID    string `json:"track_id" validate:"required"`
	SkipCached *bool  `json:"skip_cached,omitempty"`
}

func (p AnalyzeTrackAudioParams) skipCached() bool {
	if p.SkipCached == nil {
		return true
	}
	return *p.SkipCached
}

// AnalyzeTrackAudioResult is analyze_track_audio's response
// (original_source/src/tools/audio_handlers.rs: "handle_analyze_track_audio").
type AnalyzeTrackAudioResult struct {
	TrackID            string                 `json:"track_id"`
	Title              string                 `json:"title"`
	Artist             string                 `json:"artist"`
	DSP                dsp.Result             `json:"dsp"`
	DSPCacheHit        bool                   `json:"dsp_cache_hit"`
	Extractor          *extractor.Ingredients `json:"extractor,omitempty"`
	ExtractorCacheHit  *bool                  `json:"extractor_cache_hit,omitempty"`
	ExtractorAvailable bool                   `json:"extractor_available"`
	ExtractorError     string                 `json:"extractor_error,omitempty"`
	ExtractorSetupHint string                 `json:"extractor_setup_hint,omitempty"`
}

// AnalyzeTrackAudio runs the DSP analyzer and, when the feature-extractor
// interpreter is available, the extractor bridge, caching both by
// (file path, analyzer).
func (s *Service) AnalyzeTrackAudio(ctx context.Context, p AnalyzeTrackAudioParams) (*AnalyzeTrackAudioResult, *ToolError) {
	track, ok, err := s.Catalog.GetByID(ctx, p.TrackID)
	if err != nil {
		return nil, FromError(err)
	}
	if !ok {
		return nil, newToolError(CategoryNotFound, "no track with id "+p.TrackID)
	}

	result, toolErr := s.analyzeTrackFile(ctx, track, p.skipCached())
	if toolErr != nil {
		return nil, toolErr
	}
	result.TrackID = track.ID
	result.Title = track.Title
	result.Artist = track.Artist
	return result, nil
}

func (s *Service) analyzeTrackFile(ctx context.Context, track catalog.Track, skipCached bool) (*AnalyzeTrackAudioResult, *ToolError) {
	info, err := os.Stat(track.Path)
	if err != nil {
		return nil, newToolError(CategoryFilesystem, err.Error())
	}
	size, mtime := info.Size(), info.ModTime()

	dspResult, dspHit, err := s.runDSPAnalysis(ctx, track.Path, size, mtime, skipCached)
	if err != nil {
		return nil, newToolError(CategoryDataIntegrity, err.Error())
	}

	result := &AnalyzeTrackAudioResult{DSP: dspResult, DSPCacheHit: dspHit}

	interpreter, probeErr := s.Prober.Resolve(ctx)
	result.ExtractorAvailable = probeErr == nil
	if !result.ExtractorAvailable {
		result.ExtractorSetupHint = extractorSetupHint
		return result, nil
	}

	ingredients, extHit, err := s.runExtractorAnalysis(ctx, track.Path, interpreter, size, mtime, skipCached)
	if err != nil {
		result.ExtractorError = err.Error()
		return result, nil
	}
	result.Extractor = &ingredients
	result.ExtractorCacheHit = &extHit
	return result, nil
}

func (s *Service) runDSPAnalysis(ctx context.Context, path string, size int64, mtime time.Time, skipCached bool) (dsp.Result, bool, error) {
	if skipCached {
		if rec, err := s.Cache.GetAnalysis(path, cachestore.AnalyzerDSP); err == nil && rec.Valid(size, mtime) {
			var cached dsp.Result
			if jsonErr := json.Unmarshal(rec.Payload, &cached); jsonErr == nil {
				return cached, true, nil
			}
		}
	}

	decoded, err := audiodecoder.Decode(ctx, path)
	if err != nil {
		return dsp.Result{}, false, err
	}

	result, err := (dsp.Builtin{}).Analyze(decoded.Samples, decoded.SampleRate)
	if err != nil {
		return dsp.Result{}, false, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return dsp.Result{}, false, err
	}
	if err := s.Cache.UpsertAnalysis(cachestore.AnalysisRecord{
		Path: path, Analyzer: cachestore.AnalyzerDSP, FileSize: size, FileModTime: mtime,
		Version: result.AnalyzerVersion, Payload: payload, CachedAt: time.Now().UTC(),
	}); err != nil {
		return dsp.Result{}, false, err
	}

	return result, false, nil
}

func (s *Service) runExtractorAnalysis(ctx context.Context, path, interpreter string, size int64, mtime time.Time, skipCached bool) (extractor.Ingredients, bool, error) {
	if skipCached {
		if rec, err := s.Cache.GetAnalysis(path, cachestore.AnalyzerExtractor); err == nil && rec.Valid(size, mtime) {
			var cached extractor.Ingredients
			if jsonErr := json.Unmarshal(rec.Payload, &cached); jsonErr == nil {
				return cached, true, nil
			}
		}
	}

	// Build against the freshly resolved interpreter rather than the
	// Service's fixed Bridge, so a setup_essentia install takes effect
	// immediately without requiring the process to restart with a new
	// Service (spec.md §4.7).
	ingredients, err := extractor.New(interpreter, s.Extractor.Timeout()).Run(ctx, path)
	if err != nil {
		return extractor.Ingredients{}, false, err
	}

	payload, err := json.Marshal(ingredients)
	if err != nil {
		return extractor.Ingredients{}, false, err
	}
	if err := s.Cache.UpsertAnalysis(cachestore.AnalysisRecord{
		Path: path, Analyzer: cachestore.AnalyzerExtractor, FileSize: size, FileModTime: mtime,
		Version: interpreter, Payload: payload, CachedAt: time.Now().UTC(),
	}); err != nil {
		return extractor.Ingredients{}, false, err
	}

	return ingredients, false, nil
}

// AnalyzeAudioBatchParams is analyze_audio_batch's parameter object.
type AnalyzeAudioBatchParams struct {
	SelectorParams
	SkipCached *bool `json:"skip_cached,omitempty"`
}

func (p AnalyzeAudioBatchParams) skipCached() bool {
	if p.SkipCached == nil {
		return true
	}
	return *p.SkipCached
}

// BatchAnalysisFailure records one track the batch could not analyze.
type BatchAnalysisFailure struct {
	TrackID string `json:"track_id"`
	Artist  string `json:"artist"`
	Title   string `json:"title"`
	Error   string `json:"error"`
}

// AnalyzeAudioBatchResult is analyze_audio_batch's response.
type AnalyzeAudioBatchResult struct {
	Total             int                     `json:"total"`
	Results           []AnalyzeTrackAudioResult `json:"results"`
	Failures          []BatchAnalysisFailure  `json:"failures,omitempty"`
	ExtractorAnalyzed int                     `json:"extractor_analyzed"`
	ExtractorCached   int                     `json:"extractor_cached"`
	ExtractorFailed   int                     `json:"extractor_failed"`
}

// AnalyzeAudioBatch analyzes audio for a selection of tracks, bounded by
// a smaller default/cap than other selections because each analysis
// shells out to ffmpeg and, optionally, a Python subprocess
// (original_source/src/tools/audio_handlers.rs: "handle_analyze_audio_batch").
func (s *Service) AnalyzeAudioBatch(ctx context.Context, p AnalyzeAudioBatchParams) (*AnalyzeAudioBatchResult, *ToolError) {
	policy := s.selectionPolicy(false)
	policy.DefaultMax = batchAudioDefaultMax
	policy.HardCap = batchAudioHardCap

	tracks, toolErr := resolveSelection(ctx, s.Catalog, policy, p.SelectorParams)
	if toolErr != nil {
		return nil, toolErr
	}

	out := &AnalyzeAudioBatchResult{Total: len(tracks)}
	skipCached := p.skipCached()

	for _, t := range tracks {
		result, toolErr := s.analyzeTrackFile(ctx, t, skipCached)
		if toolErr != nil {
			out.Failures = append(out.Failures, BatchAnalysisFailure{
				TrackID: t.ID, Artist: t.Artist, Title: t.Title, Error: toolErr.Message,
			})
			continue
		}
		result.TrackID, result.Title, result.Artist = t.ID, t.Title, t.Artist
		out.Results = append(out.Results, *result)

		switch {
		case result.ExtractorError != "":
			out.ExtractorFailed++
		case result.ExtractorCacheHit != nil && *result.ExtractorCacheHit:
			out.ExtractorCached++
		case result.ExtractorCacheHit != nil:
			out.ExtractorAnalyzed++
		}
	}

	return out, nil
}

// SetupEssentiaResult is setup_essentia's response.
type SetupEssentiaResult struct {
	Installed   bool   `json:"installed"`
	Interpreter string `json:"interpreter,omitempty"`
}

// SetupEssentia installs Essentia into the managed venv
// (original_source/src/tools/mod.rs: "setup_essentia").
func (s *Service) SetupEssentia(ctx context.Context) (*SetupEssentiaResult, *ToolError) {
	if err := s.Prober.Install(ctx); err != nil {
		return nil, newToolError(CategoryExternalPermanent, err.Error())
	}
	interpreter, err := s.Prober.Resolve(ctx)
	if err != nil {
		return nil, newToolError(CategoryDataIntegrity, err.Error())
	}
	return &SetupEssentiaResult{Installed: true, Interpreter: interpreter}, nil
}
