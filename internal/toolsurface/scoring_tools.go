// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"context"
	"sort"

	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/extractor"
	"github.com/ryanv/reklawdbox-go/internal/resolver"
	"github.com/ryanv/reklawdbox-go/internal/scoring"
	"github.com/ryanv/reklawdbox-go/internal/sequencing"
	"github.com/ryanv/reklawdbox-go/internal/taxonomy"
)

// profileFromRecord fuses a resolver.Record's catalog row, staged overlay,
// and cached analyses into the Scoring Engine's pure input shape. Neither
// resolver nor scoring knows about the other, so this bridge lives at the
// tool-dispatch layer that already depends on both.
func profileFromRecord(rec *resolver.Record) scoring.Profile {
	track := rec.Track

	genre := track.Genre
	if rec.Overlay != nil && rec.Overlay.Genre != nil {
		genre = *rec.Overlay.Genre
	}
	canonicalGenre := taxonomy.Canonicalize(genre)
	family := ""
	if fam, ok := taxonomy.FamilyOf(canonicalGenre); ok {
		family = string(fam)
	}

	tempo := track.Tempo
	keyStr := track.Key
	if rec.Audio.DSP != nil {
		if rec.Audio.DSP.Tempo > 0 {
			tempo = rec.Audio.DSP.Tempo
		}
		if rec.Audio.DSP.KeyCamelot != "" {
			keyStr = rec.Audio.DSP.KeyCamelot
		}
	}

	profile := scoring.Profile{
		TrackID:     track.ID,
		Tempo:       tempo,
		Genre:       canonicalGenre,
		GenreFamily: family,
	}
	if camelot, ok := scoring.ParseKey(keyStr); ok {
		profile.Key = camelot
		profile.HasKey = true
	}

	profile.Energy = sequencing.EnergyScalar(tempo, extractorIngredients(rec.Audio.Extractor))

	if rec.Audio.Extractor != nil {
		profile.HasCentroid = true
		profile.Centroid = rec.Audio.Extractor.SpectralCentroid
		profile.HasRegularity = true
		profile.Regularity = rec.Audio.Extractor.RhythmRegularity
		profile.HasLoudnessRange = true
		profile.LoudnessRange = rec.Audio.Extractor.LoudnessRange
	}

	return profile
}

func extractorIngredients(ing *extractor.Ingredients) sequencing.ExtractorIngredients {
	if ing == nil {
		return sequencing.ExtractorIngredients{}
	}
	return sequencing.ExtractorIngredients{
		Danceability: ing.Danceability, HasDanceability: true,
		IntegratedLoudness: ing.IntegratedLoudness, HasLoudness: true,
		OnsetRate: ing.OnsetRate, HasOnsetRate: true,
	}
}

func poolEntryFromRecord(rec *resolver.Record) sequencing.PoolEntry {
	return sequencing.PoolEntry{Track: rec.Track, Profile: profileFromRecord(rec)}
}

// ScoreTransitionParams is score_transition's parameter object.
type ScoreTransitionParams struct {
	FromTrackID      string            `json:"from_track_id" validate:"required"`
	ToTrackID        string            `json:"to_track_id" validate:"required"`
	Priority         scoring.Priority  `json:"priority,omitempty" validate:"omitempty,oneof=balanced harmonic energy genre"`
	Phase            scoring.Phase     `json:"phase,omitempty" validate:"omitempty,oneof=warmup build peak release"`
	CrossedBoundary  bool              `json:"crossed_loudness_boundary,omitempty"`
}

func (p ScoreTransitionParams) priority() scoring.Priority {
	if p.Priority == "" {
		return scoring.PriorityBalanced
	}
	return p.Priority
}

// ScoreTransition scores a single transition between two tracks across
// all six axes (original_source/src/tools/mod.rs: "score_transition").
func (s *Service) ScoreTransition(ctx context.Context, p ScoreTransitionParams) (*scoring.Composite, *ToolError) {
	fromRec, err := s.Resolver.Resolve(ctx, p.FromTrackID)
	if err != nil {
		return nil, FromError(err)
	}
	toRec, err := s.Resolver.Resolve(ctx, p.ToTrackID)
	if err != nil {
		return nil, FromError(err)
	}

	composite := scoring.Score(profileFromRecord(fromRec), profileFromRecord(toRec), p.priority(), p.Phase, p.CrossedBoundary)
	return &composite, nil
}

// QueryTransitionCandidatesParams is query_transition_candidates'
// parameter object.
type QueryTransitionCandidatesParams struct {
	FromTrackID string           `json:"from_track_id" validate:"required"`
	Pool        SelectorParams   `json:"pool"`
	Priority    scoring.Priority `json:"priority,omitempty" validate:"omitempty,oneof=balanced harmonic energy genre"`
	FromPhase   scoring.Phase    `json:"from_phase,omitempty" validate:"omitempty,oneof=warmup build peak release"`
	Phase       scoring.Phase    `json:"phase,omitempty" validate:"omitempty,oneof=warmup build peak release"`
	TargetBPM   *float64         `json:"target_bpm,omitempty" validate:"omitempty,gt=0"`
	Limit       int              `json:"limit,omitempty" validate:"omitempty,min=1"`
}

// CandidateScore is one ranked pool track with its transition score from
// the reference track.
type CandidateScore struct {
	Track     catalog.Track     `json:"track"`
	Composite scoring.Composite `json:"composite"`
}

// QueryTransitionCandidatesResult is query_transition_candidates'
// response.
type QueryTransitionCandidatesResult struct {
	Candidates []CandidateScore `json:"candidates"`
}

const defaultCandidateLimit = 20

// QueryTransitionCandidates ranks pool tracks as transition candidates
// from a reference track. When target_bpm is set, ranking additionally
// favors candidates whose tempo sits close to the target, for
// trajectory-aware scoring toward a BPM goal rather than pure similarity
// to the reference track.
func (s *Service) QueryTransitionCandidates(ctx context.Context, p QueryTransitionCandidatesParams) (*QueryTransitionCandidatesResult, *ToolError) {
	fromRec, err := s.Resolver.Resolve(ctx, p.FromTrackID)
	if err != nil {
		return nil, FromError(err)
	}
	fromProfile := profileFromRecord(fromRec)

	pool, toolErr := resolveSelection(ctx, s.Catalog, s.selectionPolicy(true), p.Pool)
	if toolErr != nil {
		return nil, toolErr
	}

	priority := p.Priority
	if priority == "" {
		priority = scoring.PriorityBalanced
	}

	records := s.Resolver.ResolveBatch(ctx, trackIDsOf(pool))
	crossedBoundary := p.FromPhase != scoring.PhaseNone && p.Phase != scoring.PhaseNone && p.FromPhase != p.Phase

	scored := make([]CandidateScore, 0, len(records))
	for _, br := range records {
		if br.Err != nil || br.Record == nil || br.TrackID == p.FromTrackID {
			continue
		}
		candidate := profileFromRecord(br.Record)
		composite := scoring.Score(fromProfile, candidate, priority, p.Phase, crossedBoundary)
		if p.TargetBPM != nil {
			composite.Score = 0.7*composite.Score + 0.3*bpmTargetAlignment(candidate.Tempo, *p.TargetBPM)
		}
		scored = append(scored, CandidateScore{Track: br.Record.Track, Composite: composite})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Composite.Score != scored[j].Composite.Score {
			return scored[i].Composite.Score > scored[j].Composite.Score
		}
		return scored[i].Track.ID < scored[j].Track.ID
	})

	limit := p.Limit
	if limit <= 0 {
		limit = defaultCandidateLimit
	}
	if limit < len(scored) {
		scored = scored[:limit]
	}

	return &QueryTransitionCandidatesResult{Candidates: scored}, nil
}

func trackIDsOf(tracks []catalog.Track) []string {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

// bpmTargetAlignment returns 1 when tempo exactly matches target, decaying
// linearly to 0 at a 20 BPM gap.
func bpmTargetAlignment(tempo, target float64) float64 {
	delta := tempo - target
	if delta < 0 {
		delta = -delta
	}
	alignment := 1 - delta/20
	if alignment < 0 {
		return 0
	}
	return alignment
}

// BuildSetParams is build_set's parameter object.
type BuildSetParams struct {
	Pool                SelectorParams        `json:"pool"`
	SetLength           int                   `json:"set_length,omitempty" validate:"omitempty,min=2"`
	CurvePreset         sequencing.CurvePreset `json:"curve_preset,omitempty" validate:"omitempty,oneof=warmup_build_peak_release flat peak_only"`
	CustomCurve         []scoring.Phase       `json:"custom_curve,omitempty"`
	Priority            scoring.Priority      `json:"priority,omitempty" validate:"omitempty,oneof=balanced harmonic energy genre"`
	Algorithm           string                `json:"algorithm,omitempty" validate:"omitempty,oneof=greedy beam"`
	BeamWidth           int                   `json:"beam_width,omitempty" validate:"omitempty,min=1"`
	Candidates          int                   `json:"candidates,omitempty" validate:"omitempty,min=1,max=3"`
	ForcedStartTrackID  string                `json:"forced_start_track_id,omitempty"`
}

const (
	defaultSetLength = 12
	defaultBeamWidth = 3
)

// BuildSetResult is build_set's response.
type BuildSetResult struct {
	Plans []sequencing.Plan `json:"plans"`
}

// BuildSet plans 1-3 candidate sequenced sets from a pool of tracks
// (spec.md §4.10; original_source/src/tools/mod.rs: "build_set").
func (s *Service) BuildSet(ctx context.Context, p BuildSetParams) (*BuildSetResult, *ToolError) {
	tracks, toolErr := resolveSelection(ctx, s.Catalog, s.selectionPolicy(true), p.Pool)
	if toolErr != nil {
		return nil, toolErr
	}
	if len(tracks) < 2 {
		return nil, newToolError(CategoryInvalidInput, "pool must resolve to at least 2 tracks")
	}

	records := s.Resolver.ResolveBatch(ctx, trackIDsOf(tracks))
	pool := make([]sequencing.PoolEntry, 0, len(records))
	for _, br := range records {
		if br.Err != nil || br.Record == nil {
			continue
		}
		pool = append(pool, poolEntryFromRecord(br.Record))
	}

	setLength := p.SetLength
	if setLength <= 0 {
		setLength = defaultSetLength
	}
	if setLength > len(pool) {
		setLength = len(pool)
	}

	preset := p.CurvePreset
	if preset == "" {
		preset = sequencing.CurveWarmupBuildPeakRelease
	}
	phases, err := sequencing.ResolveCurve(preset, p.CustomCurve, setLength)
	if err != nil {
		return nil, newToolError(CategoryInvalidInput, err.Error())
	}

	priority := p.Priority
	if priority == "" {
		priority = scoring.PriorityBalanced
	}

	if p.Algorithm == "beam" {
		beamWidth := p.BeamWidth
		if beamWidth <= 0 {
			beamWidth = defaultBeamWidth
		}
		start, ok := pickStart(pool, p.ForcedStartTrackID, phases)
		if !ok {
			return nil, newToolError(CategoryInvalidInput, "pool is empty after resolution")
		}
		rest := removePoolEntry(pool, start.Track.ID)
		plan := sequencing.BuildBeam(start, rest, phases, priority, beamWidth)
		plan.Label = "A"
		return &BuildSetResult{Plans: []sequencing.Plan{plan}}, nil
	}

	plans := sequencing.BuildCandidates(pool, phases, priority, p.Candidates, p.ForcedStartTrackID)
	return &BuildSetResult{Plans: plans}, nil
}

func pickStart(pool []sequencing.PoolEntry, forcedID string, phases []scoring.Phase) (sequencing.PoolEntry, bool) {
	if forcedID != "" {
		for _, e := range pool {
			if e.Track.ID == forcedID {
				return e, true
			}
		}
	}
	firstPhase := scoring.PhaseNone
	if len(phases) > 0 {
		firstPhase = phases[0]
	}
	starts := sequencing.SelectStartCandidates(pool, firstPhase, 1)
	if len(starts) == 0 {
		return sequencing.PoolEntry{}, false
	}
	return starts[0], true
}

func removePoolEntry(pool []sequencing.PoolEntry, id string) []sequencing.PoolEntry {
	out := make([]sequencing.PoolEntry, 0, len(pool))
	for _, e := range pool {
		if e.Track.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// EvaluateOrderingParams is evaluate_ordering's parameter object: a
// caller-fixed sequence of track identifiers to grade, rather than plan.
type EvaluateOrderingParams struct {
	TrackIDs    []string               `json:"track_ids" validate:"required,min=2,dive,required"`
	CurvePreset sequencing.CurvePreset `json:"curve_preset,omitempty" validate:"omitempty,oneof=warmup_build_peak_release flat peak_only"`
	CustomCurve []scoring.Phase        `json:"custom_curve,omitempty"`
	Priority    scoring.Priority       `json:"priority,omitempty" validate:"omitempty,oneof=balanced harmonic energy genre"`
}

// EvaluateOrdering scores an already-fixed track ordering the same way a
// planner would score its own output, for grading a manually reordered
// set or re-checking a plan after edits
// (internal/sequencing: "EvaluateOrdering" supplements the planners).
func (s *Service) EvaluateOrdering(ctx context.Context, p EvaluateOrderingParams) (*sequencing.Evaluation, *ToolError) {
	records := s.Resolver.ResolveBatch(ctx, p.TrackIDs)
	pool := make([]sequencing.PoolEntry, 0, len(records))
	for _, br := range records {
		if br.Err != nil || br.Record == nil {
			return nil, newToolError(CategoryNotFound, "no track with id "+br.TrackID)
		}
		pool = append(pool, poolEntryFromRecord(br.Record))
	}

	preset := p.CurvePreset
	if preset == "" {
		preset = sequencing.CurveWarmupBuildPeakRelease
	}
	phases, err := sequencing.ResolveCurve(preset, p.CustomCurve, len(pool))
	if err != nil {
		return nil, newToolError(CategoryInvalidInput, err.Error())
	}

	priority := p.Priority
	if priority == "" {
		priority = scoring.PriorityBalanced
	}

	evaluation := sequencing.EvaluateOrdering(pool, phases, priority)
	return &evaluation, nil
}
