// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package sequencing

import "github.com/ryanv/reklawdbox-go/internal/scoring"

// Evaluation is the result of scoring an already-fixed track ordering,
// rather than planning one. This supplements the planners with the
// ability to grade a user-supplied or externally-produced running order.
type Evaluation struct {
	TransitionScores  []scoring.Composite
	SetScore          float64
	WorstTransition    int // index into TransitionScores, -1 if none
	WorstTransitionLow float64
}

// EvaluateOrdering scores a fixed sequence of entries against a phase
// curve, exactly as a planner would score its own output, but for an
// ordering supplied wholesale instead of built incrementally. Useful for
// grading a manually reordered set or re-checking a plan after edits.
func EvaluateOrdering(entries []PoolEntry, phases []scoring.Phase, priority scoring.Priority) Evaluation {
	if len(entries) < 2 {
		return Evaluation{WorstTransition: -1}
	}

	transitions := make([]scoring.Composite, 0, len(entries)-1)
	worstIdx := -1
	worstScore := 2.0 // above any possible composite

	for i := 1; i < len(entries); i++ {
		phase := scoring.PhaseNone
		if i < len(phases) {
			phase = phases[i]
		}
		lastPhase := scoring.PhaseNone
		if i-1 < len(phases) {
			lastPhase = phases[i-1]
		}
		crossedBoundary := lastPhase != scoring.PhaseNone && phase != scoring.PhaseNone && lastPhase != phase
		composite := scoring.Score(entries[i-1].Profile, entries[i].Profile, priority, phase, crossedBoundary)
		transitions = append(transitions, composite)
		if composite.Score < worstScore {
			worstScore = composite.Score
			worstIdx = i - 1
		}
	}

	return Evaluation{
		TransitionScores:   transitions,
		SetScore:           meanCompositeScaled(transitions),
		WorstTransition:    worstIdx,
		WorstTransitionLow: worstScore,
	}
}
