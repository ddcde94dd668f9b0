// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package sequencing

import (
	"math"
	"sort"

	"github.com/ryanv/reklawdbox-go/internal/scoring"
)

// defaultLengthSecs is substituted when a track's length is unknown.
const defaultLengthSecs = 360

// Plan is one candidate sequenced set.
type Plan struct {
	Label             string // "A", "B", "C"
	Entries           []PoolEntry
	TransitionScores  []scoring.Composite // len(Entries)-1
	SetScore          float64             // mean composite * 10, rounded
	EstimatedDuration int                 // minutes
}

// transitionPickRank implements spec.md §4.10's rank-selection rule: which
// rank (0-indexed, by descending composite) the planner should pick at a
// given step, so that successive candidate sets diverge deterministically.
func transitionPickRank(variationIndex, currentLength, options int) int {
	if options <= 1 {
		return 0
	}
	var r int
	switch {
	case currentLength == 1:
		r = variationIndex
	case variationIndex > 0 && currentLength%4 == 0:
		r = variationIndex
		if r > 1 {
			r = 1
		}
	default:
		r = 0
	}
	if r > options-1 {
		r = options - 1
	}
	if r < 0 {
		r = 0
	}
	return r
}

type scoredCandidate struct {
	entry     PoolEntry
	composite scoring.Composite
}

// BuildGreedy constructs one candidate plan for variation index
// variationIndex given a start entry and the rest of the pool. The pool
// slice is not mutated.
func BuildGreedy(start PoolEntry, pool []PoolEntry, phases []scoring.Phase, priority scoring.Priority, variationIndex int) Plan {
	t := len(phases)
	remaining := make([]PoolEntry, len(pool))
	copy(remaining, pool)

	entries := make([]PoolEntry, 0, t)
	entries = append(entries, start)
	var transitions []scoring.Composite

	for len(entries) < t && len(remaining) > 0 {
		phase := scoring.PhaseNone
		if len(entries) < len(phases) {
			phase = phases[len(entries)]
		}
		last := entries[len(entries)-1]
		lastPhase := scoring.PhaseNone
		if len(entries)-1 < len(phases) {
			lastPhase = phases[len(entries)-1]
		}
		crossedBoundary := lastPhase != scoring.PhaseNone && phase != scoring.PhaseNone && lastPhase != phase

		candidates := make([]scoredCandidate, 0, len(remaining))
		for _, c := range remaining {
			composite := scoring.Score(last.Profile, c.Profile, priority, phase, crossedBoundary)
			candidates = append(candidates, scoredCandidate{entry: c, composite: composite})
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].composite.Score != candidates[j].composite.Score {
				return candidates[i].composite.Score > candidates[j].composite.Score
			}
			return candidates[i].entry.Track.ID < candidates[j].entry.Track.ID
		})

		rank := transitionPickRank(variationIndex, len(entries), len(candidates))
		picked := candidates[rank]

		entries = append(entries, picked.entry)
		transitions = append(transitions, picked.composite)

		remaining = removeEntry(remaining, picked.entry.Track.ID)
	}

	return Plan{
		Entries:           entries,
		TransitionScores:  transitions,
		SetScore:          meanCompositeScaled(transitions),
		EstimatedDuration: estimatedDurationMinutes(entries),
	}
}

func removeEntry(pool []PoolEntry, id string) []PoolEntry {
	out := make([]PoolEntry, 0, len(pool))
	for _, e := range pool {
		if e.Track.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func meanCompositeScaled(transitions []scoring.Composite) float64 {
	if len(transitions) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range transitions {
		sum += c.Score
	}
	mean := sum / float64(len(transitions))
	return math.Round(mean * 10)
}

func estimatedDurationMinutes(entries []PoolEntry) int {
	total := 0
	for _, e := range entries {
		secs := e.Track.LengthSecs
		if secs <= 0 {
			secs = defaultLengthSecs
		}
		total += secs
	}
	return int(math.Round(float64(total) / 60))
}

// BuildCandidates produces 1..=3 labeled candidate plans. When the pool
// cannot support T (pool size <= T) only one candidate ("A") is produced.
func BuildCandidates(pool []PoolEntry, phases []scoring.Phase, priority scoring.Priority, requestedCandidates int, forcedStartID string) []Plan {
	t := len(phases)
	if t > len(pool) {
		t = len(pool)
	}
	phases = phases[:t]

	n := ClampCandidateCount(requestedCandidates, len(pool), t)

	var starts []PoolEntry
	if forcedStartID != "" {
		for _, e := range pool {
			if e.Track.ID == forcedStartID {
				starts = []PoolEntry{e}
				break
			}
		}
	}
	if len(starts) == 0 {
		firstPhase := scoring.PhaseNone
		if len(phases) > 0 {
			firstPhase = phases[0]
		}
		starts = SelectStartCandidates(pool, firstPhase, n)
	}

	labels := []string{"A", "B", "C"}
	plans := make([]Plan, 0, n)
	for i := 0; i < n && i < len(starts); i++ {
		start := starts[i]
		rest := removeEntry(pool, start.Track.ID)
		plan := BuildGreedy(start, rest, phases, priority, i)
		plan.Label = labels[i]
		plans = append(plans, plan)
	}
	return plans
}
