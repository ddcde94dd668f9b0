// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package sequencing

import (
	"sort"

	"github.com/ryanv/reklawdbox-go/internal/scoring"
)

type beamState struct {
	entries    []PoolEntry
	used       map[string]struct{}
	transitions []scoring.Composite
	meanScore  float64
}

func (s beamState) clone() beamState {
	entries := make([]PoolEntry, len(s.entries))
	copy(entries, s.entries)
	used := make(map[string]struct{}, len(s.used))
	for k := range s.used {
		used[k] = struct{}{}
	}
	transitions := make([]scoring.Composite, len(s.transitions))
	copy(transitions, s.transitions)
	return beamState{entries: entries, used: used, transitions: transitions, meanScore: s.meanScore}
}

// BuildBeam runs a beam-search planner that, at each step, keeps the top-K
// partial plans ordered by accumulated mean composite. Its best plan is
// then compared with BuildGreedy's plan for the same start and pool, and
// the greedy plan is returned when its mean composite is higher, so the
// result is never worse than greedy's.
func BuildBeam(start PoolEntry, pool []PoolEntry, phases []scoring.Phase, priority scoring.Priority, beamWidth int) Plan {
	if beamWidth < 1 {
		beamWidth = 1
	}
	t := len(phases)

	initial := beamState{
		entries: []PoolEntry{start},
		used:    map[string]struct{}{start.Track.ID: {}},
	}
	beam := []beamState{initial}

	for step := 1; step < t; step++ {
		phase := scoring.PhaseNone
		if step < len(phases) {
			phase = phases[step]
		}

		var next []beamState
		for _, state := range beam {
			if len(state.entries) >= t {
				next = append(next, state)
				continue
			}
			last := state.entries[len(state.entries)-1]
			lastPhase := scoring.PhaseNone
			if len(state.entries)-1 < len(phases) {
				lastPhase = phases[len(state.entries)-1]
			}
			crossedBoundary := lastPhase != scoring.PhaseNone && phase != scoring.PhaseNone && lastPhase != phase
			extended := false
			for _, c := range pool {
				if _, ok := state.used[c.Track.ID]; ok {
					continue
				}
				composite := scoring.Score(last.Profile, c.Profile, priority, phase, crossedBoundary)

				ns := state.clone()
				ns.entries = append(ns.entries, c)
				ns.used[c.Track.ID] = struct{}{}
				ns.transitions = append(ns.transitions, composite)
				ns.meanScore = meanCompositeScaled(ns.transitions)

				next = append(next, ns)
				extended = true
			}
			if !extended {
				next = append(next, state)
			}
		}

		sort.SliceStable(next, func(i, j int) bool {
			if next[i].meanScore != next[j].meanScore {
				return next[i].meanScore > next[j].meanScore
			}
			return len(next[i].entries) > len(next[j].entries)
		})
		if len(next) > beamWidth {
			next = next[:beamWidth]
		}
		beam = next
	}

	best := beam[0]
	for _, s := range beam[1:] {
		if s.meanScore > best.meanScore {
			best = s
		}
	}

	greedy := BuildGreedy(start, pool, phases, priority, 0)
	rawMean := func(cs []scoring.Composite) float64 {
		if len(cs) == 0 {
			return 0
		}
		sum := 0.0
		for _, c := range cs {
			sum += c.Score
		}
		return sum / float64(len(cs))
	}
	if rawMean(greedy.TransitionScores) > rawMean(best.transitions) {
		return greedy
	}

	return Plan{
		Entries:           best.entries,
		TransitionScores:  best.transitions,
		SetScore:          best.meanScore,
		EstimatedDuration: estimatedDurationMinutes(best.entries),
	}
}
