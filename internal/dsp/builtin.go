// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package dsp

import (
	"math"
	"time"

	"github.com/ryanv/reklawdbox-go/internal/scoring"
)

// BuiltinVersion identifies this analyzer implementation in Result's
// AnalyzerVersion field.
const BuiltinVersion = "builtin-autocorrelation-1"

// Builtin is a deterministic, dependency-free Analyzer: tempo via
// autocorrelation of an onset-strength envelope, key left unresolved
// (KeyConfidence 0, KeyName empty) since pitch-class estimation needs a
// real chroma/HPCP pipeline this system does not implement itself — the
// cache-store contract tolerates a partial result as long as it is
// produced deterministically from the same samples.
type Builtin struct{}

// Analyze implements Analyzer.
func (Builtin) Analyze(samples []float32, sampleRate int) (Result, error) {
	start := time.Now()

	envelope := onsetEnvelope(samples, sampleRate)
	tempo, confidence := estimateTempo(envelope, sampleRate)

	var warnings []string
	if confidence < 0.4 {
		warnings = append(warnings, "low tempo confidence")
	}

	return Result{
		Tempo:              tempo,
		TempoConfidence:    confidence,
		KeyName:            "",
		KeyCamelot:         "",
		KeyConfidence:       0,
		KeyClarity:          0,
		GridStability:       confidence,
		TotalDuration:       time.Duration(float64(len(samples)) / float64(sampleRate) * float64(time.Second)),
		ProcessingTimeMS:    time.Since(start).Milliseconds(),
		AnalyzerVersion:     BuiltinVersion,
		ConfidenceWarnings:  warnings,
	}, nil
}

// onsetEnvelope reduces the signal to a coarse energy-onset curve: the
// frame-to-frame positive delta of RMS energy over 1024-sample frames.
func onsetEnvelope(samples []float32, sampleRate int) []float64 {
	const frameSize = 1024
	if len(samples) < frameSize*2 {
		return nil
	}

	frames := len(samples) / frameSize
	rms := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for _, s := range samples[i*frameSize : (i+1)*frameSize] {
			sum += float64(s) * float64(s)
		}
		rms[i] = math.Sqrt(sum / float64(frameSize))
	}

	envelope := make([]float64, frames)
	for i := 1; i < frames; i++ {
		d := rms[i] - rms[i-1]
		if d > 0 {
			envelope[i] = d
		}
	}
	return envelope
}

// estimateTempo autocorrelates the onset envelope over the lag range
// corresponding to 60-180 BPM and returns the strongest periodicity as a
// BPM estimate, with confidence the normalized peak-to-mean ratio.
func estimateTempo(envelope []float64, sampleRate int) (bpm, confidence float64) {
	const frameSize = 1024
	if len(envelope) == 0 {
		return 0, 0
	}
	framesPerSec := float64(sampleRate) / float64(frameSize)

	minLag := int(framesPerSec * 60 / 180)
	maxLag := int(framesPerSec * 60 / 60)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(envelope) {
		maxLag = len(envelope) - 1
	}
	if maxLag <= minLag {
		return 0, 0
	}

	var mean float64
	for _, v := range envelope {
		mean += v
	}
	mean /= float64(len(envelope))

	bestLag := minLag
	bestScore := -math.MaxFloat64
	for lag := minLag; lag <= maxLag; lag++ {
		var score float64
		for i := 0; i+lag < len(envelope); i++ {
			score += envelope[i] * envelope[i+lag]
		}
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}

	bpm = framesPerSec * 60 / float64(bestLag)
	if mean > 0 {
		confidence = clamp01(bestScore / (mean * float64(len(envelope))))
	}
	return bpm, confidence
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// CamelotForKeyName is a convenience re-export so callers populating a
// Result's KeyCamelot field from a resolved key name don't need to import
// the scoring package's Camelot type directly.
func CamelotForKeyName(name string) (string, bool) {
	c, ok := scoring.StandardKeyToCamelot(name)
	if !ok {
		return "", false
	}
	return c.String(), true
}
