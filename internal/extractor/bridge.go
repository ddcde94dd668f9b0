// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extractor implements the Feature-Extractor Bridge (spec.md
// §4.7): an out-of-process Python program invoked per file, with a hard
// timeout and kill-on-cancel semantics.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/ryanv/reklawdbox-go/internal/metrics"
)

// DefaultTimeout is the bridge's hard per-invocation timeout.
const DefaultTimeout = 300 * time.Second

// Ingredients is the feature-extractor's JSON output, the energy
// ingredients the Sequencing Engine's pool preparation consumes plus the
// brightness/rhythm/loudness-range descriptors the Scoring Engine uses.
type Ingredients struct {
	Danceability       float64 `json:"danceability"`
	IntegratedLoudness float64 `json:"integrated_loudness"`
	OnsetRate          float64 `json:"onset_rate"`
	SpectralCentroid   float64 `json:"spectral_centroid"`
	RhythmRegularity   float64 `json:"rhythm_regularity"`
	LoudnessRange      float64 `json:"loudness_range"`
}

// Bridge runs the out-of-process extractor against a resolved interpreter.
type Bridge struct {
	interpreter string
	timeout     time.Duration
}

// New creates a Bridge bound to an already-resolved interpreter path.
func New(interpreter string, timeout time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bridge{interpreter: interpreter, timeout: timeout}
}

// Timeout returns the bridge's configured per-invocation timeout.
func (b *Bridge) Timeout() time.Duration {
	return b.timeout
}

// Run launches the interpreter against path, capturing stdout/stderr and
// enforcing the bridge's timeout. Cancelling ctx kills the subprocess.
func (b *Bridge) Run(ctx context.Context, path string) (Ingredients, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, b.interpreter, path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if ctx.Err() == context.DeadlineExceeded {
		metrics.ExtractorInvocations.WithLabelValues("timeout").Inc()
		return Ingredients{}, fmt.Errorf("extractor: timed out after %s running %s on %s", elapsed, b.interpreter, path)
	}
	if err != nil {
		var exitErr *exec.Error
		if errors.As(err, &exitErr) {
			metrics.ExtractorInvocations.WithLabelValues("bad_json").Inc()
			return Ingredients{}, fmt.Errorf("extractor: failed to start %s: %w", b.interpreter, err)
		}
		metrics.ExtractorInvocations.WithLabelValues("nonzero_exit").Inc()
		return Ingredients{}, fmt.Errorf("extractor: %s exited with error: %w: %s", b.interpreter, err, stderr.String())
	}

	out := stdout.Bytes()
	if len(out) == 0 {
		metrics.ExtractorInvocations.WithLabelValues("bad_json").Inc()
		return Ingredients{}, fmt.Errorf("extractor: empty stdout from %s on %s: stderr=%s", b.interpreter, path, stderr.String())
	}
	if !utf8.Valid(out) {
		metrics.ExtractorInvocations.WithLabelValues("bad_json").Inc()
		return Ingredients{}, fmt.Errorf("extractor: non-UTF-8 stdout from %s on %s", b.interpreter, path)
	}

	var ing Ingredients
	if err := json.Unmarshal(out, &ing); err != nil {
		metrics.ExtractorInvocations.WithLabelValues("bad_json").Inc()
		return Ingredients{}, fmt.Errorf("extractor: malformed JSON from %s on %s: %w", b.interpreter, path, err)
	}

	metrics.ExtractorInvocations.WithLabelValues("ok").Inc()
	return ing, nil
}
