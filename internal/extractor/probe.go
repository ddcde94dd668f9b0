// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/ryanv/reklawdbox-go/internal/logging"
)

// ProbeTimeout bounds the one-line import check.
const ProbeTimeout = 5 * time.Second

// interpreterCandidates are tried in order, newest first, until one
// validates (spec.md §4.7).
var interpreterCandidates = []string{
	"python3.13", "python3.12", "python3.11", "python3.10", "python3.9", "python3",
}

// ManagedVenvPath is the fallback venv location probed when no
// environment override is set.
func ManagedVenvPath(baseDir string) string {
	return filepath.Join(baseDir, "essentia-venv", "bin", "python3")
}

// Prober memoizes the interpreter-probe result per process and serializes
// the install operation with a single mutex (spec.md §4.7: "an async
// mutex serializes it").
type Prober struct {
	envOverride string
	venvPath    string

	mu       sync.Mutex
	resolved string // memoized interpreter path, "" until probed
	probed   bool

	installMu sync.Mutex
}

// NewProber creates a Prober. envOverride is the environment-variable
// value (if any); venvPath is the managed-venv fallback location.
func NewProber(envOverride, venvPath string) *Prober {
	return &Prober{envOverride: envOverride, venvPath: venvPath}
}

// Resolve returns a usable interpreter path, probing on first use and
// memoizing the result for the process lifetime (until Install publishes
// an override).
func (p *Prober) Resolve(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.probed {
		if p.resolved == "" {
			return "", fmt.Errorf("extractor: no usable interpreter (previously probed and failed)")
		}
		return p.resolved, nil
	}

	candidates := p.candidateList()
	for _, candidate := range candidates {
		if validateInterpreter(ctx, candidate) {
			p.resolved = candidate
			p.probed = true
			return candidate, nil
		}
	}

	p.probed = true
	p.resolved = ""
	return "", fmt.Errorf("extractor: no usable interpreter among %v", candidates)
}

// Installed reports whether a prior Resolve/Install call memoized a usable
// interpreter, without itself probing anything. The resolver (spec.md
// §4.11) uses this for its extractor-installed completeness flag, since
// the resolver must never trigger external I/O.
func (p *Prober) Installed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.probed && p.resolved != ""
}

func (p *Prober) candidateList() []string {
	if p.envOverride != "" {
		return []string{p.envOverride}
	}
	candidates := make([]string, 0, len(interpreterCandidates)+1)
	if p.venvPath != "" {
		candidates = append(candidates, p.venvPath)
	}
	candidates = append(candidates, interpreterCandidates...)
	return candidates
}

// validateInterpreter runs a one-line import check under ProbeTimeout;
// success requires a version-looking line on stdout.
func validateInterpreter(ctx context.Context, interpreter string) bool {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, interpreter, "-c", "import essentia; print(essentia.__version__)")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return false
	}
	return looksLikeVersion(stdout.String())
}

func looksLikeVersion(s string) bool {
	s = trimSpaceASCII(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '-' && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

func trimSpaceASCII(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\n' || s[start] == '\r' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\n' || s[end-1] == '\r' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}

// Install creates a venv at p.venvPath, pip-installs essentia, re-validates,
// and on success publishes the venv interpreter as the memoized override —
// taking effect immediately, without a process restart. Only one install
// runs at a time.
func (p *Prober) Install(ctx context.Context) error {
	p.installMu.Lock()
	defer p.installMu.Unlock()

	log := logging.Component("extractor")

	if p.venvPath == "" {
		return fmt.Errorf("extractor: no managed venv path configured")
	}
	venvDir := filepath.Dir(filepath.Dir(p.venvPath)) // .../essentia-venv

	if err := os.MkdirAll(filepath.Dir(venvDir), 0o755); err != nil {
		return fmt.Errorf("extractor: prepare venv parent: %w", err)
	}

	base := firstAvailable(interpreterCandidates)
	if base == "" {
		return fmt.Errorf("extractor: no base interpreter available to create venv")
	}

	if err := exec.CommandContext(ctx, base, "-m", "venv", venvDir).Run(); err != nil {
		return fmt.Errorf("extractor: create venv: %w", err)
	}

	log.Info().Str("venv", venvDir).Msg("installing essentia")
	pipCmd := exec.CommandContext(ctx, p.venvPath, "-m", "pip", "install", "--quiet", "essentia")
	var stderr bytes.Buffer
	pipCmd.Stderr = &stderr
	if err := pipCmd.Run(); err != nil {
		return fmt.Errorf("extractor: pip install essentia: %w: %s", err, stderr.String())
	}

	if !validateInterpreter(ctx, p.venvPath) {
		return fmt.Errorf("extractor: venv interpreter failed post-install validation")
	}

	p.mu.Lock()
	p.resolved = p.venvPath
	p.probed = true
	p.mu.Unlock()

	return nil
}

func firstAvailable(candidates []string) string {
	for _, c := range candidates {
		if _, err := exec.LookPath(c); err == nil {
			return c
		}
	}
	return ""
}
