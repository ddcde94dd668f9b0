// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package libaudit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/metrics"
	"github.com/ryanv/reklawdbox-go/internal/tagio"
)

// ErrScopeRequired is returned when a scan/query/summary scope is empty
// or the filesystem root.
var ErrScopeRequired = errors.New("libaudit: scope must not be empty or root (/)")

// ScanSummary reports what a scan found and changed.
type ScanSummary struct {
	FilesInScope      int
	Scanned           int
	SkippedUnchanged  int
	MissingFromDisk   int
	SkippedIssueTypes []string
	NewIssues         map[string]int
	AutoResolved      int
	TotalOpen         int64
	TotalResolved     int64
	TotalAccepted     int64
	TotalDeferred     int64
	Warnings          []string
}

// Scanner walks a library scope, reads tags, runs every convention check,
// and persists the result to cache.
type Scanner struct {
	cache *cachestore.Store
}

// NewScanner builds a Scanner backed by cache.
func NewScanner(cache *cachestore.Store) *Scanner {
	return &Scanner{cache: cache}
}

func enforceTrailingSlash(scope string) string {
	if scope == "" || strings.HasSuffix(scope, "/") {
		return scope
	}
	return scope + "/"
}

type walkResult struct {
	files     []string
	warnings  []string
	hadErrors bool
}

// walkAudioFiles walks scope depth-first, skipping symlinks, and returns
// every audio-extension file found in sorted order.
func walkAudioFiles(scope string) (walkResult, error) {
	info, err := os.Stat(scope)
	if err != nil || !info.IsDir() {
		return walkResult{}, fmt.Errorf("libaudit: not a directory: %s", scope)
	}

	var wr walkResult
	err = filepath.WalkDir(scope, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			wr.warnings = append(wr.warnings, fmt.Sprintf("cannot read %s: %v", path, err))
			wr.hadErrors = true
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if tagio.AudioExtensions[strings.ToLower(filepath.Ext(path))] {
			wr.files = append(wr.files, path)
		}
		return nil
	})
	if err != nil {
		return walkResult{}, fmt.Errorf("libaudit: walk %s: %w", scope, err)
	}

	sort.Strings(wr.files)
	return wr, nil
}

// Scan walks scope, reads every file whose mtime/size changed (or every
// file, when revalidate is set), runs the convention checks, and persists
// the results. Missing-file cleanup only runs when the walk completed
// without read errors, so a partial walk never deletes live rows.
func (s *Scanner) Scan(scope string, revalidate bool, skip map[IssueType]bool) (ScanSummary, error) {
	scope = enforceTrailingSlash(scope)
	if scope == "" || scope == "/" {
		return ScanSummary{}, ErrScopeRequired
	}

	walked, err := walkAudioFiles(scope)
	if err != nil {
		return ScanSummary{}, err
	}

	summary := ScanSummary{
		FilesInScope: len(walked.files),
		NewIssues:    map[string]int{},
		Warnings:     walked.warnings,
	}

	existing, err := s.cache.ListAuditFiles(scope)
	if err != nil {
		return ScanSummary{}, fmt.Errorf("libaudit: load existing audit files: %w", err)
	}
	existingByPath := make(map[string]cachestore.AuditFileRecord, len(existing))
	for _, f := range existing {
		existingByPath[f.Path] = f
	}

	diskPaths := make(map[string]struct{}, len(walked.files))
	for _, f := range walked.files {
		diskPaths[f] = struct{}{}
	}

	if walked.hadErrors {
		summary.Warnings = append(summary.Warnings,
			"skipped missing-file cleanup because the filesystem walk had read errors; existing audit rows were preserved")
	} else {
		deleted, err := s.cache.DeleteMissingAuditFiles(scope, diskPaths)
		if err != nil {
			return ScanSummary{}, fmt.Errorf("libaudit: delete missing files: %w", err)
		}
		summary.MissingFromDisk = deleted
	}

	skipStrings := make(map[string]struct{}, len(skip))
	for t := range skip {
		skipStrings[string(t)] = struct{}{}
		summary.SkippedIssueTypes = append(summary.SkippedIssueTypes, string(t))
	}
	sort.Strings(summary.SkippedIssueTypes)

	now := time.Now().UTC()
	var toUpsert []cachestore.AuditFileRecord

	for _, path := range walked.files {
		info, err := os.Stat(path)
		if err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("cannot stat %s: %v", path, err))
			continue
		}

		existingFile, hasExisting := existingByPath[path]
		needsScan := revalidate || !hasExisting ||
			!existingFile.ModTime.Equal(info.ModTime().UTC()) || existingFile.Size != info.Size()
		if !needsScan {
			summary.SkippedUnchanged++
			metrics.AuditScanFiles.WithLabelValues("skipped_unchanged").Inc()
			continue
		}

		read := tagio.ReadFile(path)
		trackContext := ClassifyTrackContext(path)

		var detected []DetectedIssue
		if read.Err == nil {
			detected = append(detected, checkTags(read, trackContext, skip)...)
			detected = append(detected, checkFilename(path, read, trackContext, skip)...)
		}

		toUpsert = append(toUpsert, cachestore.AuditFileRecord{
			Path: path, ModTime: info.ModTime().UTC(), Size: info.Size(), ScopeDir: scope,
		})

		detectedTypes := make(map[string]struct{}, len(detected))
		for _, issue := range detected {
			detectedTypes[string(issue.Type)] = struct{}{}
			detail, marshalErr := json.Marshal(issue.Detail)
			if marshalErr != nil {
				return ScanSummary{}, fmt.Errorf("libaudit: marshal issue detail: %w", marshalErr)
			}
			if err := s.cache.UpsertAuditIssue(cachestore.AuditIssueRecord{
				Path: path, IssueType: string(issue.Type), Tier: string(issue.Type.Tier()),
				Detail: string(detail), Status: cachestore.AuditIssueOpen, UpdatedAt: now,
			}); err != nil {
				return ScanSummary{}, fmt.Errorf("libaudit: upsert audit issue: %w", err)
			}
			summary.NewIssues[string(issue.Type)]++
			metrics.AuditIssuesDetected.WithLabelValues(string(issue.Type)).Inc()
		}

		// Auto-resolve issues no longer detected. Skipped when the read
		// errored (true state unknown) or there's no prior row (nothing
		// to resolve).
		if hasExisting && read.Err == nil {
			resolved, err := s.cache.MarkResolvedForPathWhenNotInSet(path, detectedTypes, skipStrings, now)
			if err != nil {
				return ScanSummary{}, fmt.Errorf("libaudit: auto-resolve: %w", err)
			}
			summary.AutoResolved += resolved
		}

		summary.Scanned++
		metrics.AuditScanFiles.WithLabelValues("scanned").Inc()
	}

	metrics.AuditScanFiles.WithLabelValues("missing").Add(float64(summary.MissingFromDisk))

	if len(toUpsert) > 0 {
		if err := s.cache.UpsertAuditFilesBatch(toUpsert); err != nil {
			return ScanSummary{}, fmt.Errorf("libaudit: upsert audit files: %w", err)
		}
	}

	totals, err := scopeTotals(s.cache, scope)
	if err != nil {
		return ScanSummary{}, err
	}
	summary.TotalOpen = totals[cachestore.AuditIssueOpen]
	summary.TotalResolved = totals[cachestore.AuditIssueFixed]
	summary.TotalAccepted = totals[cachestore.AuditIssueAcceptedAsIs] + totals[cachestore.AuditIssueWontFix]
	summary.TotalDeferred = totals[cachestore.AuditIssueDeferred]

	return summary, nil
}

// scopeTotals counts every issue in scope by status.
func scopeTotals(cache *cachestore.Store, scope string) (map[cachestore.AuditIssueStatus]int64, error) {
	files, err := cache.ListAuditFiles(scope)
	if err != nil {
		return nil, fmt.Errorf("libaudit: list audit files: %w", err)
	}
	totals := make(map[cachestore.AuditIssueStatus]int64)
	for _, f := range files {
		issues, err := cache.ListAuditIssuesForPath(f.Path)
		if err != nil {
			return nil, fmt.Errorf("libaudit: list issues for %s: %w", f.Path, err)
		}
		for _, issue := range issues {
			totals[issue.Status]++
		}
	}
	return totals, nil
}
