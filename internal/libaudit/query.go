// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package libaudit

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
)

// IssueRecord is one persisted finding, ready for external consumption.
type IssueRecord struct {
	Path      string
	IssueType string
	Tier      string
	Detail    map[string]any
	Status    cachestore.AuditIssueStatus
	UpdatedAt time.Time
}

func toIssueRecord(rec cachestore.AuditIssueRecord) IssueRecord {
	var detail map[string]any
	if rec.Detail != "" {
		_ = json.Unmarshal([]byte(rec.Detail), &detail)
	}
	return IssueRecord{
		Path: rec.Path, IssueType: rec.IssueType, Tier: rec.Tier,
		Detail: detail, Status: rec.Status, UpdatedAt: rec.UpdatedAt,
	}
}

// QueryIssues lists every issue under scope, optionally filtered by status
// and/or issue type.
func QueryIssues(cache *cachestore.Store, scope string, status *cachestore.AuditIssueStatus, issueType *IssueType) ([]IssueRecord, error) {
	scope = enforceTrailingSlash(scope)
	if scope == "" || scope == "/" {
		return nil, ErrScopeRequired
	}

	files, err := cache.ListAuditFiles(scope)
	if err != nil {
		return nil, fmt.Errorf("libaudit: list audit files: %w", err)
	}

	var out []IssueRecord
	for _, f := range files {
		issues, err := cache.ListAuditIssuesForPath(f.Path)
		if err != nil {
			return nil, fmt.Errorf("libaudit: list issues for %s: %w", f.Path, err)
		}
		for _, issue := range issues {
			if status != nil && issue.Status != *status {
				continue
			}
			if issueType != nil && issue.IssueType != string(*issueType) {
				continue
			}
			out = append(out, toIssueRecord(issue))
		}
	}
	return out, nil
}

// ResolveIssues transitions a set of (path, issue-type) findings to a
// terminal resolution. "fixed" is reserved for scan's own auto-resolution
// and is rejected here, before the store is touched, because it has no
// cache status mapping.
func ResolveIssues(cache *cachestore.Store, keys [][2]string, resolution Resolution) (int, error) {
	status := resolution.cacheStatus()
	if status == "" {
		return 0, fmt.Errorf("libaudit: invalid resolution %q: must be one of accepted_as_is, wont_fix, deferred", resolution)
	}
	affected, err := cache.BatchResolveByIDs(keys, status, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("libaudit: resolve issues: %w", err)
	}
	return affected, nil
}

// SummaryReport tallies one scope's issues by type and status.
type SummaryReport struct {
	Scope         string
	ByType        map[string]map[cachestore.AuditIssueStatus]int64
	ByTier        map[SafetyTier]int64
	TotalOpen     int64
	TotalResolved int64
	TotalAccepted int64
	TotalDeferred int64
}

// GetSummary reports issue counts under scope, broken down by issue type
// and status.
func GetSummary(cache *cachestore.Store, scope string) (SummaryReport, error) {
	scope = enforceTrailingSlash(scope)
	if scope == "" || scope == "/" {
		return SummaryReport{}, ErrScopeRequired
	}

	files, err := cache.ListAuditFiles(scope)
	if err != nil {
		return SummaryReport{}, fmt.Errorf("libaudit: list audit files: %w", err)
	}

	report := SummaryReport{
		Scope:  scope,
		ByType: map[string]map[cachestore.AuditIssueStatus]int64{},
		ByTier: map[SafetyTier]int64{},
	}
	for _, f := range files {
		issues, err := cache.ListAuditIssuesForPath(f.Path)
		if err != nil {
			return SummaryReport{}, fmt.Errorf("libaudit: list issues for %s: %w", f.Path, err)
		}
		for _, issue := range issues {
			byStatus, ok := report.ByType[issue.IssueType]
			if !ok {
				byStatus = map[cachestore.AuditIssueStatus]int64{}
				report.ByType[issue.IssueType] = byStatus
			}
			byStatus[issue.Status]++
			report.ByTier[IssueType(issue.IssueType).Tier()]++

			switch issue.Status {
			case cachestore.AuditIssueOpen:
				report.TotalOpen++
			case cachestore.AuditIssueFixed:
				report.TotalResolved++
			case cachestore.AuditIssueAcceptedAsIs, cachestore.AuditIssueWontFix:
				report.TotalAccepted++
			case cachestore.AuditIssueDeferred:
				report.TotalDeferred++
			}
		}
	}
	return report, nil
}
