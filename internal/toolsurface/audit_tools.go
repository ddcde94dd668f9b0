// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"context"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/libaudit"
)

// AuditIssueKey identifies one detected finding by the composite key it's
// stored under: a (path, issue-type) pair. Unlike the original tool's
// flat issue_id list, resolving here always names both halves of the
// key (original_source/src/tools/audit_handlers.rs: "resolve_issues"
// took a single id; our cache keys issues by path+type, so the dispatch
// below takes pairs instead).
type AuditIssueKey struct {
	Path      string `json:"path" validate:"required"`
	IssueType string `json:"issue_type" validate:"required"`
}

// ScanLibraryParams is audit_state's "scan" operation parameters.
type ScanLibraryParams struct {
	PathPrefix      string   `json:"path_prefix" validate:"required"`
	Revalidate      bool     `json:"revalidate,omitempty"`
	SkipIssueTypes  []string `json:"skip_issue_types,omitempty"`
}

// ScanLibrary walks a scope, rechecks changed files, and persists
// findings (original_source/src/tools/audit_handlers.rs:
// "AuditOperation::Scan").
func (s *Service) ScanLibrary(ctx context.Context, p ScanLibraryParams) (*libaudit.ScanSummary, *ToolError) {
	skip := make(map[libaudit.IssueType]bool, len(p.SkipIssueTypes))
	for _, t := range p.SkipIssueTypes {
		skip[libaudit.IssueType(t)] = true
	}
	summary, err := s.Scanner.Scan(p.PathPrefix, p.Revalidate, skip)
	if err != nil {
		return nil, FromError(err)
	}
	return &summary, nil
}

// QueryAuditIssuesParams is audit_state's "query_issues" operation
// parameters.
type QueryAuditIssuesParams struct {
	PathPrefix string  `json:"path_prefix" validate:"required"`
	Status     string  `json:"status,omitempty" validate:"omitempty,oneof=open fixed accepted_as_is wont_fix deferred"`
	IssueType  string  `json:"issue_type,omitempty"`
	Limit      int     `json:"limit,omitempty" validate:"omitempty,min=1"`
	Offset     int     `json:"offset,omitempty" validate:"omitempty,min=0"`
}

const defaultAuditQueryLimit = 200

// QueryAuditIssuesResult is query_issues' response: a page of matching
// findings plus the total match count before pagination.
type QueryAuditIssuesResult struct {
	Total  int                   `json:"total"`
	Issues []libaudit.IssueRecord `json:"issues"`
}

// QueryAuditIssues lists findings under a scope, optionally filtered by
// status and/or issue type, with offset/limit pagination
// (original_source/src/tools/audit_handlers.rs:
// "AuditOperation::QueryIssues").
func (s *Service) QueryAuditIssues(ctx context.Context, p QueryAuditIssuesParams) (*QueryAuditIssuesResult, *ToolError) {
	var status *cachestore.AuditIssueStatus
	if p.Status != "" {
		st := cachestore.AuditIssueStatus(p.Status)
		status = &st
	}
	var issueType *libaudit.IssueType
	if p.IssueType != "" {
		it := libaudit.IssueType(p.IssueType)
		issueType = &it
	}

	issues, err := libaudit.QueryIssues(s.Cache, p.PathPrefix, status, issueType)
	if err != nil {
		return nil, FromError(err)
	}

	total := len(issues)
	limit := p.Limit
	if limit <= 0 {
		limit = defaultAuditQueryLimit
	}
	offset := p.Offset
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return &QueryAuditIssuesResult{Total: total, Issues: issues[offset:end]}, nil
}

// ResolveAuditIssuesParams is audit_state's "resolve_issues" operation
// parameters.
type ResolveAuditIssuesParams struct {
	Issues     []AuditIssueKey `json:"issues" validate:"required,min=1,dive"`
	Resolution string          `json:"resolution" validate:"required,oneof=accepted_as_is wont_fix deferred"`
	Note       string          `json:"note,omitempty"`
}

// ResolveAuditIssuesResult reports how many findings transitioned.
type ResolveAuditIssuesResult struct {
	Affected int `json:"affected"`
}

// ResolveAuditIssues transitions a set of findings to a terminal,
// human-decided resolution. "fixed" is reserved for scan's own
// auto-resolution and is rejected by the params' oneof validation and by
// libaudit.ResolveIssues.
func (s *Service) ResolveAuditIssues(ctx context.Context, p ResolveAuditIssuesParams) (*ResolveAuditIssuesResult, *ToolError) {
	keys := make([][2]string, len(p.Issues))
	for i, issue := range p.Issues {
		keys[i] = [2]string{issue.Path, issue.IssueType}
	}

	affected, err := libaudit.ResolveIssues(s.Cache, keys, libaudit.Resolution(p.Resolution))
	if err != nil {
		return nil, FromError(err)
	}
	return &ResolveAuditIssuesResult{Affected: affected}, nil
}

// GetAuditSummaryParams is audit_state's "get_summary" operation
// parameters.
type GetAuditSummaryParams struct {
	PathPrefix string `json:"path_prefix" validate:"required"`
}

// GetAuditSummary reports issue counts under a scope broken down by
// type, safety tier, and resolution status
// (original_source/src/tools/audit_handlers.rs:
// "AuditOperation::GetSummary").
func (s *Service) GetAuditSummary(ctx context.Context, p GetAuditSummaryParams) (*libaudit.SummaryReport, *ToolError) {
	report, err := libaudit.GetSummary(s.Cache, p.PathPrefix)
	if err != nil {
		return nil, FromError(err)
	}
	return &report, nil
}
