// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/libaudit"
)

func seedAuditFixture(t *testing.T, cache *cachestore.Store) {
	t.Helper()
	require.NoError(t, cache.UpsertAuditFilesBatch([]cachestore.AuditFileRecord{
		{Path: "/music/a.mp3", ScopeDir: "/music/", ModTime: time.Now(), Size: 10},
		{Path: "/music/b.mp3", ScopeDir: "/music/", ModTime: time.Now(), Size: 20},
	}))
	require.NoError(t, cache.UpsertAuditIssue(cachestore.AuditIssueRecord{
		Path: "/music/a.mp3", IssueType: "NO_TAGS", Status: cachestore.AuditIssueOpen,
	}))
	require.NoError(t, cache.UpsertAuditIssue(cachestore.AuditIssueRecord{
		Path: "/music/b.mp3", IssueType: "GENRE_SET", Status: cachestore.AuditIssueOpen,
	}))
}

func TestQueryAuditIssuesListsMatchingScope(t *testing.T) {
	cache := openTestCache(t)
	seedAuditFixture(t, cache)
	svc := &Service{Cache: cache}

	result, toolErr := svc.QueryAuditIssues(context.Background(), QueryAuditIssuesParams{PathPrefix: "/music/"})

	require.Nil(t, toolErr)
	assert.Equal(t, 2, result.Total)
	assert.Len(t, result.Issues, 2)
}

func TestQueryAuditIssuesFiltersByIssueType(t *testing.T) {
	cache := openTestCache(t)
	seedAuditFixture(t, cache)
	svc := &Service{Cache: cache}

	result, toolErr := svc.QueryAuditIssues(context.Background(), QueryAuditIssuesParams{
		PathPrefix: "/music/", IssueType: "NO_TAGS",
	})

	require.Nil(t, toolErr)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "NO_TAGS", result.Issues[0].IssueType)
}

func TestQueryAuditIssuesPaginates(t *testing.T) {
	cache := openTestCache(t)
	seedAuditFixture(t, cache)
	svc := &Service{Cache: cache}

	result, toolErr := svc.QueryAuditIssues(context.Background(), QueryAuditIssuesParams{
		PathPrefix: "/music/", Limit: 1, Offset: 1,
	})

	require.Nil(t, toolErr)
	assert.Equal(t, 2, result.Total)
	assert.Len(t, result.Issues, 1)
}

func TestQueryAuditIssuesRejectsEmptyScope(t *testing.T) {
	cache := openTestCache(t)
	svc := &Service{Cache: cache}

	_, toolErr := svc.QueryAuditIssues(context.Background(), QueryAuditIssuesParams{PathPrefix: "/"})

	require.NotNil(t, toolErr)
	assert.Equal(t, CategoryInvalidInput, toolErr.Category)
}

func TestResolveAuditIssuesTransitionsStatus(t *testing.T) {
	cache := openTestCache(t)
	seedAuditFixture(t, cache)
	svc := &Service{Cache: cache}

	result, toolErr := svc.ResolveAuditIssues(context.Background(), ResolveAuditIssuesParams{
		Issues:     []AuditIssueKey{{Path: "/music/a.mp3", IssueType: "NO_TAGS"}},
		Resolution: string(libaudit.ResolutionAcceptedAsIs),
	})

	require.Nil(t, toolErr)
	assert.Equal(t, 1, result.Affected)

	issues, err := libaudit.QueryIssues(cache, "/music/", nil, nil)
	require.NoError(t, err)
	for _, issue := range issues {
		if issue.Path == "/music/a.mp3" {
			assert.Equal(t, cachestore.AuditIssueAcceptedAsIs, issue.Status)
		}
	}
}

func TestGetAuditSummaryBreaksDownByTypeAndTier(t *testing.T) {
	cache := openTestCache(t)
	seedAuditFixture(t, cache)
	svc := &Service{Cache: cache}

	report, toolErr := svc.GetAuditSummary(context.Background(), GetAuditSummaryParams{PathPrefix: "/music/"})

	require.Nil(t, toolErr)
	assert.Equal(t, int64(2), report.TotalOpen)
	assert.Contains(t, report.ByType, "NO_TAGS")
	assert.Contains(t, report.ByType, "GENRE_SET")
}
