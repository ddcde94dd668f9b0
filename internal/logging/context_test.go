// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, CorrelationIDFromContext(ctx))

	ctx = ContextWithCorrelationID(ctx, "fixed-id")
	assert.Equal(t, "fixed-id", CorrelationIDFromContext(ctx))
}

func TestContextWithNewCorrelationID(t *testing.T) {
	ctx := ContextWithNewCorrelationID(context.Background())
	id := CorrelationIDFromContext(ctx)
	assert.Len(t, id, 8)
}

func TestCtxUsesStoredLogger(t *testing.T) {
	ctx := ContextWithCorrelationID(context.Background(), "req-1")
	logger := Ctx(ctx)
	assert.NotNil(t, logger)
}
