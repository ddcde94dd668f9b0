// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCacheLookupsIncrements(t *testing.T) {
	CacheLookups.WithLabelValues("analysis", "hit").Inc()
	got := testutil.ToFloat64(CacheLookups.WithLabelValues("analysis", "hit"))
	assert.GreaterOrEqual(t, got, float64(1))
}

func TestBrokerAuthStateGauge(t *testing.T) {
	BrokerAuthState.Set(2)
	assert.Equal(t, float64(2), testutil.ToFloat64(BrokerAuthState))
}
