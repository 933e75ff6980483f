package batcher

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Names_Follow_Conventions(t *testing.T) {
	req := require.New(t)

	// Given every vector has at least one series
	judgeCallCount.WithLabelValues("single", "ok").Add(0)
	judgeCallDuration.WithLabelValues("single").Observe(0)
	failOpenCount.WithLabelValues("closed").Add(0)
	cacheLookupCount.WithLabelValues("miss").Add(0)

	// Then the linter has nothing to report
	for _, collector := range []prometheus.Collector{judgeCallCount, judgeCallDuration, dispatchSize, failOpenCount, cacheLookupCount} {
		problems, err := testutil.CollectAndLint(collector)
		req.NoError(err)
		req.Empty(problems)
	}
}
