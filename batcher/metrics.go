package batcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var judgeCallCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chatrules_judge_calls_total",
	Help: "Number of calls made to the judgment service",
}, []string{"mode", "outcome"})

var judgeCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "chatrules_judge_call_duration_seconds",
	Help: "Duration of calls to the judgment service",
}, []string{"mode"})

var dispatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "chatrules_batch_dispatch_size",
	Help:    "Number of requests released per dispatch cycle",
	Buckets: []float64{1, 2, 3, 4, 5, 8, 13},
})

var failOpenCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chatrules_fail_open_total",
	Help: "Number of requests resolved compliant without a verdict",
}, []string{"cause"})

var cacheLookupCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chatrules_verdict_cache_lookups_total",
	Help: "Verdict cache lookups by result",
}, []string{"result"})
