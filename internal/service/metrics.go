package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// visibilityQueriesTotal: количество выборок файлов по режиму видимости.
	visibilityQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pf_visibility_queries_total",
		Help: "Количество выборок файлов по режиму видимости и результату.",
	}, []string{"mode", "result"})

	// visibilityQueryDuration: длительность выборок файлов.
	visibilityQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pf_visibility_query_duration_seconds",
		Help:    "Длительность выборок файлов по режиму видимости.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})

	// fileMutationsTotal: количество изменений файлов и прав.
	fileMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pf_file_mutations_total",
		Help: "Количество операций изменения файлов по типу и результату.",
	}, []string{"op", "result"})
)
