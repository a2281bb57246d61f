package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "interestmatch_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RankingCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "interestmatch_ranking_candidates",
			Help:    "Number of users sharing at least one interest with the viewer",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	InterestsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interestmatch_user_interests_added_total",
			Help: "User interest edges created",
		},
	)

	InterestsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interestmatch_user_interests_removed_total",
			Help: "User interest edges deleted",
		},
	)

	CatalogCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interestmatch_catalog_cache_hits_total",
			Help: "Catalog reads served from cache",
		},
	)

	CatalogCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interestmatch_catalog_cache_misses_total",
			Help: "Catalog reads that went to the database",
		},
	)
)
