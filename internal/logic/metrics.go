package logic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metalab_cache_hits_total",
		Help: "Responses served from the Redis cache",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metalab_cache_misses_total",
		Help: "Cache lookups that fell through to Postgres",
	})
)
