package features

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metalab_records_extracted_total",
		Help: "Match records turned into feature vectors",
	})

	recordsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "metalab_records_rejected_total",
		Help: "Match records skipped during feature extraction, by reason",
	}, []string{"reason"})
)
