package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ElementsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "osmdoc_elements_total",
			Help: "Total number of elements read from input files",
		},
	)

	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "osmdoc_records_total",
			Help: "Total number of shaped records",
		},
		[]string{"type"},
	)

	InsertedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "osmdoc_inserted_records_total",
			Help: "Total number of records inserted into collections",
		},
		[]string{"backend", "collection"},
	)
)

// RecordInsert counts n records inserted into collection.
func RecordInsert(backend, collection string, n int) {
	InsertedTotal.WithLabelValues(backend, collection).Add(float64(n))
}
