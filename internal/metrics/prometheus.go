package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crg_search_total",
			Help: "Search interpretations by outcome",
		},
		[]string{"outcome"},
	)

	InterpretationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crg_interpretation_duration_seconds",
			Help:    "End-to-end interpretation latency",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20},
		},
	)

	ExtractionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crg_extraction_failures_total",
			Help: "Completion responses with no valid filter object",
		},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crg_llm_tokens_used_total",
			Help: "Completion service tokens used",
		},
		[]string{"model", "type"},
	)

	GeocodeLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crg_geocode_lookups_total",
			Help: "Geocode lookups by result",
		},
		[]string{"result"},
	)

	GeocodeCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crg_geocode_cache_total",
			Help: "Geocode cache hits and misses",
		},
		[]string{"status"},
	)

	UsageEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crg_usage_events_total",
			Help: "Usage events recorded",
		},
		[]string{"event_type"},
	)
)

func Init() {
	prometheus.MustRegister(SearchTotal)
	prometheus.MustRegister(InterpretationDuration)
	prometheus.MustRegister(ExtractionFailures)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(GeocodeLookups)
	prometheus.MustRegister(GeocodeCache)
	prometheus.MustRegister(UsageEvents)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
