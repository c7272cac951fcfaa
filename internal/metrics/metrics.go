package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_worker_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	SessionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "import_worker_session_duration_seconds",
			Help:    "Duration of each import session in seconds.",
			Buckets: []float64{30, 60, 180, 300, 600, 900},
		},
	)
	SiteStepDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "import_worker_site_step_duration_seconds",
			Help:       "Duration of each step while processing one site.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)
	ImportedJobsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "import_worker_jobs_imported_total",
			Help: "Total number of jobs inserted into the store.",
		},
	)
	DuplicateJobsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "import_worker_jobs_duplicates_total",
			Help: "Total number of extracted jobs skipped as duplicates.",
		},
	)
)

func StartMetricsServer(port int) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(SessionDuration)
	prometheus.MustRegister(SiteStepDuration)
	prometheus.MustRegister(ImportedJobsCounter)
	prometheus.MustRegister(DuplicateJobsCounter)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), mux))
	}()
}
