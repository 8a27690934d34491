package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics shared across packages are defined and initialized here.

var (
	// APIRequestsTotal counts the requests made to the asset API.
	APIRequestsTotal *prometheus.CounterVec

	// APIQueryTimeSummary measures the time spent on requests to the asset API.
	APIQueryTimeSummary *prometheus.SummaryVec

	// APIQueryErrorCount counts the failed requests to the asset API by error kind.
	APIQueryErrorCount *prometheus.CounterVec

	// NotificationsEmitted counts the user facing notifications emitted.
	NotificationsEmitted *prometheus.CounterVec
)

func init() {
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetctl_api_requests_total",
			Help: "A counter metric to measure the total count of requests made to the asset API",
		},
		[]string{"operation", "method"},
	)

	APIQueryTimeSummary = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "assetctl_api_query_duration_seconds",
			Help: "A summary metric to measure the duration of requests to the asset API",
		},
		[]string{"operation", "method"},
	)

	APIQueryErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetctl_api_query_errors_total",
			Help: "A counter metric to measure the total count of errors when querying the asset API.",
		},
		[]string{"operation", "kind"},
	)

	NotificationsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetctl_notifications_emitted_total",
			Help: "A counter metric to measure the total count of user notifications emitted.",
		},
		// kind is one of success/error/info/warning
		[]string{"kind"},
	)
}

// ListenAndServe exposes prometheus metrics as /metrics on the given address.
func ListenAndServe(addr string) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		server := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 2 * time.Second, // nolint:gomnd // time duration value is clear as is.
		}

		if err := server.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()
}

// AddLabels returns a new map of labels with the current and add labels included.
func AddLabels(current, add prometheus.Labels) prometheus.Labels {
	returned := map[string]string{}

	for l, v := range current {
		returned[l] = v
	}

	for l, v := range add {
		returned[l] = v
	}

	return returned
}
