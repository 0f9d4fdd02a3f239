package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var TotalRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reviewhub_http_requests_total",
		Help: "Number of http requests.",
	},
	[]string{"path", "code", "method"},
)

var HttpDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "reviewhub_http_request_duration_seconds_historgram",
		Buckets: []float64{
			0.1, // 100 ms
			0.2,
			0.25,
			0.5,
			1,
			1.5,
			3,
			5,
			10,
		},
	},
	[]string{"path", "code", "method"},
)

var SchedulerTicksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reviewhub_scheduler_ticks_total",
		Help: "Number of scheduler ticks executed by this instance.",
	},
	[]string{"phase"},
)

var PermissionRemovalsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reviewhub_permission_removals_total",
		Help: "Number of permission removal attempts.",
	},
	[]string{"result"},
)
