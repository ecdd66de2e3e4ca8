package coordinatorapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the coordinator API surface, following the
// teacher's convention of package-level promauto collectors registered at
// init time rather than threaded through every call site.
var (
	executorsRegisteredCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coordinator_executors_registered_total",
		Help: "counter of RegisterExecutor calls handled, including re-registrations",
	})
	tasksDeliveredCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinator_tasks_delivered_total",
		Help: "counter of tasks delivered to executors over the heartbeat stream",
	}, []string{"extractor"})
	heartbeatStreamsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coordinator_heartbeat_streams_open",
		Help: "gauge of currently open executor heartbeat streams",
	})
	writeRejectedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinator_proposal_rejected_total",
		Help: "counter of client_write proposals rejected at apply time, by command kind",
	}, []string{"kind"})
)
