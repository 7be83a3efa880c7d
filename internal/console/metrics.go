package console

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var viewLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "console_view_loads_total",
		Help: "View load outcomes by view and status",
	},
	[]string{"view", "status"},
)

func observeLoad(view, status string) {
	viewLoadsTotal.WithLabelValues(view, status).Inc()
}
