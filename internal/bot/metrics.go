package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stockbot_events_total",
		Help: "Inbound webhook events handled.",
	})
	metricDuplicates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stockbot_duplicate_events_total",
		Help: "Events dropped by the durable dedup layer.",
	})
	metricCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockbot_commands_total",
		Help: "Parsed commands by kind.",
	}, []string{"kind"})
	metricOutbound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockbot_outbound_total",
		Help: "Outbound attempts by result.",
	}, []string{"result"})
)
