package httptransport

import "expvar"

var (
	metricArenaInitTotal   = expvar.NewInt("arena_init_total")
	metricArenaInitErrors  = expvar.NewInt("arena_init_errors_total")
	metricWagerPlaceTotal  = expvar.NewInt("wager_place_total")
	metricWagerPlaceErrors = expvar.NewInt("wager_place_errors_total")

	metricSSEConnectionsTotal  = expvar.NewInt("arena_sse_connections_total")
	metricSSEConnectionsActive = expvar.NewInt("arena_sse_connections_active")
)
