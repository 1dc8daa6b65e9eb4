/*
Package monitoring provides Prometheus metrics for the browser simulator.

# Overview

Each Metrics owns a private registry, so several servers (or tests) can run
in one process without duplicate registration panics.

# Metrics

  - browsim_http_requests_total{method,path,status}
  - browsim_http_request_duration_seconds{method,path}
  - browsim_navigations_total{intent}
  - browsim_history_persist_errors_total
  - browsim_tabs_open, browsim_history_entries
  - browsim_storage_operation_duration_seconds{op,status}
  - browsim_ws_connections, browsim_ws_messages_total{direction,type}
  - browsim_uptime_seconds

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Metrics satisfies navigation.Recorder
	coord := navigation.New(res, tabs.New(), store, navigation.WithRecorder(metrics))
*/
package monitoring
