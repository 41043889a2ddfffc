// Copyright 2025 Certen Protocol
//
// Package metrics exposes the Prometheus counters and gauges that
// observe the gateway and ITS engines, grounded in the registry/gauge
// construction pattern the wider example corpus uses for node health
// metrics (prometheus.NewRegistry + prometheus.New{Gauge,Counter}).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles every counter and gauge this module exports. It is
// constructed once at process start and held by the process entry point,
// never as package-level state. No gateway or ITS function takes it, so
// nothing in this module increments these metrics.
type Metrics struct {
	registry *prometheus.Registry

	SessionsOpened          prometheus.Counter
	QuorumReached           prometheus.Counter
	MessagesApproved        prometheus.Counter
	MessagesExecuted        prometheus.Counter
	FlowLimitRejections     prometheus.Counter
	Rotations               prometheus.Counter
	RotationDelayWaived     prometheus.Counter
	VerifierSetTrackerEpoch prometheus.Gauge
}

// New constructs and registers every metric against a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{registry: reg}

	m.SessionsOpened = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "axelar_solana_sessions_opened_total",
		Help: "Total number of signature-verification sessions opened.",
	})
	m.QuorumReached = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "axelar_solana_quorum_reached_total",
		Help: "Total number of sessions that reached quorum.",
	})
	m.MessagesApproved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "axelar_solana_messages_approved_total",
		Help: "Total number of incoming messages approved.",
	})
	m.MessagesExecuted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "axelar_solana_messages_executed_total",
		Help: "Total number of incoming messages executed.",
	})
	m.FlowLimitRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "axelar_solana_flow_limit_rejections_total",
		Help: "Total number of transfers rejected for exceeding a token's flow limit.",
	})
	m.Rotations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "axelar_solana_rotations_total",
		Help: "Total number of verifier-set rotations committed.",
	})
	m.RotationDelayWaived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "axelar_solana_rotation_delay_waived_total",
		Help: "Total number of rotations that waived the minimum rotation delay via operator override.",
	})
	m.VerifierSetTrackerEpoch = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "axelar_solana_current_epoch",
		Help: "The root configuration's current verifier-set epoch.",
	})

	reg.MustRegister(
		m.SessionsOpened,
		m.QuorumReached,
		m.MessagesApproved,
		m.MessagesExecuted,
		m.FlowLimitRejections,
		m.Rotations,
		m.RotationDelayWaived,
		m.VerifierSetTrackerEpoch,
	)
	return m
}

// Registry returns the registry metrics were registered against, for
// wiring into an HTTP handler via promhttp.HandlerFor.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
