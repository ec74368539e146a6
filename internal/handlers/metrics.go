package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchdesk_session_events_total",
		Help: "Total number of session events applied, by event",
	}, []string{"event"})

	validationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchdesk_validation_failures_total",
		Help: "Total number of rejected user inputs, by message",
	}, []string{"message"})

	predictionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchdesk_prediction_outcomes_total",
		Help: "Total number of settled prediction requests, by outcome",
	}, []string{"outcome"})

	auditDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchdesk_audit_records_rejected_total",
		Help: "Audit records the handlers could not enqueue",
	})
)
