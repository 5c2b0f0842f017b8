package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatlab",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatlab",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Auth requests
	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatlab",
			Subsystem: "server",
			Name:      "auth_requests_total",
			Help:      "Total authentication requests",
		},
		[]string{"auth_type", "status"},
	)

	// Conversations
	ConversationsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chatlab",
			Subsystem: "server",
			Name:      "conversations_created_total",
			Help:      "Total conversations created",
		},
	)

	MessagesAppendedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatlab",
			Subsystem: "server",
			Name:      "messages_appended_total",
			Help:      "Total messages appended to conversations",
		},
		[]string{"source"},
	)

	// Generation
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatlab",
			Subsystem: "server",
			Name:      "generations_total",
			Help:      "Total AI generation requests by kind and outcome",
		},
		[]string{"kind", "provider", "status"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatlab",
			Subsystem: "server",
			Name:      "generation_duration_seconds",
			Help:      "AI generation duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"kind", "provider"},
	)

	// Provider errors
	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatlab",
			Subsystem: "server",
			Name:      "provider_errors_total",
			Help:      "Total provider call failures",
		},
		[]string{"provider", "error_type"},
	)
)

// NormalizeEndpoint collapses path parameters so metric cardinality stays bounded.
func NormalizeEndpoint(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, "user_") ||
			strings.HasPrefix(segment, "char_") ||
			strings.HasPrefix(segment, "conv_") ||
			strings.HasPrefix(segment, "msg_") {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
