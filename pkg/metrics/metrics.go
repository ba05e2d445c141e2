// Package metrics declares the Prometheus collectors of the portal.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hrportal"

// Registry is the collector registry served on /metrics. A private registry
// keeps tests free of duplicate registration panics.
var Registry = prometheus.NewRegistry()

var (
	MatchesComputed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "matching",
		Name:      "computed_total",
		Help:      "Match computations by trigger.",
	}, []string{"trigger"})

	MatchPercentage = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "matching",
		Name:      "percentage",
		Help:      "Distribution of persisted match percentages.",
		Buckets:   []float64{10, 25, 40, 50, 60, 75, 90, 100},
	})

	ParseJobs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "resume",
		Name:      "parse_jobs_total",
		Help:      "Resume parse jobs by outcome.",
	}, []string{"outcome"})

	ParserLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "resume",
		Name:      "parser_duration_seconds",
		Help:      "Latency of resume parser backends.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9),
	}, []string{"backend", "status"})

	QueueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "resume",
		Name:      "queue_depth",
		Help:      "Parse queue size by queue.",
	}, []string{"queue"})

	ChatbotAnswers = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chatbot",
		Name:      "answers_total",
		Help:      "Chatbot answers by source.",
	}, []string{"source"})

	OverdueTasks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "onboarding",
		Name:      "overdue_tasks",
		Help:      "Open onboarding tasks past their due date at the last sweep.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		MatchesComputed,
		MatchPercentage,
		ParseJobs,
		ParserLatency,
		QueueDepth,
		ChatbotAnswers,
		OverdueTasks,
	)
}

// Handler exposes the registry as a fiber handler.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
