package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 问答管道运行指标
var (
	QuestionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beanhub",
		Subsystem: "pipeline",
		Name:      "questions_total",
		Help:      "Questions answered, labelled by resolution route.",
	}, []string{"route"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "beanhub",
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Wall time spent in each pipeline stage.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})

	StreamEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beanhub",
		Subsystem: "pipeline",
		Name:      "stream_events_total",
		Help:      "Streaming events emitted, labelled by event type.",
	}, []string{"type"})

	GeneLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beanhub",
		Subsystem: "genes",
		Name:      "lookups_total",
		Help:      "Gene record resolutions, labelled by record source.",
	}, []string{"source"})
)

// 路由标签
const (
	RouteLiterature = "literature"
	RouteBeanData   = "bean_data"
	RouteNoMatch    = "no_match"
)

// ObserveStage 记录某阶段自start起的耗时
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
