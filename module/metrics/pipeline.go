package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineCollector reports what the transition pipeline and the block
// executor have been doing.
type PipelineCollector struct {
	transitionsChecked *prometheus.CounterVec
	checkDuration      prometheus.Histogram
	blocksExecuted     prometheus.Counter
	eventsApplied      *prometheus.CounterVec
	creditsCharged     *prometheus.CounterVec
}

func NewPipelineCollector() *PipelineCollector {

	pc := &PipelineCollector{
		transitionsChecked: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "transitions_checked_total",
			Namespace: namespaceStateMachine,
			Subsystem: subsystemPipeline,
			Help:      "the number of state transitions run through the pipeline, by type and outcome",
		}, []string{"type", "outcome"}),
		checkDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:      "check_duration_seconds",
			Namespace: namespaceStateMachine,
			Subsystem: subsystemPipeline,
			Help:      "the duration of a full pipeline run for one state transition",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		blocksExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Name:      "blocks_executed_total",
			Namespace: namespaceStateMachine,
			Subsystem: subsystemExecution,
			Help:      "the number of blocks executed and committed",
		}),
		eventsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "events_applied_total",
			Namespace: namespaceStateMachine,
			Subsystem: subsystemExecution,
			Help:      "the number of execution events applied, by outcome",
		}, []string{"outcome"}),
		creditsCharged: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "credits_charged_total",
			Namespace: namespaceStateMachine,
			Subsystem: subsystemExecution,
			Help:      "the credits charged for executed blocks, by fee kind",
		}, []string{"kind"}),
	}

	return pc
}

func (pc *PipelineCollector) TransitionChecked(transitionType string, valid bool) {
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	pc.transitionsChecked.WithLabelValues(transitionType, outcome).Inc()
}

func (pc *PipelineCollector) CheckDuration(seconds float64) {
	pc.checkDuration.Observe(seconds)
}

func (pc *PipelineCollector) BlockExecuted() {
	pc.blocksExecuted.Inc()
}

func (pc *PipelineCollector) EventApplied(outcome string) {
	pc.eventsApplied.WithLabelValues(outcome).Inc()
}

func (pc *PipelineCollector) CreditsCharged(processing, storage uint64) {
	pc.creditsCharged.WithLabelValues("processing").Add(float64(processing))
	pc.creditsCharged.WithLabelValues("storage").Add(float64(storage))
}
