package metrics

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/temirov/redboar/internal/adapters"
	"github.com/temirov/redboar/internal/classifier"
	"github.com/temirov/redboar/internal/execshell"
	"github.com/temirov/redboar/internal/orchestrator"
)

const (
	metricsNamespaceConstant           = "redboar"
	metricsSubsystemConstant           = "scan"
	labelToolConstant                  = "tool"
	labelOutcomeConstant               = "outcome"
	labelCategoryConstant              = "category"
	labelReasonConstant                = "reason"
	diagnosticCategoryConstant         = "diagnostic"
	rejectionReasonValidationConstant  = "validation"
	rejectionReasonResolutionConstant  = "resolution"
	rejectionReasonActiveConstant      = "run_active"
	rejectionReasonUnknownToolConstant = "unknown_tool"
	rejectionReasonOtherConstant       = "other"
	registrationErrorTemplateConstant  = "failed to register run metrics: %w"
)

var runDurationBuckets = []float64{0.5, 1, 5, 15, 30, 60, 300, 900, 1800, 3600}

// RunMetrics is an orchestrator.RunObserver that counts runs, their outcomes,
// durations and classified output lines.
type RunMetrics struct {
	registry *prometheus.Registry

	runsTotal       *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	outputLines     *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	activeRuns      prometheus.Gauge
}

// NewRunMetrics creates the collectors in a fresh registry.
func NewRunMetrics() (*RunMetrics, error) {
	runMetrics := &RunMetrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespaceConstant,
				Subsystem: metricsSubsystemConstant,
				Name:      "runs_total",
				Help:      "Finished scan runs by tool and terminal outcome.",
			},
			[]string{labelToolConstant, labelOutcomeConstant},
		),
		rejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespaceConstant,
				Subsystem: metricsSubsystemConstant,
				Name:      "rejections_total",
				Help:      "Scan start requests refused before spawning.",
			},
			[]string{labelToolConstant, labelReasonConstant},
		),
		outputLines: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespaceConstant,
				Subsystem: metricsSubsystemConstant,
				Name:      "output_lines_total",
				Help:      "Output lines by tool and display category.",
			},
			[]string{labelToolConstant, labelCategoryConstant},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespaceConstant,
				Subsystem: metricsSubsystemConstant,
				Name:      "run_duration_seconds",
				Help:      "Wall-clock duration of finished scan runs.",
				Buckets:   runDurationBuckets,
			},
			[]string{labelToolConstant, labelOutcomeConstant},
		),
		activeRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespaceConstant,
				Subsystem: metricsSubsystemConstant,
				Name:      "active_runs",
				Help:      "Scan runs currently streaming output.",
			},
		),
	}

	collectors := []prometheus.Collector{
		runMetrics.runsTotal,
		runMetrics.rejectionsTotal,
		runMetrics.outputLines,
		runMetrics.runDuration,
		runMetrics.activeRuns,
	}
	for _, collector := range collectors {
		if registerError := runMetrics.registry.Register(collector); registerError != nil {
			return nil, fmt.Errorf(registrationErrorTemplateConstant, registerError)
		}
	}
	return runMetrics, nil
}

// Registry exposes the underlying registry.
func (runMetrics *RunMetrics) Registry() *prometheus.Registry {
	return runMetrics.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (runMetrics *RunMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(runMetrics.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// RunStarted implements orchestrator.RunObserver.
func (runMetrics *RunMetrics) RunStarted(orchestrator.RunHandle) {
	runMetrics.activeRuns.Inc()
}

// RunOutput implements orchestrator.RunObserver.
func (runMetrics *RunMetrics) RunOutput(run orchestrator.RunHandle, event execshell.OutputEvent) {
	if event.IsTerminal() {
		return
	}
	category := diagnosticCategoryConstant
	if !event.Diagnostic {
		category = string(classifier.Classify(run.ToolName, event.Line))
	}
	runMetrics.outputLines.WithLabelValues(run.ToolName, category).Inc()
}

// RunFinished implements orchestrator.RunObserver.
func (runMetrics *RunMetrics) RunFinished(status orchestrator.RunStatus) {
	runMetrics.activeRuns.Dec()
	outcome := string(status.Outcome)
	runMetrics.runsTotal.WithLabelValues(status.ToolName, outcome).Inc()
	runMetrics.runDuration.WithLabelValues(status.ToolName, outcome).Observe(status.Duration().Seconds())
}

// RunRejected implements orchestrator.RunObserver.
func (runMetrics *RunMetrics) RunRejected(request orchestrator.StartRequest, rejection error) {
	runMetrics.rejectionsTotal.WithLabelValues(request.ToolName, rejectionReason(rejection)).Inc()
}

func rejectionReason(rejection error) string {
	var validationError *adapters.ValidationError
	var resolutionError *orchestrator.ResolutionError
	switch {
	case errors.Is(rejection, orchestrator.ErrRunActive):
		return rejectionReasonActiveConstant
	case errors.Is(rejection, adapters.ErrUnknownTool):
		return rejectionReasonUnknownToolConstant
	case errors.As(rejection, &validationError):
		return rejectionReasonValidationConstant
	case errors.As(rejection, &resolutionError):
		return rejectionReasonResolutionConstant
	default:
		return rejectionReasonOtherConstant
	}
}
