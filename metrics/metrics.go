// Package metrics exports solve timings, residuals and failures as prometheus collectors.
// Collectors are scoped to the registerer they are built with.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/notargets/gofredholm/inteq"
)

type Collectors struct {
	// solveDuration tracks wall time of assembly plus solve
	solveDuration *prometheus.HistogramVec
	// solveResidual is the residual of the latest solve
	solveResidual *prometheus.GaugeVec
	// solveTotal counts successful solves
	solveTotal *prometheus.CounterVec
	// solveFailures counts failed solves by stage
	solveFailures *prometheus.CounterVec
}

func NewCollectors(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)
	return &Collectors{
		solveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fredholm_solve_duration_seconds",
			Help:    "Fredholm solve duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
		}, []string{"method"}),
		solveResidual: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fredholm_solve_residual",
			Help: "Max residual of the latest solve",
		}, []string{"method"}),
		solveTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fredholm_solve_total",
			Help: "Total successful solves by method",
		}, []string{"method"}),
		solveFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fredholm_solve_failures_total",
			Help: "Total failed solves by method and stage",
		}, []string{"method", "stage"}),
	}
}

func (c *Collectors) ObserveSolve(method inteq.Method, elapsed time.Duration, residual float64) {
	label := method.String()
	c.solveDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	c.solveResidual.WithLabelValues(label).Set(residual)
	c.solveTotal.WithLabelValues(label).Inc()
}

// ObserveFailure records err under the stage carried by an inteq.SolveError, or "unknown"
func (c *Collectors) ObserveFailure(method inteq.Method, err error) {
	stage := "unknown"
	var se *inteq.SolveError
	if errors.As(err, &se) {
		stage = string(se.Stage)
	}
	c.solveFailures.WithLabelValues(method.String(), stage).Inc()
}
