package metrics

import (
	"errors"

	coremetrics "github.com/kilianp07/dellve/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromRecorder records configuration activity in Prometheus counters.
type PromRecorder struct {
	loads *prometheus.CounterVec
	sets  *prometheus.CounterVec
}

var _ coremetrics.Recorder = (*PromRecorder)(nil)

// NewPromRecorder registers config metrics on the default Prometheus registerer.
func NewPromRecorder() (*PromRecorder, error) {
	return NewPromRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromRecorderWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromRecorderWithRegistry(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dellve_config_loads_total",
		Help: "Total number of configuration documents loaded",
	}, []string{"format", "result"})
	sets := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dellve_config_sets_total",
		Help: "Total number of configuration key writes",
	}, []string{"key"})

	var err error
	if loads, err = registerCounterVec(reg, loads); err != nil {
		return nil, err
	}
	if sets, err = registerCounterVec(reg, sets); err != nil {
		return nil, err
	}
	return &PromRecorder{loads: loads, sets: sets}, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return c, nil
}

// RecordLoad increments the load counter labelled with the outcome.
func (r *PromRecorder) RecordLoad(format string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.loads.WithLabelValues(format, result).Inc()
}

// RecordSet increments the write counter for key.
func (r *PromRecorder) RecordSet(key string) {
	r.sets.WithLabelValues(key).Inc()
}
