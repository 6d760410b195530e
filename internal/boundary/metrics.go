package boundary

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KirkDiggler/trainer-api/internal/errors"
)

const noCode = "none"

// Metrics counts classified faults
type Metrics struct {
	faults *prometheus.CounterVec
}

// NewMetrics creates the fault counter and registers it with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trainer_api",
			Name:      "faults_total",
			Help:      "Faults converted into error responses, by status, error code and kind.",
		}, []string{"status", "code", "kind"}),
	}

	if reg != nil {
		if err := reg.Register(m.faults); err != nil {
			return nil, errors.Wrap(err, "failed to register fault metrics")
		}
	}
	return m, nil
}

// Observe counts f. A nil Metrics is a no-op.
func (m *Metrics) Observe(f errors.Fault) {
	if m == nil {
		return
	}
	code := f.ErrorCode
	if code == "" {
		code = noCode
	}
	m.faults.WithLabelValues(strconv.Itoa(f.Status), code, f.Kind.String()).Inc()
}
