package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/pwfilter/internal/security/password"
)

// Password filter metrics. Labels carry only verdict/reason/list kind, never
// accounts.

var (
	ValidationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pwfilter_validations_total",
		Help: "Validaciones por resultado y motivo",
	}, []string{"verdict", "reason"})

	ValidationLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pwfilter_validation_latency_ms",
		Help:    "Latencia de una validación en milisegundos",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 12),
	})

	EntriesScannedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pwfilter_entries_scanned_total",
		Help: "Entradas de lista comparadas, por lista",
	}, []string{"list"})

	AuditFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pwfilter_audit_failures_total",
		Help: "Registros de auditoría que un sink no pudo aceptar",
	})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{ValidationsTotal, ValidationLatency, EntriesScannedTotal, AuditFailuresTotal}
}

// Register registers the filter metrics on the given registry (or default if nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}
	return nil
}

// Observe records one finished validation.
func Observe(v password.Verdict, d time.Duration) {
	verdict := "rejected"
	if v.Compliant {
		verdict = "accepted"
	}
	ValidationsTotal.WithLabelValues(verdict, v.Reason.String()).Inc()
	ValidationLatency.Observe(float64(d) / float64(time.Millisecond))
	if v.Scanned.Dictionary > 0 {
		EntriesScannedTotal.WithLabelValues(password.DictionaryMatcher.Kind).Add(float64(v.Scanned.Dictionary))
	}
	if v.Scanned.Blacklist > 0 {
		EntriesScannedTotal.WithLabelValues(password.BlacklistMatcher.Kind).Add(float64(v.Scanned.Blacklist))
	}
}

// WriteTextfile dumps g (default gatherer if nil) in the node_exporter
// textfile format. The write is atomic.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return prometheus.WriteToTextfile(path, g)
}
