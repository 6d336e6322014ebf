package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kestrelsec/warden/internal/gate"
)

var (
	admissionAllowedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warden_admission_allowed_total",
		Help: "Total number of requests admitted by the rate limiter",
	})
	admissionRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warden_admission_rejected_total",
		Help: "Total number of requests rejected by the rate limiter or block list",
	})
	validationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_validations_total",
		Help: "Total number of payload validations by result",
	}, []string{"result"})
	threatsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_threats_total",
		Help: "Total number of recorded threat events by type",
	}, []string{"type"})
	vulnerabilitiesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warden_vulnerabilities_total",
		Help: "Total number of recorded vulnerability events",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(admissionAllowedTotal, admissionRejectedTotal, validationsTotal, threatsTotal, vulnerabilitiesTotal)
}

// IncAdmissionAllowed counts one admitted request.
func IncAdmissionAllowed() { admissionAllowedTotal.Inc() }

// IncAdmissionRejected counts one rejected request.
func IncAdmissionRejected() { admissionRejectedTotal.Inc() }

// IncValidation counts one validation call by result ("pass" or "reject").
func IncValidation(result string) { validationsTotal.WithLabelValues(result).Inc() }

// GateSink exports gate security events as Prometheus counters.
type GateSink struct{}

// OnThreat counts a recorded threat event.
func (GateSink) OnThreat(e gate.ThreatEvent) {
	threatsTotal.WithLabelValues(string(e.Type)).Inc()
}

// OnVulnerability counts a recorded vulnerability event.
func (GateSink) OnVulnerability(gate.ThreatEvent) {
	vulnerabilitiesTotal.Inc()
}
