package gate

import (
	"sync"
	"time"

	"github.com/kestrelsec/warden/internal/gate/scanner"
)

// ThreatEvent is one recorded rule match or security failure. Events are
// append-only and never mutated; the log lives for the process lifetime.
type ThreatEvent struct {
	Type      scanner.ThreatType `json:"type"`
	Detail    string             `json:"detail"`
	Severity  scanner.Severity   `json:"severity"`
	Timestamp time.Time          `json:"timestamp"`
}

// Snapshot is the derived view of the security metrics, recomputed on read.
type Snapshot struct {
	ThreatsDetected    int     `json:"threats_detected"`
	ThreatsBlocked     int     `json:"threats_blocked"`
	Vulnerabilities    int     `json:"vulnerabilities"`
	Integrity          float64 `json:"integrity"`
	Score              int     `json:"score"`
	ThreatLevel        string  `json:"threat_level"`
	VulnerabilityLevel string  `json:"vulnerability_level"`
}

// EventSink receives each event as it is recorded. Sinks are how the gate's
// observers (audit log, notifier, exporter counters) subscribe, instead of
// the gate emitting globally.
type EventSink interface {
	OnThreat(e ThreatEvent)
	OnVulnerability(e ThreatEvent)
}

// SecurityMetrics aggregates threat and vulnerability events into a running
// security score. Appends are safe under concurrent validation calls;
// ordering between concurrent events is not significant, only the counts
// and the recent entries.
type SecurityMetrics struct {
	mu        sync.Mutex
	threats   []ThreatEvent
	vulns     []ThreatEvent
	blocked   int
	integrity float64
	sinks     []EventSink
}

// NewSecurityMetrics returns an empty metrics log with full integrity.
func NewSecurityMetrics() *SecurityMetrics {
	return &SecurityMetrics{integrity: 1.0}
}

// Subscribe registers a sink for subsequent events.
func (m *SecurityMetrics) Subscribe(sink EventSink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, sink)
}

// RecordThreat appends a threat event and notifies sinks.
func (m *SecurityMetrics) RecordThreat(e ThreatEvent) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	m.mu.Lock()
	m.threats = append(m.threats, e)
	sinks := append([]EventSink(nil), m.sinks...)
	m.mu.Unlock()

	// Sinks run outside the lock; a sink doing I/O must not stall appends.
	for _, s := range sinks {
		s.OnThreat(e)
	}
}

// RecordVulnerability appends a vulnerability event and notifies sinks.
func (m *SecurityMetrics) RecordVulnerability(e ThreatEvent) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	m.mu.Lock()
	m.vulns = append(m.vulns, e)
	sinks := append([]EventSink(nil), m.sinks...)
	m.mu.Unlock()

	for _, s := range sinks {
		s.OnVulnerability(e)
	}
}

// RecordBlocked counts one rejected validation call.
func (m *SecurityMetrics) RecordBlocked() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocked++
}

// SetIntegrity sets the externally-maintained integrity gauge. It is not
// derived from the event counts.
func (m *SecurityMetrics) SetIntegrity(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.integrity = v
}

// Snapshot recomputes the derived metrics from the event logs.
func (m *SecurityMetrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	threats := len(m.threats)
	vulns := len(m.vulns)
	score := 100 - 10*threats - 5*vulns
	if score < 0 {
		score = 0
	}

	return Snapshot{
		ThreatsDetected:    threats,
		ThreatsBlocked:     m.blocked,
		Vulnerabilities:    vulns,
		Integrity:          m.integrity,
		Score:              score,
		ThreatLevel:        threatLevel(threats),
		VulnerabilityLevel: vulnerabilityLevel(vulns),
	}
}

// RecentThreats returns up to limit of the most recently recorded threat
// events, newest last.
func (m *SecurityMetrics) RecentThreats(limit int) []ThreatEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 || limit > len(m.threats) {
		limit = len(m.threats)
	}
	out := make([]ThreatEvent, limit)
	copy(out, m.threats[len(m.threats)-limit:])
	return out
}

func threatLevel(n int) string {
	switch {
	case n > 10:
		return "critical"
	case n > 5:
		return "high"
	case n > 2:
		return "medium"
	default:
		return "low"
	}
}

func vulnerabilityLevel(n int) string {
	switch {
	case n > 5:
		return "critical"
	case n > 2:
		return "high"
	case n > 0:
		return "medium"
	default:
		return "low"
	}
}
