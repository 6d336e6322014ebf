package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"

	"github.com/kestrelsec/warden/internal/gate"
	"github.com/kestrelsec/warden/internal/gate/scanner"
	"github.com/kestrelsec/warden/internal/logger"
	"github.com/kestrelsec/warden/internal/util"
)

// Notifier pushes high-priority security events to external services via
// shoutrrr URLs (discord, slack, smtp, webhooks...). It implements
// gate.EventSink and ignores everything below its minimum severity.
type Notifier struct {
	urls        []string
	minSeverity scanner.Severity
	send        func(url, message string) error
}

// NewNotifier returns a notifier for the given shoutrrr URLs that alerts on
// critical events only.
func NewNotifier(urls []string) *Notifier {
	return &Notifier{
		urls:        urls,
		minSeverity: scanner.SeverityCritical,
		send: func(url, message string) error {
			return shoutrrr.Send(url, message)
		},
	}
}

// ShouldNotify reports whether an event of the given severity is pushed.
func (n *Notifier) ShouldNotify(sev scanner.Severity) bool {
	if len(n.urls) == 0 {
		return false
	}
	switch n.minSeverity {
	case scanner.SeverityCritical:
		return sev == scanner.SeverityCritical
	case scanner.SeverityHigh:
		return sev == scanner.SeverityCritical || sev == scanner.SeverityHigh
	default:
		return true
	}
}

// OnThreat pushes critical threat events to every configured URL.
func (n *Notifier) OnThreat(e gate.ThreatEvent) {
	if !n.ShouldNotify(e.Severity) {
		return
	}
	n.broadcast(fmt.Sprintf("[warden] %s threat: %s", e.Severity, util.SanitizeForLog(e.Detail)))
}

// OnVulnerability pushes critical vulnerability events.
func (n *Notifier) OnVulnerability(e gate.ThreatEvent) {
	if !n.ShouldNotify(e.Severity) {
		return
	}
	n.broadcast(fmt.Sprintf("[warden] %s vulnerability: %s", e.Severity, util.SanitizeForLog(e.Detail)))
}

func (n *Notifier) broadcast(message string) {
	for _, url := range n.urls {
		if err := n.send(url, message); err != nil {
			logger.Log().WithError(err).Warn("notifier: failed to send alert")
		}
	}
}
