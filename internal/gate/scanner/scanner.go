// Package scanner implements the pattern-based threat scanning stages used
// by the gate: content, structure, injection, action-plan and solution-safety
// checks, each driven by a swappable rule table.
package scanner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Severity classifies how serious a rule match is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ThreatType identifies the class of a detected threat.
type ThreatType string

const (
	ThreatMaliciousContent ThreatType = "malicious_content"
	ThreatInjectionAttack  ThreatType = "injection_attack"
	ThreatDangerousAction  ThreatType = "dangerous_action"
)

// Kind identifies which validation stage rejected a payload.
type Kind string

const (
	KindContent    Kind = "content"
	KindStructure  Kind = "structure"
	KindInjection  Kind = "injection"
	KindPermission Kind = "permission"
	KindResource   Kind = "resource"
)

// Violation is the typed failure returned by scanning stages. Callers must
// treat it as "reject this payload", not as a retryable condition.
type Violation struct {
	Kind   Kind
	RuleID string
	Detail string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s violation: %s", v.Kind, v.Detail)
}

// Finding describes a single rule match. Findings are recorded into the
// security metrics log whether or not the stage rejects the payload.
type Finding struct {
	RuleID   string
	Type     ThreatType
	Severity Severity
	Detail   string
}

// MaxPayloadBytes is the ceiling on the serialized payload size.
const MaxPayloadBytes = 1 << 20

// Serialize produces the single serialized representation that every stage
// scans. Payloads that cannot be serialized (cycles, unsupported values) are
// rejected here, before any stage runs, so adversarial input never triggers
// a second serialization attempt. HTML escaping is off: the rule tables must
// see <, > and & as the payload wrote them, not as < escapes.
func Serialize(payload any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return "", &Violation{
			Kind:   KindStructure,
			RuleID: "structure-serialize",
			Detail: fmt.Sprintf("payload cannot be serialized: %v", err),
		}
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
