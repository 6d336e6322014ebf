package models

import (
	"time"
)

// GateDecision stores an admission or validation decision taken by the gate
// (rate limiter, scanner, or manual override) so it can be audited and
// surfaced in the API.
type GateDecision struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UUID       string    `json:"uuid" gorm:"uniqueIndex"`
	Source     string    `json:"source"` // e.g. ratelimit, scanner, manual
	Action     string    `json:"action"` // allow, reject, block
	Identifier string    `json:"identifier" gorm:"index"`
	RuleID     string    `json:"rule_id"`
	Details    string    `json:"details" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}
