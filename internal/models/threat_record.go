package models

import (
	"time"
)

// ThreatRecord persists one security event (threat or vulnerability) for the
// audit trail. The in-memory gate log stays authoritative for scoring; rows
// here exist so events survive restarts and can be listed in the API.
type ThreatRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UUID      string    `json:"uuid" gorm:"uniqueIndex"`
	Kind      string    `json:"kind" gorm:"index"` // threat, vulnerability
	Type      string    `json:"type" gorm:"index"` // e.g. malicious_content, injection_attack
	Severity  string    `json:"severity"`
	Detail    string    `json:"detail" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
