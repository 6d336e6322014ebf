package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kestrelsec/warden/internal/gate"
	"github.com/kestrelsec/warden/internal/logger"
	"github.com/kestrelsec/warden/internal/models"
	"github.com/kestrelsec/warden/internal/util"
)

const maxDetailLen = 500

// AuditService persists gate events and decisions. It implements
// gate.EventSink so it can subscribe directly to the security metrics log.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService returns an AuditService using the provided DB.
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// LogThreat stores a threat or vulnerability record.
func (s *AuditService) LogThreat(r *models.ThreatRecord) error {
	if r == nil {
		return nil
	}
	if r.UUID == "" {
		r.UUID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.Detail = util.Truncate(util.SanitizeForLog(r.Detail), maxDetailLen)
	return s.db.Create(r).Error
}

// LogDecision stores an admission/validation decision record.
func (s *AuditService) LogDecision(d *models.GateDecision) error {
	if d == nil {
		return nil
	}
	if d.UUID == "" {
		d.UUID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	d.Details = util.Truncate(util.SanitizeForLog(d.Details), maxDetailLen)
	return s.db.Create(d).Error
}

// ListThreats returns recent threat records, newest first.
func (s *AuditService) ListThreats(limit int) ([]models.ThreatRecord, error) {
	var res []models.ThreatRecord
	q := s.db.Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

// ListDecisions returns recent decisions, newest first.
func (s *AuditService) ListDecisions(limit int) ([]models.GateDecision, error) {
	var res []models.GateDecision
	q := s.db.Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

// OnThreat persists a threat event from the gate. Persistence failures are
// logged, never propagated back into the validation path.
func (s *AuditService) OnThreat(e gate.ThreatEvent) {
	rec := &models.ThreatRecord{
		Kind:      "threat",
		Type:      string(e.Type),
		Severity:  string(e.Severity),
		Detail:    e.Detail,
		CreatedAt: e.Timestamp,
	}
	if err := s.LogThreat(rec); err != nil {
		logger.Log().WithError(err).Warn("audit: failed to persist threat event")
	}
}

// OnVulnerability persists a vulnerability event from the gate.
func (s *AuditService) OnVulnerability(e gate.ThreatEvent) {
	rec := &models.ThreatRecord{
		Kind:      "vulnerability",
		Type:      string(e.Type),
		Severity:  string(e.Severity),
		Detail:    e.Detail,
		CreatedAt: e.Timestamp,
	}
	if err := s.LogThreat(rec); err != nil {
		logger.Log().WithError(err).Warn("audit: failed to persist vulnerability event")
	}
}
