package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kestrelsec/warden/internal/gate"
	"github.com/kestrelsec/warden/internal/models"
	"github.com/kestrelsec/warden/internal/services"
)

// SecurityHandler surfaces the gate's security state: metrics snapshot,
// audit trail, and manual block management.
type SecurityHandler struct {
	gate  *gate.Gate
	audit *services.AuditService
}

// NewSecurityHandler creates a new SecurityHandler.
func NewSecurityHandler(g *gate.Gate, audit *services.AuditService) *SecurityHandler {
	return &SecurityHandler{gate: g, audit: audit}
}

// GetSecurityMetrics returns the derived security metrics snapshot.
// GET /api/v1/security/metrics
func (h *SecurityHandler) GetSecurityMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.gate.SecurityMetrics())
}

// GetGateMetrics returns the gate's operational summary.
// GET /api/v1/security/gate
func (h *SecurityHandler) GetGateMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.gate.Metrics())
}

// ListThreats returns recent persisted threat records.
// GET /api/v1/security/threats?limit=N
func (h *SecurityHandler) ListThreats(c *gin.Context) {
	limit := queryLimit(c, 50)
	threats, err := h.audit.ListThreats(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list threats"})
		return
	}
	c.JSON(http.StatusOK, threats)
}

// ListDecisions returns recent persisted gate decisions.
// GET /api/v1/security/decisions?limit=N
func (h *SecurityHandler) ListDecisions(c *gin.Context) {
	limit := queryLimit(c, 50)
	decisions, err := h.audit.ListDecisions(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list decisions"})
		return
	}
	c.JSON(http.StatusOK, decisions)
}

type blockRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Reason     string `json:"reason"`
}

// Block manually blocks an identifier.
// POST /api/v1/security/block
func (h *SecurityHandler) Block(c *gin.Context) {
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifier is required"})
		return
	}

	h.gate.BlockIdentifier(req.Identifier, req.Reason)
	if h.audit != nil {
		_ = h.audit.LogDecision(&models.GateDecision{
			Source:     "manual",
			Action:     "block",
			Identifier: req.Identifier,
			Details:    req.Reason,
		})
	}
	c.Status(http.StatusNoContent)
}

// Unblock lifts a block early.
// DELETE /api/v1/security/block/:identifier
func (h *SecurityHandler) Unblock(c *gin.Context) {
	id := c.Param("identifier")
	if !h.gate.UnblockIdentifier(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "identifier is not blocked"})
		return
	}
	if h.audit != nil {
		_ = h.audit.LogDecision(&models.GateDecision{
			Source:     "manual",
			Action:     "unblock",
			Identifier: id,
		})
	}
	c.Status(http.StatusNoContent)
}

// BlockStatus reports whether an identifier is currently blocked.
// GET /api/v1/security/blocked/:identifier
func (h *SecurityHandler) BlockStatus(c *gin.Context) {
	id := c.Param("identifier")
	entry, blocked := h.gate.BlockEntry(id)
	if !blocked {
		c.JSON(http.StatusOK, gin.H{"identifier": id, "blocked": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"identifier": id,
		"blocked":    true,
		"reason":     entry.Reason,
		"expires_at": entry.ExpiresAt,
	})
}

func queryLimit(c *gin.Context, fallback int) int {
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
