package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kestrelsec/warden/internal/gate"
	"github.com/kestrelsec/warden/internal/gate/scanner"
	"github.com/kestrelsec/warden/internal/metrics"
	"github.com/kestrelsec/warden/internal/models"
	"github.com/kestrelsec/warden/internal/services"
)

// ValidateHandler exposes the gate's validation entry points over HTTP.
type ValidateHandler struct {
	gate  *gate.Gate
	audit *services.AuditService
}

// NewValidateHandler wires a ValidateHandler.
func NewValidateHandler(g *gate.Gate, audit *services.AuditService) *ValidateHandler {
	return &ValidateHandler{gate: g, audit: audit}
}

// Input validates an inbound query payload.
// POST /api/v1/validate/input
func (h *ValidateHandler) Input(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}
	h.respond(c, h.gate.ValidateInput(payload))
}

// Plan validates an action plan the agent intends to execute.
// POST /api/v1/validate/plan
func (h *ValidateHandler) Plan(c *gin.Context) {
	var plan scanner.ActionPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON action plan"})
		return
	}
	h.respond(c, h.gate.ValidateActionPlan(&plan))
}

// Solution validates a candidate solution before it is emitted.
// POST /api/v1/validate/solution
func (h *ValidateHandler) Solution(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}
	h.respond(c, h.gate.ValidateSolution(payload))
}

func (h *ValidateHandler) respond(c *gin.Context, err error) {
	if err == nil {
		metrics.IncValidation("pass")
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	if errors.Is(err, gate.ErrNotInitialized) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	metrics.IncValidation("reject")

	var v *scanner.Violation
	if errors.As(err, &v) {
		if h.audit != nil {
			_ = h.audit.LogDecision(&models.GateDecision{
				Source:     "scanner",
				Action:     "reject",
				Identifier: c.ClientIP(),
				RuleID:     v.RuleID,
				Details:    v.Detail,
			})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": v.Detail, "kind": string(v.Kind), "rule_id": v.RuleID})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
