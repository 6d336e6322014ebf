package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionPlanScanner_ScanTags(t *testing.T) {
	s := NewActionPlanScanner()

	plan := &ActionPlan{
		Name: "deploy",
		Steps: []string{
			"file_system write to workspace",
			"system_command to restart service",
			"privilege_escalation to root",
		},
	}
	raw, err := Serialize(plan)
	require.NoError(t, err)

	findings := s.ScanTags(raw)
	require.Len(t, findings, 3)
	for _, f := range findings {
		assert.Equal(t, ThreatDangerousAction, f.Type)
		assert.Equal(t, SeverityHigh, f.Severity)
	}

	ids := []string{findings[0].RuleID, findings[1].RuleID, findings[2].RuleID}
	assert.Equal(t, []string{"action-file-system", "action-system-command", "action-privilege"}, ids)
}

func TestActionPlanScanner_ScanTagsCleanPlan(t *testing.T) {
	s := NewActionPlanScanner()

	raw, err := Serialize(&ActionPlan{Name: "summarize", Steps: []string{"read prompt", "draft text"}})
	require.NoError(t, err)
	assert.Empty(t, s.ScanTags(raw))
}

func TestActionPlanScanner_CheckPermissions(t *testing.T) {
	s := NewActionPlanScanner()

	granted := []string{"read", "compute"}

	assert.NoError(t, s.CheckPermissions(nil, granted))
	assert.NoError(t, s.CheckPermissions([]string{"read"}, granted))
	assert.NoError(t, s.CheckPermissions([]string{"read", "compute"}, granted))

	err := s.CheckPermissions([]string{"read", "network"}, granted)
	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, KindPermission, v.Kind)
	assert.Contains(t, v.Detail, `"network"`)

	// Nothing is granted implicitly when the granted set is empty.
	err = s.CheckPermissions([]string{"read"}, nil)
	require.ErrorAs(t, err, &v)
	assert.Equal(t, KindPermission, v.Kind)
}

func TestActionPlanScanner_CheckResources(t *testing.T) {
	s := NewActionPlanScanner()
	ceilings := DefaultResourceCeilings()

	// A claim exactly at the ceilings passes.
	assert.NoError(t, s.CheckResources(ceilings))
	assert.NoError(t, s.CheckResources(ResourceClaim{}))

	tests := []struct {
		name   string
		claim  ResourceClaim
		ruleID string
	}{
		{"memory", ResourceClaim{MemoryBytes: ceilings.MemoryBytes + 1}, "plan-resource-memory"},
		{"cpu", ResourceClaim{CPUPercent: 99}, "plan-resource-cpu"},
		{"time", ResourceClaim{TimeMs: ceilings.TimeMs + 1}, "plan-resource-time"},
		{"network", ResourceClaim{NetworkKBps: ceilings.NetworkKBps + 1}, "plan-resource-network"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CheckResources(tt.claim)
			var v *Violation
			require.ErrorAs(t, err, &v)
			assert.Equal(t, KindResource, v.Kind)
			assert.Equal(t, tt.ruleID, v.RuleID)
		})
	}
}

func TestActionPlanScanner_FirstExceededResourceWins(t *testing.T) {
	s := NewActionPlanScanner()
	ceilings := DefaultResourceCeilings()

	err := s.CheckResources(ResourceClaim{
		MemoryBytes: ceilings.MemoryBytes + 1,
		CPUPercent:  100,
	})
	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "plan-resource-memory", v.RuleID)
}
