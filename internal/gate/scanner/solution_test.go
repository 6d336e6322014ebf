package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolutionScanner_CleanSolution(t *testing.T) {
	s := NewSolutionScanner()
	assert.Empty(t, s.Scan(`{"answer":"sort the records by creation date"}`))
}

func TestSolutionScanner_FlagsHarmAndBias(t *testing.T) {
	s := NewSolutionScanner()

	findings := s.Scan(`{"answer":"this shortcut is unsafe and discriminates against late joiners"}`)
	assert.Len(t, findings, 2)

	assert.Equal(t, "solution-harm", findings[0].RuleID)
	assert.Equal(t, SeverityHigh, findings[0].Severity)
	assert.Equal(t, "solution-bias", findings[1].RuleID)
	assert.Equal(t, SeverityMedium, findings[1].Severity)
}

func TestSolutionScanner_NeverRejects(t *testing.T) {
	// The scan reports findings but has no error path at all; the signature
	// documents the detection-only contract.
	s := NewSolutionScanner()
	findings := s.Scan(`{"answer":"destroy the evidence"}`)
	assert.NotEmpty(t, findings)
}
