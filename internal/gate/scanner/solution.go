package scanner

import "fmt"

// SolutionScanner checks candidate solutions for harmful or discriminatory
// language. It only reports findings; enforcement is left to callers acting
// on the security metrics.
type SolutionScanner struct {
	rules []Rule
}

// NewSolutionScanner returns a scanner over the default solution rules.
func NewSolutionScanner() *SolutionScanner {
	return &SolutionScanner{rules: SolutionRules()}
}

// Scan reports every matched rule. It never rejects.
func (s *SolutionScanner) Scan(raw string) []Finding {
	var findings []Finding
	for _, r := range s.rules {
		if r.Pattern.MatchString(raw) {
			findings = append(findings, Finding{
				RuleID:   r.ID,
				Type:     r.Type,
				Severity: r.Severity,
				Detail:   fmt.Sprintf("%s detected in solution", r.Description),
			})
		}
	}
	return findings
}
