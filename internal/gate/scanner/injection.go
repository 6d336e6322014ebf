package scanner

import "fmt"

// InjectionScanner checks serialized payload text against the SQL and shell
// injection rule groups.
type InjectionScanner struct {
	rules []Rule
}

// NewInjectionScanner returns a scanner over the default injection rules.
func NewInjectionScanner() *InjectionScanner {
	return &InjectionScanner{rules: InjectionRules()}
}

// Scan fails on the first matched rule, always as critical.
func (s *InjectionScanner) Scan(raw string) ([]Finding, error) {
	for _, r := range s.rules {
		if r.Pattern.MatchString(raw) {
			f := Finding{
				RuleID:   r.ID,
				Type:     r.Type,
				Severity: r.Severity,
				Detail:   fmt.Sprintf("%s detected in payload", r.Description),
			}
			return []Finding{f}, &Violation{Kind: KindInjection, RuleID: r.ID, Detail: f.Detail}
		}
	}
	return nil, nil
}
