package scanner

import "fmt"

// ContentScanner checks serialized payload text against the content rule
// table: script markers, dynamic evaluation and shell/file-access calls.
type ContentScanner struct {
	rules []Rule
}

// NewContentScanner returns a scanner over the default content rules.
func NewContentScanner() *ContentScanner {
	return &ContentScanner{rules: ContentRules()}
}

// NewContentScannerWithRules returns a scanner over a custom rule table.
func NewContentScannerWithRules(rules []Rule) *ContentScanner {
	return &ContentScanner{rules: rules}
}

// Scan fails on the first matched rule. The triggering match is returned as
// a finding so the caller can record it before propagating the failure.
func (s *ContentScanner) Scan(raw string) ([]Finding, error) {
	for _, r := range s.rules {
		if r.Pattern.MatchString(raw) {
			f := Finding{
				RuleID:   r.ID,
				Type:     r.Type,
				Severity: r.Severity,
				Detail:   fmt.Sprintf("%s detected in payload", r.Description),
			}
			return []Finding{f}, &Violation{Kind: KindContent, RuleID: r.ID, Detail: f.Detail}
		}
	}
	return nil, nil
}
