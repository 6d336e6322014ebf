package scanner

import "fmt"

// ActionPlan is a declared set of steps the agent intends to execute, with
// the permissions and resources it claims to need.
type ActionPlan struct {
	Name        string         `json:"name"`
	Steps       []string       `json:"steps"`
	Permissions []string       `json:"permissions"`
	Resources   ResourceClaim  `json:"resources"`
	Context     map[string]any `json:"context,omitempty"`
}

// ResourceClaim declares the resources an action plan intends to consume.
type ResourceClaim struct {
	MemoryBytes int64   `json:"memory_bytes"`
	CPUPercent  float64 `json:"cpu_percent"`
	TimeMs      int64   `json:"time_ms"`
	NetworkKBps int64   `json:"network_kbps"`
}

// DefaultResourceCeilings returns the fixed per-plan resource limits.
func DefaultResourceCeilings() ResourceClaim {
	return ResourceClaim{
		MemoryBytes: 512 << 20,
		CPUPercent:  80,
		TimeMs:      30_000,
		NetworkKBps: 10_000,
	}
}

// ActionPlanScanner inspects action plans: it records sensitive action tags,
// checks declared permissions against the granted set, and checks declared
// resources against fixed ceilings.
type ActionPlanScanner struct {
	rules    []Rule
	ceilings ResourceClaim
}

// NewActionPlanScanner returns a scanner over the default action tag rules
// and resource ceilings.
func NewActionPlanScanner() *ActionPlanScanner {
	return &ActionPlanScanner{rules: ActionTagRules(), ceilings: DefaultResourceCeilings()}
}

// ScanTags reports every sensitive action tag present in the serialized
// plan. Tags are recorded as high-severity events but do not reject the
// plan by themselves.
func (s *ActionPlanScanner) ScanTags(raw string) []Finding {
	var findings []Finding
	for _, r := range s.rules {
		if r.Pattern.MatchString(raw) {
			findings = append(findings, Finding{
				RuleID:   r.ID,
				Type:     r.Type,
				Severity: r.Severity,
				Detail:   fmt.Sprintf("%s declared in action plan", r.Description),
			})
		}
	}
	return findings
}

// CheckPermissions fails if the plan requires a permission absent from the
// granted set.
func (s *ActionPlanScanner) CheckPermissions(required, granted []string) error {
	allowed := make(map[string]struct{}, len(granted))
	for _, p := range granted {
		allowed[p] = struct{}{}
	}
	for _, p := range required {
		if _, ok := allowed[p]; !ok {
			return &Violation{
				Kind:   KindPermission,
				RuleID: "plan-permission",
				Detail: fmt.Sprintf("permission %q is not granted", p),
			}
		}
	}
	return nil
}

// CheckResources fails on the first declared resource that exceeds its
// ceiling.
func (s *ActionPlanScanner) CheckResources(claim ResourceClaim) error {
	if claim.MemoryBytes > s.ceilings.MemoryBytes {
		return resourceViolation("memory", claim.MemoryBytes, s.ceilings.MemoryBytes)
	}
	if claim.CPUPercent > s.ceilings.CPUPercent {
		return &Violation{
			Kind:   KindResource,
			RuleID: "plan-resource-cpu",
			Detail: fmt.Sprintf("declared cpu %.1f%% exceeds ceiling %.1f%%", claim.CPUPercent, s.ceilings.CPUPercent),
		}
	}
	if claim.TimeMs > s.ceilings.TimeMs {
		return resourceViolation("time", claim.TimeMs, s.ceilings.TimeMs)
	}
	if claim.NetworkKBps > s.ceilings.NetworkKBps {
		return resourceViolation("network", claim.NetworkKBps, s.ceilings.NetworkKBps)
	}
	return nil
}

func resourceViolation(name string, declared, ceiling int64) *Violation {
	return &Violation{
		Kind:   KindResource,
		RuleID: "plan-resource-" + name,
		Detail: fmt.Sprintf("declared %s %d exceeds ceiling %d", name, declared, ceiling),
	}
}
