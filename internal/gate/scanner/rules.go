package scanner

import "regexp"

// Rule binds a pattern to the severity and threat class it signals. Scanners
// iterate their table in order, so more specific rules go first. Tables are
// plain data; swapping a table changes detection without touching stage
// control flow.
type Rule struct {
	ID          string
	Pattern     *regexp.Regexp
	Severity    Severity
	Type        ThreatType
	Description string
}

// ContentRules flags markup/script injection markers, dynamic-evaluation
// calls and shell/file-access calls embedded in payload text.
func ContentRules() []Rule {
	return []Rule{
		{ID: "content-script-tag", Pattern: regexp.MustCompile(`(?i)<\s*script`), Severity: SeverityHigh, Type: ThreatMaliciousContent, Description: "markup script tag"},
		{ID: "content-js-uri", Pattern: regexp.MustCompile(`(?i)javascript\s*:`), Severity: SeverityHigh, Type: ThreatMaliciousContent, Description: "javascript URI scheme"},
		{ID: "content-event-handler", Pattern: regexp.MustCompile(`(?i)\bon(load|error|click|focus|mouseover)\s*=`), Severity: SeverityHigh, Type: ThreatMaliciousContent, Description: "inline event handler"},
		{ID: "content-eval", Pattern: regexp.MustCompile(`(?i)\beval\s*\(`), Severity: SeverityCritical, Type: ThreatMaliciousContent, Description: "dynamic evaluation call"},
		{ID: "content-function-ctor", Pattern: regexp.MustCompile(`(?i)\bnew\s+Function\s*\(`), Severity: SeverityCritical, Type: ThreatMaliciousContent, Description: "function constructor call"},
		{ID: "content-exec-call", Pattern: regexp.MustCompile(`(?i)\b(exec|execSync|spawn|system|popen)\s*\(`), Severity: SeverityCritical, Type: ThreatMaliciousContent, Description: "shell execution call"},
		{ID: "content-child-process", Pattern: regexp.MustCompile(`(?i)\b(child_process|subprocess)\b`), Severity: SeverityCritical, Type: ThreatMaliciousContent, Description: "subprocess module reference"},
		{ID: "content-file-access", Pattern: regexp.MustCompile(`(?i)\b(readFile|writeFile|unlink|rmdir|fopen)\s*\(`), Severity: SeverityHigh, Type: ThreatMaliciousContent, Description: "file access call"},
	}
}

// InjectionRules covers SQL keyword/operator groups and shell
// command/metacharacter groups. Every match is critical.
func InjectionRules() []Rule {
	return []Rule{
		{ID: "sql-union-select", Pattern: regexp.MustCompile(`(?i)\bunion\s+select\b`), Severity: SeverityCritical, Type: ThreatInjectionAttack, Description: "SQL UNION SELECT"},
		{ID: "sql-drop-table", Pattern: regexp.MustCompile(`(?i)\bdrop\s+table\b`), Severity: SeverityCritical, Type: ThreatInjectionAttack, Description: "SQL DROP TABLE"},
		{ID: "sql-delete-from", Pattern: regexp.MustCompile(`(?i)\bdelete\s+from\b`), Severity: SeverityCritical, Type: ThreatInjectionAttack, Description: "SQL DELETE FROM"},
		{ID: "sql-insert-into", Pattern: regexp.MustCompile(`(?i)\binsert\s+into\b`), Severity: SeverityCritical, Type: ThreatInjectionAttack, Description: "SQL INSERT INTO"},
		{ID: "sql-boolean-tautology", Pattern: regexp.MustCompile(`(?i)['"]\s*or\s+['"]?1['"]?\s*=\s*['"]?1`), Severity: SeverityCritical, Type: ThreatInjectionAttack, Description: "SQL boolean tautology"},
		{ID: "sql-comment-trailer", Pattern: regexp.MustCompile(`(?i)['"]\s*;?\s*--`), Severity: SeverityCritical, Type: ThreatInjectionAttack, Description: "SQL comment terminator"},
		{ID: "shell-chained-command", Pattern: regexp.MustCompile("(?i)[;&|]\\s*(rm|cat|curl|wget|nc|sh|bash|chmod)\\b"), Severity: SeverityCritical, Type: ThreatInjectionAttack, Description: "chained shell command"},
		{ID: "shell-substitution", Pattern: regexp.MustCompile("\\$\\(|`"), Severity: SeverityCritical, Type: ThreatInjectionAttack, Description: "shell command substitution"},
	}
}

// ActionTagRules lists the sensitive action markers scanned for in action
// plans. Matches are recorded but never reject the plan on their own.
func ActionTagRules() []Rule {
	return []Rule{
		{ID: "action-file-system", Pattern: regexp.MustCompile(`(?i)\b(file_system|filesystem|file_access|fs_(read|write|delete))\b`), Severity: SeverityHigh, Type: ThreatDangerousAction, Description: "file system access"},
		{ID: "action-network", Pattern: regexp.MustCompile(`(?i)\b(network_access|http_request|open_socket|outbound_connection)\b`), Severity: SeverityHigh, Type: ThreatDangerousAction, Description: "network access"},
		{ID: "action-system-command", Pattern: regexp.MustCompile(`(?i)\b(system_command|shell_command|exec_command)\b`), Severity: SeverityHigh, Type: ThreatDangerousAction, Description: "system command"},
		{ID: "action-database", Pattern: regexp.MustCompile(`(?i)\b(database_modification|db_(write|update|delete))\b`), Severity: SeverityHigh, Type: ThreatDangerousAction, Description: "database modification"},
		{ID: "action-privilege", Pattern: regexp.MustCompile(`(?i)\b(privilege_(change|escalation)|setuid|sudo)\b`), Severity: SeverityHigh, Type: ThreatDangerousAction, Description: "privilege change"},
	}
}

// SolutionRules flags harmful or discriminatory language in candidate
// solutions. Detection only: callers act on the metrics, the scan itself
// never rejects.
func SolutionRules() []Rule {
	return []Rule{
		{ID: "solution-harm", Pattern: regexp.MustCompile(`(?i)\b(harm(ful)?|hurt|damage|destroy|dangerous|unsafe)\b`), Severity: SeverityHigh, Type: ThreatMaliciousContent, Description: "potentially harmful output"},
		{ID: "solution-bias", Pattern: regexp.MustCompile(`(?i)\b(discriminat\w+|bias(ed)?|unfair|prejudice[ds]?)\b`), Severity: SeverityMedium, Type: ThreatMaliciousContent, Description: "potentially biased output"},
	}
}
