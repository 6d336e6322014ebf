// Package gate implements the request-admission and content-safety gate that
// fronts the agent's action pipeline: per-identifier rate limiting with
// temporary blocking, multi-stage pattern scanning, and a running security
// score. Every inbound query, action plan and candidate solution passes
// through here before it is acted on or returned.
package gate

import (
	"errors"
	"sync"
	"time"

	"github.com/kestrelsec/warden/internal/gate/scanner"
	"github.com/kestrelsec/warden/internal/logger"
)

// ErrNotInitialized is returned when a validation entry point is called
// before Initialize succeeds. Fatal to the call, not to the process.
var ErrNotInitialized = errors.New("security gate is not initialized")

// DefaultBlockReason is used when BlockIdentifier is called without a reason.
const DefaultBlockReason = "Rate limit exceeded"

// threatAuthFailure marks failed authentication/authorization attempts in
// the threat log.
const threatAuthFailure scanner.ThreatType = "auth_failure"

// Metrics is the gate's operational state summary, distinct from the
// security metrics snapshot.
type Metrics struct {
	ActiveWindows      int  `json:"active_windows"`
	BlockedIdentifiers int  `json:"blocked_identifiers"`
	Initialized        bool `json:"initialized"`
	Snapshot
}

// Gate composes the rate limiter and block list for admission with the
// scanning stages and security metrics for content validation. A blocked
// identifier is rejected regardless of its window state.
type Gate struct {
	mu          sync.Mutex
	initialized bool
	cfg         Config

	limiter *RateLimiter
	blocks  *BlockList

	content   *scanner.ContentScanner
	structure *scanner.StructureValidator
	injection *scanner.InjectionScanner
	plans     *scanner.ActionPlanScanner
	solutions *scanner.SolutionScanner

	metrics *SecurityMetrics
	auth    Authenticator
	authz   Authorizer
}

// New returns an uninitialized gate. Admission (rate limit, block list)
// works immediately with defaults; the validation entry points require
// Initialize.
func New() *Gate {
	def := DefaultConfig()
	return &Gate{
		cfg:     def,
		limiter: NewRateLimiter(def.MaxRequests, def.Window),
		blocks:  NewBlockList(def.BlockDuration),
		metrics: NewSecurityMetrics(),
	}
}

// Subscribe registers a sink for recorded security events. Register sinks
// before traffic flows; events recorded earlier are not replayed.
func (g *Gate) Subscribe(sink EventSink) {
	g.metrics.Subscribe(sink)
}

// UseAuthenticator replaces the placeholder authenticator. Must be called
// after Initialize to take effect over the static default.
func (g *Gate) UseAuthenticator(a Authenticator) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.auth = a
}

// UseAuthorizer replaces the placeholder authorizer.
func (g *Gate) UseAuthorizer(a Authorizer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.authz = a
}

// Initialize configures the gate. It is idempotent: after the first success
// further calls are no-ops. On failure the gate stays uninitialized and the
// error propagates to the caller.
func (g *Gate) Initialize(cfg Config) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.initialized {
		return nil
	}

	cfg.applyDefaults()

	auth, err := NewStaticAuthenticator(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return err
	}

	// The limiter and block list are reconfigured in place, never swapped:
	// admission runs before and during Initialize, and readers hold these
	// pointers without g.mu. State recorded pre-initialization survives.
	g.cfg = cfg
	g.limiter.Configure(cfg.MaxRequests, cfg.Window)
	g.blocks.SetDuration(cfg.BlockDuration)
	g.content = scanner.NewContentScanner()
	g.structure = scanner.NewStructureValidator()
	g.injection = scanner.NewInjectionScanner()
	g.plans = scanner.NewActionPlanScanner()
	g.solutions = scanner.NewSolutionScanner()
	g.auth = auth
	g.authz = PermissionAuthorizer{}

	log := logger.Log()
	if cfg.Authentication.Enabled {
		log.Debug("gate: authentication enabled")
	}
	if cfg.Authorization.Enabled {
		log.Debug("gate: authorization enabled")
	}
	if cfg.Encryption.Enabled {
		log.Debug("gate: encryption enabled")
	}
	if cfg.Monitoring.Enabled {
		log.Debug("gate: monitoring enabled")
	}

	g.initialized = true
	return nil
}

func (g *Gate) ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.initialized
}

// CheckRateLimit admits or rejects one request for the identifier under its
// fixed window.
func (g *Gate) CheckRateLimit(identifier string) RateDecision {
	return g.limiter.Check(identifier)
}

// BlockIdentifier temporarily denies the identifier. An empty reason falls
// back to DefaultBlockReason. A repeat block moves the expiry forward.
func (g *Gate) BlockIdentifier(identifier, reason string) {
	if reason == "" {
		reason = DefaultBlockReason
	}
	g.blocks.Block(identifier, reason)
	logger.WithFields(map[string]interface{}{
		"identifier": identifier,
		"reason":     reason,
	}).Warn("gate: identifier blocked")
}

// UnblockIdentifier lifts a block early. Returns false if the identifier was
// not actively blocked.
func (g *Gate) UnblockIdentifier(identifier string) bool {
	if !g.blocks.Unblock(identifier) {
		return false
	}
	logger.WithFields(map[string]interface{}{
		"identifier": identifier,
	}).Info("gate: identifier unblocked")
	return true
}

// IsBlocked reports whether the identifier is currently denied. The block
// list is authoritative over the rate limiter.
func (g *Gate) IsBlocked(identifier string) bool {
	return g.blocks.IsBlocked(identifier)
}

// BlockEntry returns the active block entry for the identifier, if any.
func (g *Gate) BlockEntry(identifier string) (BlockEntry, bool) {
	return g.blocks.Entry(identifier)
}

// ValidateInput runs the content, structure and injection stages, in that
// order, over one serialized representation of the payload. The first
// violated rule rejects the payload; the matching event is always recorded
// before the failure is returned.
func (g *Gate) ValidateInput(payload any) error {
	if !g.ready() {
		return ErrNotInitialized
	}

	raw, err := scanner.Serialize(payload)
	if err != nil {
		return g.rejectViolation(err)
	}

	if findings, err := g.content.Scan(raw); err != nil {
		g.recordFindings(findings)
		return g.reject(err)
	}
	if err := g.structure.Scan(payload, raw); err != nil {
		return g.rejectViolation(err)
	}
	if findings, err := g.injection.Scan(raw); err != nil {
		g.recordFindings(findings)
		return g.reject(err)
	}
	return nil
}

// ValidateActionPlan runs the content and structure stages over the plan,
// records any sensitive action tags, then enforces the plan's declared
// permissions against the configured caller permission set and its declared
// resources against fixed ceilings.
func (g *Gate) ValidateActionPlan(plan *scanner.ActionPlan) error {
	if !g.ready() {
		return ErrNotInitialized
	}

	raw, err := scanner.Serialize(plan)
	if err != nil {
		return g.rejectViolation(err)
	}

	if findings, err := g.content.Scan(raw); err != nil {
		g.recordFindings(findings)
		return g.reject(err)
	}
	if err := g.structure.Scan(plan, raw); err != nil {
		return g.rejectViolation(err)
	}

	// Sensitive action tags are recorded but do not reject by themselves.
	g.recordFindings(g.plans.ScanTags(raw))

	if err := g.plans.CheckPermissions(plan.Permissions, g.cfg.UserPermissions); err != nil {
		return g.rejectViolation(err)
	}
	if err := g.plans.CheckResources(plan.Resources); err != nil {
		return g.rejectViolation(err)
	}
	return nil
}

// ValidateSolution runs the solution-safety stage. Matches are recorded as
// threat events but never reject the solution; callers wanting enforcement
// here act on SecurityMetrics.
func (g *Gate) ValidateSolution(solution any) error {
	if !g.ready() {
		return ErrNotInitialized
	}

	raw, err := scanner.Serialize(solution)
	if err != nil {
		return g.rejectViolation(err)
	}

	g.recordFindings(g.solutions.Scan(raw))
	return nil
}

// Authenticate checks credentials against the configured authenticator. A
// failure records a threat event and returns false; it is never an error.
func (g *Gate) Authenticate(creds Credentials) bool {
	if !g.ready() {
		return false
	}
	if g.auth.Authenticate(creds) {
		return true
	}
	g.metrics.RecordThreat(ThreatEvent{
		Type:     threatAuthFailure,
		Detail:   "authentication failed for user " + creds.Username,
		Severity: scanner.SeverityMedium,
	})
	return false
}

// Authorize checks whether the user may perform the action. A denial records
// a threat event and returns false.
func (g *Gate) Authorize(user User, action Action) bool {
	if !g.ready() {
		return false
	}
	if g.authz.Authorize(user, action) {
		return true
	}
	g.metrics.RecordThreat(ThreatEvent{
		Type:     threatAuthFailure,
		Detail:   "authorization denied: user " + user.Name + " action " + action.Type,
		Severity: scanner.SeverityMedium,
	})
	return false
}

// SecurityMetrics returns the derived security metrics snapshot.
func (g *Gate) SecurityMetrics() Snapshot {
	return g.metrics.Snapshot()
}

// Events exposes the underlying metrics log, mainly for sinks and tests.
func (g *Gate) Events() *SecurityMetrics {
	return g.metrics
}

// Metrics returns the gate's operational summary.
func (g *Gate) Metrics() Metrics {
	return Metrics{
		ActiveWindows:      g.limiter.Size(),
		BlockedIdentifiers: g.blocks.Size(),
		Initialized:        g.ready(),
		Snapshot:           g.metrics.Snapshot(),
	}
}

// Sweep evicts expired rate windows and block entries. Semantics are
// unchanged from lazy expiry; the sweep only bounds memory growth under
// high-cardinality identifiers.
func (g *Gate) Sweep() (windows, blocks int) {
	return g.limiter.Sweep(), g.blocks.Sweep()
}

// recordFindings appends every finding to the threat log.
func (g *Gate) recordFindings(findings []scanner.Finding) {
	now := time.Now()
	for _, f := range findings {
		g.metrics.RecordThreat(ThreatEvent{
			Type:      f.Type,
			Detail:    f.Detail,
			Severity:  f.Severity,
			Timestamp: now,
		})
	}
}

// reject counts a blocked validation after its findings were recorded.
func (g *Gate) reject(err error) error {
	g.metrics.RecordBlocked()
	return err
}

// rejectViolation records a vulnerability event for violations that carry no
// finding of their own (structure, permission, resource), so telemetry and
// rejection are never observed independently.
func (g *Gate) rejectViolation(err error) error {
	var v *scanner.Violation
	if errors.As(err, &v) {
		g.metrics.RecordVulnerability(ThreatEvent{
			Type:     scanner.ThreatType(v.Kind),
			Detail:   v.Detail,
			Severity: scanner.SeverityHigh,
		})
	}
	g.metrics.RecordBlocked()
	return err
}
