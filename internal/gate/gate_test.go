package gate

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelsec/warden/internal/gate/scanner"
)

func newTestGate(t *testing.T, cfg Config) *Gate {
	t.Helper()
	g := New()
	require.NoError(t, g.Initialize(cfg))
	return g
}

func TestGate_ValidationRequiresInitialize(t *testing.T) {
	g := New()

	assert.ErrorIs(t, g.ValidateInput(map[string]any{"q": "hello"}), ErrNotInitialized)
	assert.ErrorIs(t, g.ValidateActionPlan(&scanner.ActionPlan{}), ErrNotInitialized)
	assert.ErrorIs(t, g.ValidateSolution(map[string]any{}), ErrNotInitialized)
	assert.False(t, g.Authenticate(Credentials{Username: "admin", Password: "admin"}))
}

func TestGate_InitializeIsIdempotent(t *testing.T) {
	g := New()
	require.NoError(t, g.Initialize(Config{MaxRequests: 5, Window: time.Minute}))

	// A second call must not reconfigure the limiter.
	require.NoError(t, g.Initialize(Config{MaxRequests: 1, Window: time.Minute}))

	for i := 0; i < 5; i++ {
		assert.True(t, g.CheckRateLimit("x").Allowed)
	}
	assert.False(t, g.CheckRateLimit("x").Allowed)
}

func TestGate_AdmissionBeforeInitialize(t *testing.T) {
	// Rate limiting and blocking work with defaults even before Initialize.
	g := New()

	assert.True(t, g.CheckRateLimit("x").Allowed)
	g.BlockIdentifier("x", "")
	assert.True(t, g.IsBlocked("x"))
}

func TestGate_InitializePreservesAdmissionState(t *testing.T) {
	g := New()
	g.BlockIdentifier("early", "pre-init abuse")

	require.NoError(t, g.Initialize(Config{MaxRequests: 2, Window: time.Minute}))

	// The block recorded before Initialize survives it, and the new limit
	// takes effect.
	assert.True(t, g.IsBlocked("early"))
	assert.True(t, g.CheckRateLimit("x").Allowed)
	assert.True(t, g.CheckRateLimit("x").Allowed)
	assert.False(t, g.CheckRateLimit("x").Allowed)
}

func TestGate_AdmissionDuringInitialize(t *testing.T) {
	// Admission traffic overlapping Initialize must be safe under the race
	// detector: the limiter and block list are reconfigured, not replaced.
	g := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				g.CheckRateLimit("shared")
				g.IsBlocked("shared")
			}
		}()
	}
	require.NoError(t, g.Initialize(DefaultConfig()))
	wg.Wait()

	assert.True(t, g.Metrics().Initialized)
}

func TestGate_BlockDefaultsReason(t *testing.T) {
	g := newTestGate(t, DefaultConfig())

	g.BlockIdentifier("10.0.0.1", "")
	entry, ok := g.BlockEntry("10.0.0.1")
	require.True(t, ok)
	assert.Equal(t, DefaultBlockReason, entry.Reason)
}

func TestGate_ValidateInput(t *testing.T) {
	g := newTestGate(t, DefaultConfig())

	// Clean payload passes and records nothing.
	require.NoError(t, g.ValidateInput(map[string]any{"query": "summarize this text"}))
	assert.Equal(t, 0, g.SecurityMetrics().ThreatsDetected)

	// The same payload with a script marker is rejected, and the rejection
	// is preceded by a recorded threat.
	err := g.ValidateInput(map[string]any{"query": "summarize <script>alert(1)</script>"})
	var v *scanner.Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, scanner.KindContent, v.Kind)

	snap := g.SecurityMetrics()
	assert.Equal(t, 1, snap.ThreatsDetected)
	assert.Equal(t, 1, snap.ThreatsBlocked)
	assert.Equal(t, 90, snap.Score)
}

func TestGate_ValidateInputMarkupSurvivesSerialization(t *testing.T) {
	g := newTestGate(t, DefaultConfig())

	// The markup marker must be caught through the real serialization path,
	// not only when a test hands the scanner pre-built JSON text.
	err := g.ValidateInput(map[string]any{"query": "summarize <script>alert(1)</script>"})
	var v *scanner.Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, scanner.KindContent, v.Kind)
	assert.Equal(t, "content-script-tag", v.RuleID)
}

func TestGate_ValidateInputShellChaining(t *testing.T) {
	g := newTestGate(t, DefaultConfig())

	// The & chain marker also depends on serialization leaving the
	// character literal.
	err := g.ValidateInput(map[string]any{"query": "archive logs & rm -rf /var/lib/agent"})
	var v *scanner.Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, scanner.KindInjection, v.Kind)
	assert.Equal(t, "shell-chained-command", v.RuleID)
}

func TestGate_ValidateInputInjection(t *testing.T) {
	g := newTestGate(t, DefaultConfig())

	err := g.ValidateInput(map[string]any{"query": "1' OR '1'='1"})
	var v *scanner.Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, scanner.KindInjection, v.Kind)
}

func TestGate_ValidateInputStructure(t *testing.T) {
	g := newTestGate(t, DefaultConfig())

	// Deeply nested payloads are rejected as structure violations and
	// recorded as vulnerabilities, not threats.
	payload := map[string]any{}
	cursor := payload
	for i := 0; i < 12; i++ {
		next := map[string]any{}
		cursor["child"] = next
		cursor = next
	}
	cursor["leaf"] = "value"

	err := g.ValidateInput(payload)
	var v *scanner.Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, scanner.KindStructure, v.Kind)

	snap := g.SecurityMetrics()
	assert.Equal(t, 0, snap.ThreatsDetected)
	assert.Equal(t, 1, snap.Vulnerabilities)
}

func TestGate_ValidateActionPlanPermissions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UserPermissions = []string{"read", "compute"}
	g := newTestGate(t, cfg)

	plan := &scanner.ActionPlan{
		Name:        "summarize",
		Steps:       []string{"load document", "produce summary"},
		Permissions: []string{"read"},
	}
	require.NoError(t, g.ValidateActionPlan(plan))

	plan.Permissions = []string{"read", "write"}
	err := g.ValidateActionPlan(plan)
	var v *scanner.Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, scanner.KindPermission, v.Kind)
	assert.Contains(t, v.Detail, "write")
}

func TestGate_ValidateActionPlanRecordsTagsWithoutFailing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UserPermissions = []string{"read"}
	g := newTestGate(t, cfg)

	plan := &scanner.ActionPlan{
		Name:        "fetch",
		Steps:       []string{"network_access to mirror", "file_system cache write"},
		Permissions: []string{"read"},
	}
	require.NoError(t, g.ValidateActionPlan(plan))

	// Both sensitive tags were recorded even though the plan passed.
	snap := g.SecurityMetrics()
	assert.Equal(t, 2, snap.ThreatsDetected)
	assert.Equal(t, 0, snap.ThreatsBlocked)
}

func TestGate_ValidateActionPlanResources(t *testing.T) {
	g := newTestGate(t, DefaultConfig())

	plan := &scanner.ActionPlan{
		Name:      "crunch",
		Resources: scanner.ResourceClaim{MemoryBytes: 1 << 40},
	}
	err := g.ValidateActionPlan(plan)
	var v *scanner.Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, scanner.KindResource, v.Kind)
}

func TestGate_ValidateSolutionIsDetectionOnly(t *testing.T) {
	g := newTestGate(t, DefaultConfig())

	// Flagged language never rejects a solution; it only accumulates in
	// the metrics for the caller to act on.
	require.NoError(t, g.ValidateSolution(map[string]any{"answer": "this approach is dangerous and unfair"}))

	snap := g.SecurityMetrics()
	assert.Equal(t, 2, snap.ThreatsDetected)
	assert.Equal(t, 0, snap.ThreatsBlocked)
}

func TestGate_AuthenticateRecordsFailures(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AdminUsername = "operator"
	cfg.AdminPassword = "hunter2"
	g := newTestGate(t, cfg)

	assert.True(t, g.Authenticate(Credentials{Username: "operator", Password: "hunter2"}))
	assert.Equal(t, 0, g.SecurityMetrics().ThreatsDetected)

	assert.False(t, g.Authenticate(Credentials{Username: "operator", Password: "wrong"}))
	assert.Equal(t, 1, g.SecurityMetrics().ThreatsDetected)
}

func TestGate_Authorize(t *testing.T) {
	g := newTestGate(t, DefaultConfig())

	user := User{Name: "agent-7", Permissions: []string{"read", "plan"}}

	assert.True(t, g.Authorize(user, Action{Type: "read"}))
	assert.False(t, g.Authorize(user, Action{Type: "delete"}))
	assert.Equal(t, 1, g.SecurityMetrics().ThreatsDetected)
}

func TestGate_SwappableAuthenticator(t *testing.T) {
	g := newTestGate(t, DefaultConfig())
	g.UseAuthenticator(authenticatorFunc(func(c Credentials) bool {
		return c.Username == "token-user"
	}))

	assert.True(t, g.Authenticate(Credentials{Username: "token-user"}))
	assert.False(t, g.Authenticate(Credentials{Username: "other"}))
}

type authenticatorFunc func(Credentials) bool

func (f authenticatorFunc) Authenticate(c Credentials) bool { return f(c) }

func TestGate_MetricsSummary(t *testing.T) {
	g := newTestGate(t, DefaultConfig())
	g.CheckRateLimit("a")
	g.CheckRateLimit("b")
	g.BlockIdentifier("c", "manual")

	m := g.Metrics()
	assert.True(t, m.Initialized)
	assert.Equal(t, 2, m.ActiveWindows)
	assert.Equal(t, 1, m.BlockedIdentifiers)
	assert.Equal(t, 100, m.Score)
}

func TestGate_Sweep(t *testing.T) {
	g := newTestGate(t, Config{MaxRequests: 10, Window: time.Second, BlockDuration: time.Second})

	clock := newFakeClock()
	g.limiter.now = clock.Now
	g.blocks.now = clock.Now

	g.CheckRateLimit("a")
	g.BlockIdentifier("b", "r")
	clock.Advance(2 * time.Second)

	windows, blocks := g.Sweep()
	assert.Equal(t, 1, windows)
	assert.Equal(t, 1, blocks)
}
