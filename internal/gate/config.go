package gate

import "time"

// FeatureConfig toggles one of the gate's sub-initializers.
type FeatureConfig struct {
	Enabled bool
}

// Config carries the gate's recognized options. Zero values fall back to the
// defaults from DefaultConfig during Initialize.
type Config struct {
	Authentication FeatureConfig
	Authorization  FeatureConfig
	Encryption     FeatureConfig
	Monitoring     FeatureConfig

	// UserPermissions is the caller permission set consulted by the action
	// plan permission check.
	UserPermissions []string

	MaxRequests   int
	Window        time.Duration
	BlockDuration time.Duration

	// AdminUsername/AdminPassword feed the placeholder authenticator.
	AdminUsername string
	AdminPassword string
}

// DefaultConfig returns the gate defaults: 100 requests per minute, five
// minute blocks, all sub-features enabled.
func DefaultConfig() Config {
	return Config{
		Authentication: FeatureConfig{Enabled: true},
		Authorization:  FeatureConfig{Enabled: true},
		Encryption:     FeatureConfig{Enabled: true},
		Monitoring:     FeatureConfig{Enabled: true},
		MaxRequests:    100,
		Window:         time.Minute,
		BlockDuration:  5 * time.Minute,
		AdminUsername:  "admin",
		AdminPassword:  "admin",
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.MaxRequests <= 0 {
		c.MaxRequests = def.MaxRequests
	}
	if c.Window <= 0 {
		c.Window = def.Window
	}
	if c.BlockDuration <= 0 {
		c.BlockDuration = def.BlockDuration
	}
	if c.AdminUsername == "" {
		c.AdminUsername = def.AdminUsername
	}
	if c.AdminPassword == "" {
		c.AdminPassword = def.AdminPassword
	}
}
