package runtime

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the runtime's own operating configuration: how it sizes and
// bounds the agents it creates, and how hard it rate-limits external
// publish calls. It is distinct from the dataflow graph config file
// loaded via LoadConfig, which stays the bespoke §6 text format.
type Config struct {
	// QueueCapacityFloor overrides agent.MinCapacity when positive.
	// LoadConfig threads it into every agent it creates via
	// config.WithCapacityFloor.
	QueueCapacityFloor int `yaml:"queue_capacity_floor"`
	// DrainTimeout overrides the default ParallelAgent close-drain bound.
	// LoadConfig threads it into every agent it creates via
	// config.WithDrainTimeout.
	DrainTimeout time.Duration `yaml:"drain_timeout"`
	// PublishRateLimit is the sustained rate, in publishes per second,
	// allowed through the external Publish entrypoint.
	PublishRateLimit float64 `yaml:"publish_rate_limit"`
	// PublishRateBurst is the burst size allowed above the sustained rate.
	PublishRateBurst int `yaml:"publish_rate_burst"`
}

// DefaultConfig returns the configuration used when none is loaded.
func DefaultConfig() Config {
	return Config{
		QueueCapacityFloor: 10,
		DrainTimeout:       2 * time.Second,
		PublishRateLimit:   100,
		PublishRateBurst:   10,
	}
}

// Validate rejects a configuration with non-positive rate, burst, or
// drain-timeout fields.
func (c Config) Validate() error {
	if c.QueueCapacityFloor <= 0 {
		return fmt.Errorf("queue_capacity_floor must be positive, got %d", c.QueueCapacityFloor)
	}
	if c.DrainTimeout <= 0 {
		return fmt.Errorf("drain_timeout must be positive, got %s", c.DrainTimeout)
	}
	if c.PublishRateLimit <= 0 {
		return fmt.Errorf("publish_rate_limit must be positive, got %v", c.PublishRateLimit)
	}
	if c.PublishRateBurst <= 0 {
		return fmt.Errorf("publish_rate_burst must be positive, got %d", c.PublishRateBurst)
	}
	return nil
}

// LoadConfigFile reads and validates a Config from a YAML file at path.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read runtime config %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse runtime config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid runtime config %q: %w", path, err)
	}
	return cfg, nil
}

// safeConfig provides thread-safe access to the runtime's own
// configuration, mirroring the source system's mutex-guarded
// get-then-validated-update pattern.
type safeConfig struct {
	mu  sync.RWMutex
	cfg Config
}

func newSafeConfig(cfg Config) *safeConfig {
	return &safeConfig{cfg: cfg}
}

// Get returns the current configuration.
func (sc *safeConfig) Get() Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.cfg
}

// Update validates cfg and, if valid, replaces the current configuration
// atomically.
func (sc *safeConfig) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cfg = cfg
	return nil
}
