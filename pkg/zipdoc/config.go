package zipdoc

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/docker/go-units"
	"go.uber.org/multierr"
)

// Config contains all configuration options for the zipdoc engine
type Config struct {
	// CacheMaxSize is the maximum number of templates to cache. 0 disables caching.
	CacheMaxSize int `mapstructure:"cache_max_size"`
	// CacheTTL is the time-to-live for cached templates. 0 means no expiration.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `mapstructure:"log_level"`
	// MaxParallelRenders bounds the number of concurrent renders in RenderAll.
	MaxParallelRenders int `mapstructure:"max_parallel_renders"`
	// MaxEntrySize is the largest declared entry size Load will read into memory.
	MaxEntrySize int64 `mapstructure:"max_entry_size"`
}

var (
	// initialized before DefaultEngine, which reads it
	globalConfig      = ConfigFromEnvironment()
	globalConfigMutex sync.RWMutex
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheMaxSize:       100,
		CacheTTL:           0,
		LogLevel:           "info",
		MaxParallelRenders: 8,
		MaxEntrySize:       1 << 30,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables.
// Values that fail to parse are ignored and the default is kept.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// ZIPDOC_CACHE_MAX_SIZE
	if val := os.Getenv("ZIPDOC_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	// ZIPDOC_CACHE_TTL
	if val := os.Getenv("ZIPDOC_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	// ZIPDOC_LOG_LEVEL
	if val := os.Getenv("ZIPDOC_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// ZIPDOC_MAX_PARALLEL_RENDERS
	if val := os.Getenv("ZIPDOC_MAX_PARALLEL_RENDERS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.MaxParallelRenders = n
		}
	}

	// ZIPDOC_MAX_ENTRY_SIZE, e.g. "512MiB" or "1048576"
	if val := os.Getenv("ZIPDOC_MAX_ENTRY_SIZE"); val != "" {
		if size, err := ParseSize(val); err == nil && size > 0 {
			config.MaxEntrySize = size
		}
	}

	return config
}

// ParseSize parses a byte size such as "64MiB", "10mb" or "4096".
func ParseSize(s string) (int64, error) {
	size, err := units.RAMInBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return size, nil
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	if config.MaxParallelRenders == 0 {
		config.MaxParallelRenders = defaults.MaxParallelRenders
	}

	if config.MaxEntrySize <= 0 {
		config.MaxEntrySize = defaults.MaxEntrySize
	}

	return &config
}

// Validate checks if the configuration is valid and reports every problem found.
func (c *Config) Validate() error {
	var err error

	if c.CacheMaxSize < 0 {
		err = multierr.Append(err, errors.New("cache max size cannot be negative"))
	}

	if c.CacheTTL < 0 {
		err = multierr.Append(err, errors.New("cache TTL cannot be negative"))
	}

	if _, ok := parseLogLevel(c.LogLevel); !ok {
		err = multierr.Append(err, errors.New("invalid log level: "+c.LogLevel))
	}

	if c.MaxParallelRenders <= 0 {
		err = multierr.Append(err, errors.New("max parallel renders must be positive"))
	}

	if c.MaxEntrySize <= 0 {
		err = multierr.Append(err, errors.New("max entry size must be positive"))
	}

	return err
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// outside the lock: the logger reads the config back
	UpdateLoggerFromConfig()
}
