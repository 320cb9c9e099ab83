package zipdoc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 100, config.CacheMaxSize)
	assert.Equal(t, time.Duration(0), config.CacheTTL)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, 8, config.MaxParallelRenders)
	assert.Equal(t, int64(1<<30), config.MaxEntrySize)
	assert.NoError(t, config.Validate())
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("ZIPDOC_CACHE_MAX_SIZE", "25")
	t.Setenv("ZIPDOC_CACHE_TTL", "90s")
	t.Setenv("ZIPDOC_LOG_LEVEL", "debug")
	t.Setenv("ZIPDOC_MAX_PARALLEL_RENDERS", "3")
	t.Setenv("ZIPDOC_MAX_ENTRY_SIZE", "64MiB")

	config := ConfigFromEnvironment()

	assert.Equal(t, 25, config.CacheMaxSize)
	assert.Equal(t, 90*time.Second, config.CacheTTL)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, 3, config.MaxParallelRenders)
	assert.Equal(t, int64(64<<20), config.MaxEntrySize)
}

func TestConfigFromEnvironment_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("ZIPDOC_CACHE_MAX_SIZE", "lots")
	t.Setenv("ZIPDOC_CACHE_TTL", "forever")
	t.Setenv("ZIPDOC_MAX_PARALLEL_RENDERS", "many")
	t.Setenv("ZIPDOC_MAX_ENTRY_SIZE", "huge")

	config := ConfigFromEnvironment()
	defaults := DefaultConfig()

	assert.Equal(t, defaults.CacheMaxSize, config.CacheMaxSize)
	assert.Equal(t, defaults.CacheTTL, config.CacheTTL)
	assert.Equal(t, defaults.MaxParallelRenders, config.MaxParallelRenders)
	assert.Equal(t, defaults.MaxEntrySize, config.MaxEntrySize)
}

func TestConfigFromEnvironment_NonPositiveEntrySizeKeepsDefault(t *testing.T) {
	for _, val := range []string{"0", "0MiB"} {
		t.Setenv("ZIPDOC_MAX_ENTRY_SIZE", val)
		assert.Equal(t, DefaultConfig().MaxEntrySize, ConfigFromEnvironment().MaxEntrySize, val)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"4096", 4096, false},
		{"1k", 1 << 10, false},
		{"64MiB", 64 << 20, false},
		{"2GB", 2 << 30, false},
		{"", 0, true},
		{"huge", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	config := &Config{
		CacheMaxSize:       -1,
		CacheTTL:           -time.Second,
		LogLevel:           "chatty",
		MaxParallelRenders: 0,
		MaxEntrySize:       0,
	}

	err := config.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 5, "every problem should be reported")
	assert.Contains(t, err.Error(), "invalid log level: chatty")

	for _, level := range []string{"debug", "info", "warn", "error", "off", "OFF"} {
		c := DefaultConfig()
		c.LogLevel = level
		assert.NoError(t, c.Validate(), "level %q", level)
	}
}

func TestNewConfigWithDefaults(t *testing.T) {
	assert.Equal(t, DefaultConfig(), NewConfigWithDefaults(nil))

	config := NewConfigWithDefaults(&Config{CacheMaxSize: 5})
	assert.Equal(t, 5, config.CacheMaxSize)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, 8, config.MaxParallelRenders)
	assert.Equal(t, int64(1<<30), config.MaxEntrySize)

	// zero cache size is a valid override, not an unset field
	assert.Equal(t, 0, NewConfigWithDefaults(&Config{}).CacheMaxSize)
}

func TestGlobalConfig(t *testing.T) {
	original := GetGlobalConfig()
	t.Cleanup(func() { SetGlobalConfig(original) })

	SetGlobalConfig(&Config{
		CacheMaxSize:       7,
		LogLevel:           "warn",
		MaxParallelRenders: 2,
		MaxEntrySize:       1024,
	})

	got := GetGlobalConfig()
	assert.Equal(t, 7, got.CacheMaxSize)

	// GetGlobalConfig returns a copy
	got.CacheMaxSize = 99
	assert.Equal(t, 7, GetGlobalConfig().CacheMaxSize)

	assert.Equal(t, int64(1024), NewDocument().maxEntrySize)
}
