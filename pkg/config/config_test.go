package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverConfig struct {
	Port        int           `env:"LOADER_TEST_PORT" envDefault:"8080"`
	Environment string        `env:"LOADER_TEST_ENV" envDefault:"development"`
	SweepEvery  time.Duration `env:"LOADER_TEST_SWEEP" envDefault:"1h"`
	CacheOn     bool          `env:"LOADER_TEST_CACHE" envDefault:"true"`
	Origins     []string      `env:"LOADER_TEST_ORIGINS" envDefault:"*" envSeparator:","`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg serverConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, time.Hour, cfg.SweepEvery)
	assert.True(t, cfg.CacheOn)
	assert.Equal(t, []string{"*"}, cfg.Origins)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("LOADER_TEST_PORT", "9090")
	t.Setenv("LOADER_TEST_ENV", "production")
	t.Setenv("LOADER_TEST_SWEEP", "15m")
	t.Setenv("LOADER_TEST_ORIGINS", "https://a.example,https://b.example")

	var cfg serverConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 15*time.Minute, cfg.SweepEvery)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins)
}

type secretConfig struct {
	Secret string `env:"LOADER_TEST_SECRET,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg secretConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load environment config")
}

func TestLoad_RequiredFieldPresent(t *testing.T) {
	t.Setenv("LOADER_TEST_SECRET", "a-signing-secret")

	var cfg secretConfig
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "a-signing-secret", cfg.Secret)
}

func TestLoad_TypeMismatch(t *testing.T) {
	t.Setenv("LOADER_TEST_PORT", "not-a-number")

	var cfg serverConfig
	require.Error(t, Load(&cfg))
}
