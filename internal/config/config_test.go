package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.AgentWebhookTimeout)
	assert.NotEmpty(t, cfg.HTTPPort)
	require.NoError(t, cfg.Validate())
}

func TestGetDuration(t *testing.T) {
	t.Setenv("TEST_TIMEOUT", "250ms")
	assert.Equal(t, 250*time.Millisecond, getDuration("TEST_TIMEOUT", time.Second))

	t.Setenv("TEST_TIMEOUT", "15")
	assert.Equal(t, 15*time.Second, getDuration("TEST_TIMEOUT", time.Second))

	t.Setenv("TEST_TIMEOUT", "garbage")
	assert.Equal(t, time.Second, getDuration("TEST_TIMEOUT", time.Second))

	t.Setenv("TEST_TIMEOUT", "")
	assert.Equal(t, time.Second, getDuration("TEST_TIMEOUT", time.Second))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a, b ,"))
}

func TestValidateProduction(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.AppEnv = "production"
	cfg.DB.Password = ""
	assert.Error(t, cfg.Validate())

	cfg.DB.Password = "secret"
	cfg.DirectoryServiceURL = ""
	assert.Error(t, cfg.Validate())

	cfg.DirectoryServiceURL = "http://directory.internal"
	assert.NoError(t, cfg.Validate())
}
