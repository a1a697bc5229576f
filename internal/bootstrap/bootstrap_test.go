package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigAndSetupLoggerDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, _, err := LoadConfigAndSetupLogger()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, "stimulus", cfg.Database.DBName)
}

func TestLoadConfigAndSetupLoggerMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, _, err := LoadConfigAndSetupLogger()
	require.Error(t, err)
}
