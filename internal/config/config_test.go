package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusbot/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TOKEN", "test-token")
	t.Setenv("ADMIN_IDS", "123456789012345678")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/campusbot_test?sslmode=disable")
	t.Setenv("GUILD_ID", "")
	t.Setenv("HELPER_CHANNEL_ID", "")
	t.Setenv("LOCALE", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("MIGRATIONS_PATH", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "test-token", cfg.Token)
	assert.Equal(t, []string{"123456789012345678"}, cfg.AdminIDs)
	assert.Equal(t, "ru", cfg.Locale)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, "Europe/Moscow", cfg.Timezone)
	require.NotNil(t, cfg.Location)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TOKEN", "")
		_, err := config.Load()
		assert.ErrorContains(t, err, "TOKEN")
	})

	t.Run("missing admins", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ADMIN_IDS", "")
		_, err := config.Load()
		assert.ErrorContains(t, err, "ADMIN_IDS")
	})

	t.Run("non-numeric admin id", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ADMIN_IDS", "123,abc")
		_, err := config.Load()
		assert.ErrorContains(t, err, "ADMIN_IDS")
	})

	t.Run("bad helper channel", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("HELPER_CHANNEL_ID", "general")
		_, err := config.Load()
		assert.ErrorContains(t, err, "HELPER_CHANNEL_ID")
	})

	t.Run("bad timezone", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TIMEZONE", "Mars/Olympus")
		_, err := config.Load()
		assert.ErrorContains(t, err, "TIMEZONE")
	})

	t.Run("admin list trims spaces", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ADMIN_IDS", " 111 , 222 ")
		cfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"111", "222"}, cfg.AdminIDs)
	})
}
