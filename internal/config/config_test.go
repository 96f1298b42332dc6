package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "data/trademarks.sqlite", cfg.DBPath)
	assert.Equal(t, "", cfg.DBURL)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Origins())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("MARKCHECK_DB_PATH", "/srv/index.sqlite")
	t.Setenv("MARKCHECK_PORT", "9000")
	t.Setenv("MARKCHECK_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/index.sqlite", cfg.DBPath)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("MARKCHECK_PORT", "-1")
	_, err := Load()
	assert.Error(t, err)
}
