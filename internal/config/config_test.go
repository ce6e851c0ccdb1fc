package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "DEV", cfg.Environment)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, BackendPostgREST, cfg.Store.Backend)
	assert.NotEmpty(t, cfg.Gemini.Model)
}

func TestStoreKeyPrefersServiceKey(t *testing.T) {
	var cfg Config
	cfg.Store.AnonKey = "anon"
	assert.Equal(t, "anon", cfg.StoreKey())

	cfg.Store.ServiceKey = "service"
	assert.Equal(t, "service", cfg.StoreKey())
}

func TestNormalizeIssuer(t *testing.T) {
	assert.Equal(t, "https://id.example.com", normalizeIssuer("https://id.example.com/"))
	assert.Equal(t, "https://id.example.com/oauth2", normalizeIssuer(" https://id.example.com/oauth2 "))
	assert.Equal(t, "", normalizeIssuer(""))
}
