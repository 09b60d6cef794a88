package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"DB_DSN": "postgres://localhost/skillswap"}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 256, cfg.NotifyQueueSize)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.TelegramEnabled())
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_PostgresRequiresDSN(t *testing.T) {
	_, err := FromEnv(envOf(map[string]string{}))
	assert.Error(t, err)
}

func TestFromEnv_MemoryWithoutDSN(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"STORAGE":           "Memory",
		"ENV":               "production",
		"REDIS_ADDR":        "localhost:6379",
		"REDIS_DB":          "2",
		"NOTIFY_QUEUE_SIZE": "16",
		"CORS_ORIGINS":      "https://a.example, https://b.example,",
		"TELEGRAM_TOKEN":    "123:abc",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 16, cfg.NotifyQueueSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown storage", map[string]string{"STORAGE": "mysql"}},
		{"bad redis db", map[string]string{"STORAGE": "memory", "REDIS_DB": "x"}},
		{"zero queue", map[string]string{"STORAGE": "memory", "NOTIFY_QUEUE_SIZE": "0"}},
		{"bad queue", map[string]string{"STORAGE": "memory", "NOTIFY_QUEUE_SIZE": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envOf(tt.env))
			assert.Error(t, err)
		})
	}
}
