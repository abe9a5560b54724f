package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
port: "9090"
transport: local
jwt_secret: ${TEST_REALTIME_SECRET}
websocket:
  ping_interval: 30s
redis:
  redis_db: 2
kafka:
  enable: true
  brokers: ["kafka:9092"]
  topic: todo-events
`

func TestReadConfig_ExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "realtime_test.yaml"), []byte(sampleYAML), 0644))
	t.Setenv("TEST_REALTIME_SECRET", "s3cr3t")

	cfg, err := ReadConfig[Realtime]("realtime_test", dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "local", cfg.Transport)
	assert.Equal(t, "s3cr3t", cfg.JWTSecret)
	assert.Equal(t, 30*time.Second, cfg.Websocket.PingInterval)
	assert.Equal(t, 2, cfg.Redis.RedisDB)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
}

func TestReadConfig_MissingFile(t *testing.T) {
	_, err := ReadConfig[Realtime]("nope", t.TempDir())
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	prev := env
	env = ""
	defer func() { env = prev }()

	var cfg Realtime
	cfg.ApplyDefaults()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "redis", cfg.Transport)
	assert.Equal(t, 10*time.Minute, cfg.Websocket.PingInterval)
	assert.Equal(t, time.Hour, cfg.MinIO.PresignExpiry)
	assert.Equal(t, "realtime_service", cfg.Kafka.GroupID)
}

func TestApplyDefaults_LocalEnvUsesLocalTransport(t *testing.T) {
	prev := env
	env = "local"
	defer func() { env = prev }()

	var cfg Realtime
	cfg.ApplyDefaults()
	assert.Equal(t, "local", cfg.Transport)

	cfg = Realtime{Transport: "redis"}
	cfg.ApplyDefaults()
	assert.Equal(t, "redis", cfg.Transport)
}

func TestGetRedisSetting(t *testing.T) {
	t.Setenv("REDIS_SENTINEL1_IP", "10.0.0.1")
	t.Setenv("REDIS_SENTINEL1_PORT", "26379")
	t.Setenv("REDIS_MASTER_NAME", "")

	master, addrs := GetRedisSetting()
	assert.Equal(t, "mymaster", master)
	assert.Contains(t, addrs, "10.0.0.1:26379")
}
