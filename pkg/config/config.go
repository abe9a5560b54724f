package config

import "time"

// Realtime definition realtime_service YAML structure
type Realtime struct {
	Port      string          `mapstructure:"port"`
	GRPCPort  string          `mapstructure:"grpc_port"`
	Transport string          `mapstructure:"transport"` // "redis" or "local"
	JWTSecret string          `mapstructure:"jwt_secret"`
	Pprof     bool            `mapstructure:"pprof"`
	Websocket WebsocketConfig `mapstructure:"websocket"`

	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	MongoSQL   DatabaseConfig `mapstructure:"mongo"`
	Redis      RedisConfig    `mapstructure:"redis"`
	MinIO      MinIOConfig    `mapstructure:"minio"`
	Kafka      KafkaConfig    `mapstructure:"kafka"`
}

// WebsocketConfig definition websocket setting
type WebsocketConfig struct {
	PingInterval time.Duration `mapstructure:"ping_interval"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int    `mapstructure:"redis_db"`
	Addr    string `mapstructure:"addr"` // used when no sentinel is configured
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// MinIOConfig definition minio setting
type MinIOConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	BucketName    string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
	RetryInterval int           `mapstructure:"retry_interval"`
	RetryCount    int           `mapstructure:"retry_count"`
}

// KafkaConfig definition kafka setting
type KafkaConfig struct {
	Enable  bool     `mapstructure:"enable"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

// ApplyDefaults fill the zero values with working defaults
func (r *Realtime) ApplyDefaults() {
	if r.Port == "" {
		r.Port = "8080"
	}
	if r.Transport == "" {
		r.Transport = "redis"
		// a local run needs no redis
		if IsLocal() {
			r.Transport = "local"
		}
	}
	if r.Websocket.PingInterval <= 0 {
		r.Websocket.PingInterval = 10 * time.Minute
	}
	if r.MinIO.PresignExpiry <= 0 {
		r.MinIO.PresignExpiry = time.Hour
	}
	if r.Kafka.GroupID == "" {
		r.Kafka.GroupID = "realtime_service"
	}
}
