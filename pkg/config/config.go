package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "SHOPMART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App           AppConfig
	Mongo         MongoConfig
	Redis         RedisConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPMART_APP_ENV" default:"development"`
	Port         string `envconfig:"SHOPMART_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"SHOPMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type MongoConfig struct {
	URI            string        `envconfig:"SHOPMART_MONGO_URI" required:"true"`
	Database       string        `envconfig:"SHOPMART_MONGO_DATABASE" default:"shopmart"`
	ConnectTimeout time.Duration `envconfig:"SHOPMART_MONGO_CONNECT_TIMEOUT" default:"10s"`
	MaxPoolSize    uint64        `envconfig:"SHOPMART_MONGO_MAX_POOL_SIZE" default:"20"`
	MinPoolSize    uint64        `envconfig:"SHOPMART_MONGO_MIN_POOL_SIZE" default:"0"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPMART_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"SHOPMART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"SHOPMART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"SHOPMART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"SHOPMART_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"SHOPMART_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"SHOPMART_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	ExtraOrigins []string `envconfig:"SHOPMART_CORS_EXTRA_ORIGINS"`
}
