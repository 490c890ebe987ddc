package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "tradelink"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Mongo         MongoConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TRADELINK_APP_ENV" required:"true"`
	Port         string `envconfig:"TRADELINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TRADELINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRADELINK_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"TRADELINK_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"TRADELINK_DB_DSN"`

	Host     string `envconfig:"TRADELINK_DB_HOST"`
	Port     int    `envconfig:"TRADELINK_DB_PORT" default:"5432"`
	User     string `envconfig:"TRADELINK_DB_USER"`
	Password string `envconfig:"TRADELINK_DB_PASSWORD"`
	Name     string `envconfig:"TRADELINK_DB_NAME"`
	SSLMode  string `envconfig:"TRADELINK_DB_SSLMODE" default:"disable"`

	AutoMigrate bool `envconfig:"TRADELINK_DB_AUTO_MIGRATE" default:"false"`

	MaxOpenConns    int           `envconfig:"TRADELINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRADELINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRADELINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRADELINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, val := range map[string]string{
		"TRADELINK_DB_HOST": db.Host,
		"TRADELINK_DB_USER": db.User,
		"TRADELINK_DB_NAME": db.Name,
	} {
		if val == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either TRADELINK_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

type MongoConfig struct {
	URI            string        `envconfig:"TRADELINK_MONGO_URI" required:"true"`
	Database       string        `envconfig:"TRADELINK_MONGO_DATABASE" default:"tradelink_catalog"`
	ConnectTimeout time.Duration `envconfig:"TRADELINK_MONGO_CONNECT_TIMEOUT" default:"10s"`
	MaxPoolSize    uint64        `envconfig:"TRADELINK_MONGO_MAX_POOL_SIZE" default:"50"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TRADELINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TRADELINK_REDIS_ADDR"`
	Password     string        `envconfig:"TRADELINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRADELINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRADELINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRADELINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRADELINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRADELINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRADELINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TRADELINK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TRADELINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TRADELINK_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TRADELINK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TRADELINK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TRADELINK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TRADELINK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TRADELINK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"TRADELINK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"TRADELINK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"TRADELINK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"TRADELINK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"TRADELINK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"TRADELINK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}
