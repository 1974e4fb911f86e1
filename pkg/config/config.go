package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig namespace for every TeklifDesk variable.
const EnvPrefix = "teklifdesk"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv = "TEKLIFDESK_APP_ENV"
	EnvDBDSN  = "TEKLIFDESK_DB_DSN"
	EnvDBHost = "TEKLIFDESK_DB_HOST"
	EnvDBUser = "TEKLIFDESK_DB_USER"
	EnvDBName = "TEKLIFDESK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Quote        QuoteConfig
	Cron         CronConfig
	AuthLimit    AuthRateLimitConfig
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
	Env          string `envconfig:"TEKLIFDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"TEKLIFDESK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TEKLIFDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TEKLIFDESK_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"TEKLIFDESK_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TEKLIFDESK_DB_DSN"`
	Driver string `envconfig:"TEKLIFDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TEKLIFDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"TEKLIFDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TEKLIFDESK_DB_USER"`
	LegacyPassword string `envconfig:"TEKLIFDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"TEKLIFDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"TEKLIFDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TEKLIFDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TEKLIFDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TEKLIFDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TEKLIFDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TEKLIFDESK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TEKLIFDESK_REDIS_ADDR"`
	Password     string        `envconfig:"TEKLIFDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"TEKLIFDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TEKLIFDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TEKLIFDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TEKLIFDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TEKLIFDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TEKLIFDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TEKLIFDESK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TEKLIFDESK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"TEKLIFDESK_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"TEKLIFDESK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TEKLIFDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TEKLIFDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TEKLIFDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TEKLIFDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TEKLIFDESK_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TEKLIFDESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TEKLIFDESK_AUTO_MIGRATE" default:"false"`
}

type QuoteConfig struct {
	DefaultValidityDays int `envconfig:"TEKLIFDESK_QUOTE_DEFAULT_VALIDITY_DAYS" default:"30"`
}

type AuthRateLimitConfig struct {
	LoginLimit  int64         `envconfig:"TEKLIFDESK_LOGIN_RATE_LIMIT" default:"10"`
	LoginWindow time.Duration `envconfig:"TEKLIFDESK_LOGIN_RATE_WINDOW" default:"1m"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"TEKLIFDESK_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"TEKLIFDESK_CRON_LOCK_TTL" default:"55m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
