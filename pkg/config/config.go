package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Cron         CronConfig
	Settlement   SettlementConfig
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
	Env          string `envconfig:"SECONDMART_APP_ENV" required:"true"`
	Port         string `envconfig:"SECONDMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SECONDMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SECONDMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SECONDMART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SECONDMART_DB_DSN"`
	Driver string `envconfig:"SECONDMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SECONDMART_DB_HOST"`
	LegacyPort     int    `envconfig:"SECONDMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SECONDMART_DB_USER"`
	LegacyPassword string `envconfig:"SECONDMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"SECONDMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"SECONDMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SECONDMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SECONDMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SECONDMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SECONDMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SECONDMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SECONDMART_REDIS_ADDR"`
	Password     string        `envconfig:"SECONDMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"SECONDMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SECONDMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SECONDMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SECONDMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SECONDMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SECONDMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SECONDMART_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval       time.Duration `envconfig:"SECONDMART_CRON_INTERVAL" default:"15m"`
	ReconcileLimit int           `envconfig:"SECONDMART_CRON_RECONCILE_LIMIT" default:"250"`
}

type SettlementConfig struct {
	// DefaultCommissionPercent seeds the commission setting when the
	// settings table is empty.
	DefaultCommissionPercent string `envconfig:"SECONDMART_DEFAULT_COMMISSION_PERCENT" default:"10"`
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
