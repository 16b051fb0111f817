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
	DB           DBConfig
	Redis        RedisConfig
	HL7          HL7Config
	Flagging     FlaggingConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"LIMS_APP_ENV" required:"true"`
	Port         string `envconfig:"LIMS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LIMS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LIMS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LIMS_DB_DSN"`
	Driver string `envconfig:"LIMS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LIMS_DB_HOST"`
	LegacyPort     int    `envconfig:"LIMS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LIMS_DB_USER"`
	LegacyPassword string `envconfig:"LIMS_DB_PASSWORD"`
	LegacyName     string `envconfig:"LIMS_DB_NAME"`
	LegacySSLMode  string `envconfig:"LIMS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LIMS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LIMS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LIMS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LIMS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LIMS_REDIS_URL"`
	Address      string        `envconfig:"LIMS_REDIS_ADDR"`
	Password     string        `envconfig:"LIMS_REDIS_PASSWORD"`
	DB           int           `envconfig:"LIMS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LIMS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LIMS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LIMS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LIMS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LIMS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// HL7Config bounds the values this service derives from inbound message headers.
type HL7Config struct {
	SourceLabelMaxLen int    `envconfig:"LIMS_HL7_SOURCE_LABEL_MAX_LEN" default:"100"`
	TempCodePrefix    string `envconfig:"LIMS_HL7_TEMP_CODE_PREFIX" default:"TMP"`
	MaxPayloadBytes   int64  `envconfig:"LIMS_HL7_MAX_PAYLOAD_BYTES" default:"1048576"`
}

type FlaggingConfig struct {
	RuleSetCacheTTL time.Duration `envconfig:"LIMS_FLAGGING_RULESET_CACHE_TTL" default:"60s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LIMS_AUTO_MIGRATE" default:"false"`
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
