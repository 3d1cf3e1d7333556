package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Email         EmailConfig
	MediaHost     MediaHostConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = "file::memory:?cache=shared"
		}
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VELORA_APP_ENV" required:"true"`
	Port         string `envconfig:"VELORA_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"VELORA_APP_BASE_URL" default:"http://localhost:3000"`
	LogLevel     string `envconfig:"VELORA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VELORA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VELORA_DB_DSN"`
	Driver string `envconfig:"VELORA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VELORA_DB_HOST"`
	LegacyPort     int    `envconfig:"VELORA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VELORA_DB_USER"`
	LegacyPassword string `envconfig:"VELORA_DB_PASSWORD"`
	LegacyName     string `envconfig:"VELORA_DB_NAME"`
	LegacySSLMode  string `envconfig:"VELORA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VELORA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VELORA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VELORA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VELORA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VELORA_REDIS_URL"`
	Address      string        `envconfig:"VELORA_REDIS_ADDR"`
	Password     string        `envconfig:"VELORA_REDIS_PASSWORD"`
	DB           int           `envconfig:"VELORA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VELORA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VELORA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VELORA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VELORA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VELORA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VELORA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VELORA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VELORA_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VELORA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VELORA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VELORA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VELORA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VELORA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"VELORA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"VELORA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"VELORA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"VELORA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"VELORA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"VELORA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VELORA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VELORA_AUTO_MIGRATE" default:"false"`
}

type EmailConfig struct {
	ResendAPIKey string `envconfig:"VELORA_RESEND_API_KEY"`
	FromAddress  string `envconfig:"VELORA_EMAIL_FROM" default:"Velora <no-reply@velora.app>"`
	AppName      string `envconfig:"VELORA_EMAIL_APP_NAME" default:"Velora"`
	AppBaseURL   string `envconfig:"VELORA_APP_BASE_URL" default:"https://velora.app"`
}

type MediaHostConfig struct {
	CloudName   string `envconfig:"VELORA_MEDIAHOST_CLOUD_NAME"`
	APIKey      string `envconfig:"VELORA_MEDIAHOST_API_KEY"`
	APISecret   string `envconfig:"VELORA_MEDIAHOST_API_SECRET"`
	UploadDir   string `envconfig:"VELORA_MEDIAHOST_UPLOAD_DIR" default:"velora"`
	MaxUploadMB int    `envconfig:"VELORA_MEDIAHOST_MAX_UPLOAD_MB" default:"50"`
	MaxPhotos   int    `envconfig:"VELORA_MEDIAHOST_MAX_PHOTOS" default:"12"`
	MaxVideos   int    `envconfig:"VELORA_MEDIAHOST_MAX_VIDEOS" default:"3"`
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
