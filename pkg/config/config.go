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
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Chat          ChatConfig
	Bookings      BookingsConfig
	Sitters       SittersConfig
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
	Env          string `envconfig:"PAWMATCH_APP_ENV" required:"true"`
	Port         string `envconfig:"PAWMATCH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PAWMATCH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PAWMATCH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PAWMATCH_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PAWMATCH_DB_DSN"`
	Driver string `envconfig:"PAWMATCH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PAWMATCH_DB_HOST"`
	LegacyPort     int    `envconfig:"PAWMATCH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PAWMATCH_DB_USER"`
	LegacyPassword string `envconfig:"PAWMATCH_DB_PASSWORD"`
	LegacyName     string `envconfig:"PAWMATCH_DB_NAME"`
	LegacySSLMode  string `envconfig:"PAWMATCH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PAWMATCH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PAWMATCH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PAWMATCH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PAWMATCH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PAWMATCH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PAWMATCH_REDIS_ADDR"`
	Password     string        `envconfig:"PAWMATCH_REDIS_PASSWORD"`
	DB           int           `envconfig:"PAWMATCH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PAWMATCH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PAWMATCH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PAWMATCH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PAWMATCH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PAWMATCH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PAWMATCH_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PAWMATCH_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PAWMATCH_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PAWMATCH_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PAWMATCH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PAWMATCH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PAWMATCH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PAWMATCH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PAWMATCH_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PAWMATCH_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PAWMATCH_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PAWMATCH_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PAWMATCH_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PAWMATCH_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PAWMATCH_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PAWMATCH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PAWMATCH_AUTO_MIGRATE" default:"false"`
}

type ChatConfig struct {
	SendBuffer     int           `envconfig:"PAWMATCH_CHAT_SEND_BUFFER" default:"256"`
	WriteWait      time.Duration `envconfig:"PAWMATCH_CHAT_WRITE_WAIT" default:"10s"`
	PongWait       time.Duration `envconfig:"PAWMATCH_CHAT_PONG_WAIT" default:"60s"`
	MaxMessageSize int64         `envconfig:"PAWMATCH_CHAT_MAX_MESSAGE_BYTES" default:"8192"`
	MaxContentLen  int           `envconfig:"PAWMATCH_CHAT_MAX_CONTENT_LEN" default:"2000"`
}

// PingPeriod derives the websocket ping cadence from the pong deadline.
func (c ChatConfig) PingPeriod() time.Duration {
	return (c.PongWait * 9) / 10
}

type BookingsConfig struct {
	PendingTTL       time.Duration `envconfig:"PAWMATCH_BOOKINGS_PENDING_TTL" default:"72h"`
	SweepInterval    time.Duration `envconfig:"PAWMATCH_BOOKINGS_SWEEP_INTERVAL" default:"15m"`
	MinDurationHours int           `envconfig:"PAWMATCH_BOOKINGS_MIN_DURATION_HOURS" default:"1"`
}

type SittersConfig struct {
	CertificationPassScore int `envconfig:"PAWMATCH_SITTERS_CERT_PASS_SCORE" default:"80"`
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
