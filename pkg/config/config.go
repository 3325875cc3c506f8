package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	PublicLimit   PublicRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Pricing       PricingConfig
	Wizard        WizardConfig
	ServiceArea   ServiceAreaConfig
	Stripe        StripeConfig
	Resend        ResendConfig
	Kafka         KafkaConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WASHDAY_APP_ENV" required:"true"`
	Port         string `envconfig:"WASHDAY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WASHDAY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WASHDAY_LOG_WARN_STACK" default:"false"`
	PublicURL    string `envconfig:"WASHDAY_PUBLIC_URL" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WASHDAY_DB_DSN"`
	Driver string `envconfig:"WASHDAY_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"WASHDAY_DB_HOST"`
	Port     int    `envconfig:"WASHDAY_DB_PORT" default:"5432"`
	User     string `envconfig:"WASHDAY_DB_USER"`
	Password string `envconfig:"WASHDAY_DB_PASSWORD"`
	Name     string `envconfig:"WASHDAY_DB_NAME"`
	SSLMode  string `envconfig:"WASHDAY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WASHDAY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WASHDAY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WASHDAY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WASHDAY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WASHDAY_REDIS_URL"`
	Address      string        `envconfig:"WASHDAY_REDIS_ADDR"`
	Password     string        `envconfig:"WASHDAY_REDIS_PASSWORD"`
	DB           int           `envconfig:"WASHDAY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WASHDAY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WASHDAY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WASHDAY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WASHDAY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WASHDAY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"WASHDAY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"WASHDAY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"WASHDAY_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"WASHDAY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WASHDAY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WASHDAY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WASHDAY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WASHDAY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WASHDAY_ARGON_KEY_LEN" default:"32"`
	MinLength        int `envconfig:"WASHDAY_PASSWORD_MIN_LENGTH" default:"6"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"WASHDAY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"WASHDAY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"WASHDAY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"WASHDAY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"WASHDAY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"WASHDAY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// PublicRateLimitConfig throttles anonymous wizard and lead traffic per client IP.
type PublicRateLimitConfig struct {
	RequestsPerMinute int `envconfig:"WASHDAY_PUBLIC_RATE_LIMIT_RPM" default:"120"`
	Burst             int `envconfig:"WASHDAY_PUBLIC_RATE_LIMIT_BURST" default:"30"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WASHDAY_AUTO_MIGRATE" default:"false"`
}

// PricingConfig holds the laundry price formula inputs, expressed as decimal strings.
type PricingConfig struct {
	RatePerPound  string `envconfig:"WASHDAY_PRICING_RATE_PER_POUND" default:"1.75"`
	MinimumCharge string `envconfig:"WASHDAY_PRICING_MINIMUM_CHARGE" default:"17.50"`
}

// Rate parses the per-pound rate. Load has already validated it.
func (p PricingConfig) Rate() decimal.Decimal {
	d, _ := decimal.NewFromString(strings.TrimSpace(p.RatePerPound))
	return d
}

// Minimum parses the minimum charge. Load has already validated it.
func (p PricingConfig) Minimum() decimal.Decimal {
	d, _ := decimal.NewFromString(strings.TrimSpace(p.MinimumCharge))
	return d
}

func (p PricingConfig) validate() error {
	rate, err := decimal.NewFromString(strings.TrimSpace(p.RatePerPound))
	if err != nil {
		return fmt.Errorf("%s: %w", EnvPricingRate, err)
	}
	if !rate.IsPositive() {
		return fmt.Errorf("%s must be positive", EnvPricingRate)
	}
	minimum, err := decimal.NewFromString(strings.TrimSpace(p.MinimumCharge))
	if err != nil {
		return fmt.Errorf("%s: %w", EnvPricingMinimum, err)
	}
	if minimum.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvPricingMinimum)
	}
	return nil
}

// WizardConfig covers wizard session storage. The lock is re-armed while a
// request holds it; SideEffectTimeout bounds each post-payment email or event.
type WizardConfig struct {
	SessionTTL        time.Duration `envconfig:"WASHDAY_WIZARD_SESSION_TTL" default:"2h"`
	LockTTL           time.Duration `envconfig:"WASHDAY_WIZARD_LOCK_TTL" default:"30s"`
	SideEffectTimeout time.Duration `envconfig:"WASHDAY_WIZARD_SIDE_EFFECT_TIMEOUT" default:"10s"`
}

// ServiceAreaConfig bounds the zip codes the business serves (inclusive).
type ServiceAreaConfig struct {
	ZipMin int `envconfig:"WASHDAY_SERVICE_AREA_ZIP_MIN" default:"30000"`
	ZipMax int `envconfig:"WASHDAY_SERVICE_AREA_ZIP_MAX" default:"31999"`
}

type StripeConfig struct {
	APIKey         string `envconfig:"WASHDAY_STRIPE_API_KEY"`
	PublishableKey string `envconfig:"WASHDAY_STRIPE_PUBLISHABLE_KEY"`
	WebhookSecret  string `envconfig:"WASHDAY_STRIPE_WEBHOOK_SECRET"`
	Env            string `envconfig:"WASHDAY_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type ResendConfig struct {
	APIKey      string `envconfig:"WASHDAY_RESEND_API_KEY"`
	DefaultFrom string `envconfig:"WASHDAY_RESEND_FROM_EMAIL" default:"Laundry Service <noreply@washday.app>"`
}

type KafkaConfig struct {
	Brokers     []string      `envconfig:"WASHDAY_KAFKA_BROKERS"`
	OrdersTopic string        `envconfig:"WASHDAY_KAFKA_ORDERS_TOPIC" default:"orders.placed"`
	Timeout     time.Duration `envconfig:"WASHDAY_KAFKA_TIMEOUT" default:"5s"`
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool {
	for _, b := range k.Brokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"WASHDAY_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
