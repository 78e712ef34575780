package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zonas horarias disponibles en imágenes mínimas

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Scheduler SchedulerConfig
	Billing   BillingConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string `validate:"required,oneof=development staging production test"`
	Name     string `validate:"required"`
	LogLevel string `validate:"oneof=trace debug info warn error"`
	Timezone string `validate:"required"`
}

// Location zona horaria en la que se evalúan vencimientos y cron.
func (c AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL    string
	Host           string
	Port           int `validate:"min=1,max=65535"`
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrateOnStart bool

	// Pool de conexiones.
	MaxConns          int32         `validate:"min=1"`
	MinConns          int32         `validate:"min=0,ltefield=MaxConns"`
	MaxConnLifetime   time.Duration `validate:"min=1m"`
	MaxConnIdleTime   time.Duration `validate:"min=1s"`
	HealthCheckPeriod time.Duration `validate:"min=1s"`
	ConnectTimeout    time.Duration `validate:"min=1s"`
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string `validate:"required"`
	Expiration int    // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int `validate:"min=1,max=65535"`
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig candado distribuido de barridos. Addr vacío = candado en memoria.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RabbitMQConfig cola de correos. URL vacío = los correos solo se registran en log.
type RabbitMQConfig struct {
	URL        string
	EmailQueue string `validate:"required"`
}

// SchedulerConfig expresiones cron y límites de los barridos de conciliación.
type SchedulerConfig struct {
	Enabled      bool
	Workers      int           `validate:"min=1,max=64"`
	DueDatesCron string        `validate:"required"`
	OverdueCron  string        `validate:"required"`
	ProformaCron string        `validate:"required"`
	ExpiryCron   string        `validate:"required"`
	SummaryCron  string        `validate:"required"`
	SweepTimeout time.Duration `validate:"min=1s"`
	LockTTL      time.Duration `validate:"min=1s"`
}

// BillingConfig parámetros de emisión.
type BillingConfig struct {
	Currency        string `validate:"required"`
	Locale          string // idioma de los textos con importes (BCP 47)
	ProformaDueDays int    `validate:"min=1"`
	DueSoonDays     int    `validate:"min=1"`

	// Emisor impreso en los PDF.
	IssuerName    string `validate:"required"`
	IssuerTaxID   string
	IssuerAddress string
	IssuerPhone   string
	IssuerEmail   string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, SCHEDULER_WORKERS, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "vallas-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Timezone: getString(v, "APP_TIMEZONE", "Africa/Maputo"),
		},
		DB: DBConfig{
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			Host:           getString(v, "DB_HOST", "localhost"),
			Port:           getInt(v, "DB_PORT", 5432),
			User:           getString(v, "DB_USER", "postgres"),
			Password:       getString(v, "DB_PASSWORD", ""),
			DBName:         getString(v, "DB_NAME", "vallas"),
			SSLMode:        getString(v, "DB_SSLMODE", "disable"),
			MigrateOnStart: getBool(v, "DB_MIGRATE_ON_START", false),

			MaxConns:          int32(getInt(v, "DB_MAX_CONNS", 25)),
			MinConns:          int32(getInt(v, "DB_MIN_CONNS", 2)),
			MaxConnLifetime:   getDuration(v, "DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime:   getDuration(v, "DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
			HealthCheckPeriod: getDuration(v, "DB_HEALTH_CHECK_PERIOD", time.Minute),
			ConnectTimeout:    getDuration(v, "DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "vallas-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			URL:        getString(v, "RABBITMQ_URL", ""),
			EmailQueue: getString(v, "RABBITMQ_EMAIL_QUEUE", "vallas.emails"),
		},
		Scheduler: SchedulerConfig{
			Enabled:      getBool(v, "SCHEDULER_ENABLED", true),
			Workers:      getInt(v, "SCHEDULER_WORKERS", 4),
			DueDatesCron: getString(v, "SCHEDULER_DUE_DATES_CRON", "0 9 * * *"),
			OverdueCron:  getString(v, "SCHEDULER_OVERDUE_CRON", "0 10 * * *"),
			ProformaCron: getString(v, "SCHEDULER_PROFORMA_CRON", "0 6 1 * *"),
			ExpiryCron:   getString(v, "SCHEDULER_EXPIRY_CRON", "0 11 * * *"),
			SummaryCron:  getString(v, "SCHEDULER_SUMMARY_CRON", "0 8 * * 1"),
			SweepTimeout: getDuration(v, "SCHEDULER_SWEEP_TIMEOUT", 30*time.Minute),
			LockTTL:      getDuration(v, "SCHEDULER_LOCK_TTL", 35*time.Minute),
		},
		Billing: BillingConfig{
			Currency:        getString(v, "BILLING_CURRENCY", "MT"),
			Locale:          getString(v, "BILLING_LOCALE", "pt-MZ"),
			ProformaDueDays: getInt(v, "BILLING_PROFORMA_DUE_DAYS", 30),
			DueSoonDays:     getInt(v, "BILLING_DUE_SOON_DAYS", 7),
			IssuerName:      getString(v, "BILLING_ISSUER_NAME", "Vallas Publicitarias"),
			IssuerTaxID:     getString(v, "BILLING_ISSUER_TAX_ID", ""),
			IssuerAddress:   getString(v, "BILLING_ISSUER_ADDRESS", ""),
			IssuerPhone:     getString(v, "BILLING_ISSUER_PHONE", ""),
			IssuerEmail:     getString(v, "BILLING_ISSUER_EMAIL", ""),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate aplica las reglas de los tags validate y comprueba la zona horaria.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuración inválida: %w", err)
	}
	if _, err := cfg.App.Location(); err != nil {
		return fmt.Errorf("APP_TIMEZONE %q: %w", cfg.App.Timezone, err)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getDuration acepta "90s", "30m" o un número de segundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
