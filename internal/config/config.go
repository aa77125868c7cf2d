package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	DB        DatabaseConfig
	App       AppConfig
	Logger    LoggerConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// DatabaseConfig holds configuration for the database
type DatabaseConfig struct {
	Host            string `mapstructure:"DB_HOST" validate:"required"`
	Port            string `mapstructure:"DB_PORT" validate:"required,numeric"`
	User            string `mapstructure:"DB_USER" validate:"required"`
	Password        string `mapstructure:"DB_PASSWORD"`
	Name            string `mapstructure:"DB_NAME" validate:"required"`
	SSLMode         string `mapstructure:"DB_SSLMODE" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns    int    `mapstructure:"DB_MAX_OPEN_CONNS" validate:"gte=0"`
	MaxIdleConns    int    `mapstructure:"DB_MAX_IDLE_CONNS" validate:"gte=0"`
	ConnMaxLifetime int    `mapstructure:"DB_CONN_MAX_LIFETIME" validate:"gte=0"`  // seconds
	ConnMaxIdleTime int    `mapstructure:"DB_CONN_MAX_IDLE_TIME" validate:"gte=0"` // seconds
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	HTTPPort               string   `mapstructure:"HTTP_PORT" validate:"required,numeric"`
	GRPCPort               string   `mapstructure:"GRPC_PORT" validate:"required,numeric"`
	GRPCEnabled            bool     `mapstructure:"GRPC_ENABLED"`
	ShutdownTimeoutSeconds int      `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" validate:"gt=0"`
	CORSAllowedOrigins     []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	SwaggerEnabled         bool     `mapstructure:"SWAGGER_ENABLED"`
	ExposeInternalErrors   bool     `mapstructure:"EXPOSE_INTERNAL_ERRORS"`
	Environment            string   `mapstructure:"APP_ENV"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn warning error dpanic panic fatal"`
	Format           string  `mapstructure:"LOG_FORMAT" validate:"oneof=json console"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS" validate:"gte=0"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME" validate:"required"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// RedisConfig holds configuration for the Redis backing the rate limiter
type RedisConfig struct {
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT" validate:"omitempty,numeric"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB" validate:"gte=0"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE" validate:"gte=0"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN" validate:"gte=0"`
}

// RateLimitConfig holds configuration for the token bucket rate limiter
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_REQUESTS_PER_SECOND" validate:"gt=0"`
	BurstCapacity     int     `mapstructure:"RATE_LIMIT_BURST_CAPACITY" validate:"gt=0"`
}

// LoadConfig reads configuration from an optional app.env file in path,
// overridden by environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv() // environment wins over app.env and defaults
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.DB.Host = v.GetString("DB_HOST")
	config.DB.Port = v.GetString("DB_PORT")
	config.DB.User = v.GetString("DB_USER")
	config.DB.Password = v.GetString("DB_PASSWORD")
	config.DB.Name = v.GetString("DB_NAME")
	config.DB.SSLMode = v.GetString("DB_SSLMODE")
	config.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetime = v.GetInt("DB_CONN_MAX_LIFETIME")
	config.DB.ConnMaxIdleTime = v.GetInt("DB_CONN_MAX_IDLE_TIME")

	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.GRPCPort = v.GetString("GRPC_PORT")
	config.App.GRPCEnabled = v.GetBool("GRPC_ENABLED")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")
	config.App.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	config.App.SwaggerEnabled = v.GetBool("SWAGGER_ENABLED")
	config.App.ExposeInternalErrors = v.GetBool("EXPOSE_INTERNAL_ERRORS")
	config.App.Environment = v.GetString("APP_ENV")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_REQUESTS_PER_SECOND")
	config.RateLimit.BurstCapacity = v.GetInt("RATE_LIMIT_BURST_CAPACITY")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "users")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("GRPC_PORT", "50051")
	v.SetDefault("GRPC_ENABLED", true)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SWAGGER_ENABLED", true)
	v.SetDefault("EXPOSE_INTERNAL_ERRORS", true)
	v.SetDefault("APP_ENV", "development")

	// Logger defaults depend on the environment
	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "user-directory-api")
	v.SetDefault("SERVICE_VERSION", "1.0.0")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 10)
	v.SetDefault("RATE_LIMIT_BURST_CAPACITY", 20)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the loaded configuration and reports every problem at once.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.RateLimit.Enabled && c.Redis.Host == "" {
		return errors.New("validation failed: REDIS_HOST is required when rate limiting is enabled")
	}
	return nil
}

// formatValidationError converts validator.ValidationErrors into a human-readable error message.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "numeric":
			messages = append(messages, fmt.Sprintf("%s must be numeric", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s]", field, e.Param()))
		case "gt", "gte":
			messages = append(messages, fmt.Sprintf("%s must be %s %s", field, e.Tag(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, ", "))
}

// DSN returns the PostgreSQL Data Source Name in keyword/value form.
// Every value is single-quoted so empty values and values with spaces survive.
func (c *DatabaseConfig) DSN() string {
	pairs := [][2]string{
		{"host", c.Host},
		{"user", c.User},
		{"password", c.Password},
		{"dbname", c.Name},
		{"port", c.Port},
		{"sslmode", c.SSLMode},
	}

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p[0] + "=" + quoteDSNValue(p[1])
	}
	return strings.Join(parts, " ")
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteDSNValue(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

// Secrets returns the configured passwords worth masking in error text.
// A password equal to a non-secret identifier (user, database or host name)
// is skipped, since masking it would also hide those identifiers.
func (c *Config) Secrets() []string {
	public := map[string]bool{
		c.DB.User: true,
		c.DB.Name: true,
		c.DB.Host: true,
	}

	var out []string
	for _, s := range []string{c.DB.Password, c.Redis.Password} {
		if s != "" && !public[s] {
			out = append(out, s)
		}
	}
	return out
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c *AppConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
