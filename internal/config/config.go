package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/attendance"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/timerule"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/geo"
)

const (
	StoreTypePostgres = "postgres"
	StoreTypeMemory   = "memory"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Store     StoreConfig
	JWT       JWTConfig
	Shop      ShopConfig
	Rules     timerule.TimeRules
	Notifier  NotifierConfig
	QR        QRConfig
	Bootstrap BootstrapConfig
	Geo       GeoConfig
	Ledger    LedgerConfig
	Scheduler SchedulerConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Version  string

	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// StoreConfig selects where snapshots live
type StoreConfig struct {
	Type string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type ShopConfig struct {
	Name      string
	Latitude  float64
	Longitude float64
	Timezone  string
	Location  *time.Location
}

type NotifierConfig struct {
	Type           string
	Recipient      string
	TelegramToken  string
	TelegramChatID int64
	SlackToken     string
	SlackChannel   string
	QueueSize      int
	SendTimeout    time.Duration
}

// QRConfig enables QR check-in when Secret is set
type QRConfig struct {
	Secret string
	Period time.Duration
}

type BootstrapConfig struct {
	AdminPassword string
}

type GeoConfig struct {
	Timeout           time.Duration
	MaxAccuracyMeters float64
}

type LedgerConfig struct {
	BusinessDayPolicy attendance.BusinessDayPolicy
}

type SchedulerConfig struct {
	SummaryInterval time.Duration
}

// Load reads .env when present, then the environment, then RULES_FILE.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
		slog.Debug("no .env file, using environment only")
	}

	var (
		config = &Config{}
		errs   envErrors
	)

	// Application configuration
	config.App = AppConfig{
		Port:     errs.intVar("APP_PORT", 8080),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Version:  getEnv("APP_VERSION", "dev"),

		AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ","),
	}

	// Database configuration
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     errs.intVar("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "shop_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Store = StoreConfig{
		Type: getEnv("STORE_TYPE", StoreTypePostgres),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	config.Shop = ShopConfig{
		Name:      getEnv("SHOP_NAME", "SENANI KURUWITA"),
		Latitude:  errs.floatVar("SHOP_LATITUDE", 6.7667),
		Longitude: errs.floatVar("SHOP_LONGITUDE", 80.3667),
		Timezone:  getEnv("SHOP_TIMEZONE", "Asia/Colombo"),
	}

	config.Notifier = NotifierConfig{
		Type:           getEnv("NOTIFIER_TYPE", "whatsapp"),
		Recipient:      getEnv("NOTIFIER_RECIPIENT", "0775814859"),
		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: errs.int64Var("TELEGRAM_CHAT_ID", 0),
		SlackToken:     getEnv("SLACK_BOT_TOKEN", ""),
		SlackChannel:   getEnv("SLACK_CHANNEL", ""),
		QueueSize:      errs.intVar("NOTIFIER_QUEUE_SIZE", 100),
		SendTimeout:    errs.durationVar("NOTIFIER_SEND_TIMEOUT", 10*time.Second),
	}

	config.QR = QRConfig{
		Secret: getEnv("QR_SECRET", ""),
		Period: errs.durationVar("QR_PERIOD", 30*time.Second),
	}

	config.Bootstrap = BootstrapConfig{
		AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}

	config.Geo = GeoConfig{
		Timeout:           errs.durationVar("GEO_TIMEOUT", 10*time.Second),
		MaxAccuracyMeters: errs.floatVar("GEO_MAX_ACCURACY_METERS", 0),
	}

	config.Ledger = LedgerConfig{
		BusinessDayPolicy: attendance.BusinessDayPolicy(getEnv("BUSINESS_DAY_POLICY", string(attendance.PolicyCalendar))),
	}

	config.Scheduler = SchedulerConfig{
		SummaryInterval: errs.durationVar("SUMMARY_CHECK_INTERVAL", 15*time.Minute),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// Work rules
	config.Rules = timerule.Default()
	if path := getEnv("RULES_FILE", ""); path != "" {
		rules, err := LoadRulesFile(path, config.Rules)
		if err != nil {
			return nil, err
		}
		config.Rules = rules
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration and resolves the shop time zone
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	switch c.Store.Type {
	case StoreTypePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreTypeMemory:
	default:
		return fmt.Errorf("unknown STORE_TYPE %q", c.Store.Type)
	}

	switch c.Notifier.Type {
	case "whatsapp", "none":
	case "telegram":
		if c.Notifier.TelegramToken == "" || c.Notifier.TelegramChatID == 0 {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required for the telegram notifier")
		}
	case "slack":
		if c.Notifier.SlackToken == "" || c.Notifier.SlackChannel == "" {
			return fmt.Errorf("SLACK_BOT_TOKEN and SLACK_CHANNEL are required for the slack notifier")
		}
	default:
		return fmt.Errorf("unknown NOTIFIER_TYPE %q", c.Notifier.Type)
	}

	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("invalid work rules: %w", err)
	}

	if !c.Ledger.BusinessDayPolicy.Valid() {
		return fmt.Errorf("unknown BUSINESS_DAY_POLICY %q", c.Ledger.BusinessDayPolicy)
	}

	center := geo.Point{Latitude: c.Shop.Latitude, Longitude: c.Shop.Longitude}
	if err := center.Validate(); err != nil {
		return fmt.Errorf("invalid shop location: %w", err)
	}

	loc, err := time.LoadLocation(c.Shop.Timezone)
	if err != nil {
		return fmt.Errorf("invalid SHOP_TIMEZONE: %w", err)
	}
	c.Shop.Location = loc

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// envErrors collects parse failures so every bad variable is reported at once.
type envErrors []error

func (e *envErrors) intVar(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		*e = append(*e, fmt.Errorf("invalid %s: %w", key, err))
	}
	return v
}

func (e *envErrors) int64Var(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(getEnv(key, strconv.FormatInt(fallback, 10)), 10, 64)
	if err != nil {
		*e = append(*e, fmt.Errorf("invalid %s: %w", key, err))
	}
	return v
}

func (e *envErrors) floatVar(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, strconv.FormatFloat(fallback, 'f', -1, 64)), 64)
	if err != nil {
		*e = append(*e, fmt.Errorf("invalid %s: %w", key, err))
	}
	return v
}

func (e *envErrors) durationVar(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		*e = append(*e, fmt.Errorf("invalid %s: %w", key, err))
	}
	return v
}
