package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the bot
type Config struct {
	Bot        BotConfig
	Scanner    ScannerConfig
	Executor   ExecutorConfig
	Telegram   TelegramConfig
	Connection ConnectionConfig
	RateLimit  RateLimitConfig
	Features   FeaturesConfig
	Menu       MenuConfig
	Database   DatabaseConfig
	Kafka      KafkaConfig
	S3         S3Config
	Logging    LoggingConfig
	Service    ServiceConfig
}

// BotConfig holds identity and permission settings of the automated account
type BotConfig struct {
	Name      string
	Prefix    string
	Developer string
	SelfMode  bool
	Owner     string
	Mods      []string
}

// ScannerConfig holds the provisioning service endpoint
type ScannerConfig struct {
	URL             string
	SessionID       string
	FetchTimeout    time.Duration
	ValidateTimeout time.Duration
	PushTimeout     time.Duration
}

// ExecutorConfig holds the remote function executor endpoint
type ExecutorConfig struct {
	URL          string
	APIKey       string
	Timeout      time.Duration
	MediaTimeout time.Duration
}

// TelegramConfig holds MTProto client configuration
type TelegramConfig struct {
	APIID      int
	APIHash    string
	Password   string
	SessionDir string
	RateLimit  float64
	RateBurst  int
}

// ConnectionConfig holds connection lifecycle timings
type ConnectionConfig struct {
	InitTimeout      time.Duration
	PresenceInterval time.Duration
}

// RateLimitConfig holds command rate limiting configuration
type RateLimitConfig struct {
	Enabled       bool
	MaxCommands   int
	Window        time.Duration
	SweepInterval time.Duration
	Message       string
}

// FeaturesConfig holds default automation flags for new identities
type FeaturesConfig struct {
	AutoTyping    bool
	AutoRecording bool
	AlwaysOnline  bool
	AntiLink      bool
	AntiBot       bool
	AutoRespond   bool
}

// MenuConfig holds menu images per period of the day
type MenuConfig struct {
	MorningImage   string
	AfternoonImage string
	EveningImage   string
	ImageTimeout   time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
// Settings fall back to memory when neither DSN nor Host is set.
type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether a database is configured
func (c DatabaseConfig) Enabled() bool {
	return c.DSN != "" || c.Host != ""
}

// ConnectionString returns DSN or builds one from parts
func (c DatabaseConfig) ConnectionString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// KafkaConfig holds Kafka configuration for audit events
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// S3Config holds object storage configuration for media references
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name            string
	Port            string
	AdminToken      string
	ShutdownTimeout time.Duration
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config     *Config
	Bot        *BotConfig
	Scanner    *ScannerConfig
	Executor   *ExecutorConfig
	Telegram   *TelegramConfig
	Connection *ConnectionConfig
	RateLimit  *RateLimitConfig
	Features   *FeaturesConfig
	Menu       *MenuConfig
	Database   *DatabaseConfig
	Kafka      *KafkaConfig
	S3         *S3Config
	Logging    *LoggingConfig
	Service    *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}
	return cfg.result(), nil
}

// SessionOut is Out for the one-shot session commands, which only need the
// scanner settings to be valid
func SessionOut() (Result, error) {
	cfg, err := LoadSession()
	if err != nil {
		return Result{}, err
	}
	return cfg.result(), nil
}

func (c *Config) result() Result {
	return Result{
		Config:     c,
		Bot:        &c.Bot,
		Scanner:    &c.Scanner,
		Executor:   &c.Executor,
		Telegram:   &c.Telegram,
		Connection: &c.Connection,
		RateLimit:  &c.RateLimit,
		Features:   &c.Features,
		Menu:       &c.Menu,
		Database:   &c.Database,
		Kafka:      &c.Kafka,
		S3:         &c.S3,
		Logging:    &c.Logging,
		Service:    &c.Service,
	}
}

// Load loads configuration from environment variables and validates
// everything the bot needs to run
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadSession loads configuration and validates only the scanner settings
func LoadSession() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateSession(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	p := &parser{}

	cfg := &Config{
		Bot: BotConfig{
			Name:      getEnv("BOT_NAME", "DEAD-X-BOT"),
			Prefix:    getEnv("BOT_PREFIX", "!"),
			Developer: getEnv("DEVELOPER", "D3AD_XMILE"),
			SelfMode:  p.bool("SELF_MODE", false),
			Owner:     NormalizeIdentity(getEnv("OWNER_NUMBER", "")),
			Mods:      normalizeList(getEnv("MODS", "")),
		},
		Scanner: ScannerConfig{
			URL:             strings.TrimRight(getEnv("SCANNER_URL", ""), "/"),
			SessionID:       getEnv("SESSION_ID", ""),
			FetchTimeout:    p.duration("SCANNER_FETCH_TIMEOUT", 10*time.Second),
			ValidateTimeout: p.duration("SCANNER_VALIDATE_TIMEOUT", 5*time.Second),
			PushTimeout:     p.duration("SCANNER_PUSH_TIMEOUT", 10*time.Second),
		},
		Executor: ExecutorConfig{
			URL:          strings.TrimRight(getEnv("NETHUNTER_FX_URL", ""), "/"),
			APIKey:       getEnv("API_KEY", ""),
			Timeout:      p.duration("API_TIMEOUT", 60*time.Second),
			MediaTimeout: p.duration("MEDIA_FETCH_TIMEOUT", 30*time.Second),
		},
		Telegram: TelegramConfig{
			APIID:      p.int("TELEGRAM_API_ID", 0),
			APIHash:    getEnv("TELEGRAM_API_HASH", ""),
			Password:   getEnv("TELEGRAM_PASSWORD", ""),
			SessionDir: getEnv("TELEGRAM_SESSION_DIR", "./sessions"),
			RateLimit:  p.float("TELEGRAM_RATE_LIMIT", 20),
			RateBurst:  p.int("TELEGRAM_RATE_BURST", 5),
		},
		Connection: ConnectionConfig{
			InitTimeout:      p.duration("INIT_TIMEOUT", 60*time.Second),
			PresenceInterval: p.duration("PRESENCE_INTERVAL", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled:       p.bool("RATE_LIMIT_ENABLED", true),
			MaxCommands:   p.int("RATE_LIMIT_MAX", 10),
			Window:        p.duration("RATE_LIMIT_WINDOW", time.Minute),
			SweepInterval: p.duration("RATE_LIMIT_SWEEP", time.Minute),
			Message:       getEnv("RATE_LIMIT_MESSAGE", "⚠️ Too many commands! Please wait a moment."),
		},
		Features: FeaturesConfig{
			AutoTyping:    p.bool("FEATURE_AUTO_TYPING", true),
			AutoRecording: p.bool("FEATURE_AUTO_RECORDING", true),
			AlwaysOnline:  p.bool("FEATURE_ALWAYS_ONLINE", true),
			AntiLink:      p.bool("FEATURE_ANTI_LINK", false),
			AntiBot:       p.bool("FEATURE_ANTI_BOT", false),
			AutoRespond:   p.bool("FEATURE_AUTO_RESPOND", false),
		},
		Menu: MenuConfig{
			MorningImage:   getEnv("MENU_IMAGE_MORNING", "https://files.catbox.moe/mf03mj.jpeg"),
			AfternoonImage: getEnv("MENU_IMAGE_AFTERNOON", "https://files.catbox.moe/iaeurm.jpg"),
			EveningImage:   getEnv("MENU_IMAGE_EVENING", "https://files.catbox.moe/kv5h9k.jpg"),
			ImageTimeout:   p.duration("MENU_IMAGE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "deadxbot"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(getEnv("KAFKA_BROKERS", "")),
			AuditTopic: getEnv("KAFKA_AUDIT_TOPIC", "bot.audit"),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			UseSSL:    p.bool("S3_USE_SSL", true),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Service: ServiceConfig{
			Name:            getEnv("SERVICE_NAME", "dead-x-bot"),
			Port:            getEnv("SERVICE_PORT", "8080"),
			AdminToken:      getEnv("ADMIN_TOKEN", ""),
			ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
	}

	if p.err != nil {
		return nil, p.err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	if c.Scanner.URL == "" {
		errs = append(errs, fmt.Errorf("SCANNER_URL is required"))
	}
	if c.Scanner.SessionID == "" {
		errs = append(errs, fmt.Errorf("SESSION_ID is required"))
	}
	if c.Executor.URL == "" {
		errs = append(errs, fmt.Errorf("NETHUNTER_FX_URL is required"))
	}
	if c.Telegram.APIID == 0 {
		errs = append(errs, fmt.Errorf("TELEGRAM_API_ID is required"))
	}
	if c.Telegram.APIHash == "" {
		errs = append(errs, fmt.Errorf("TELEGRAM_API_HASH is required"))
	}
	if c.Bot.Prefix == "" {
		errs = append(errs, fmt.Errorf("BOT_PREFIX must not be empty"))
	}
	if c.RateLimit.MaxCommands <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_MAX must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.Connection.InitTimeout <= 0 {
		errs = append(errs, fmt.Errorf("INIT_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// ValidateSession validates the settings used by the session commands.
// SESSION_ID may instead come from the command line.
func (c *Config) ValidateSession() error {
	var errs []error

	if c.Scanner.URL == "" {
		errs = append(errs, fmt.Errorf("SCANNER_URL is required"))
	}
	if c.Scanner.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SCANNER_FETCH_TIMEOUT must be positive"))
	}
	if c.Scanner.ValidateTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SCANNER_VALIDATE_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// NormalizeIdentity prefixes bare account numbers with the user namespace
func NormalizeIdentity(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.Contains(value, ":") {
		return value
	}
	return "user:" + strings.TrimPrefix(value, "+")
}

func normalizeList(value string) []string {
	items := splitList(value)
	for i, item := range items {
		items[i] = NormalizeIdentity(item)
	}
	return items
}

func splitList(value string) []string {
	result := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// parser reads typed environment variables and keeps the first parse error
type parser struct {
	err error
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}

func (p *parser) int(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) float(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) bool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}
