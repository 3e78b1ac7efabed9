package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Intake    IntakeConfig    `mapstructure:"intake"`
	Processor ProcessorConfig `mapstructure:"processor"`
	GenAI     GenAIConfig     `mapstructure:"genai"`
	Email     EmailConfig     `mapstructure:"email"`
	PubSub    PubSubConfig    `mapstructure:"pubsub"`
	Retention RetentionConfig `mapstructure:"retention"`
}

// AppConfig identifies the running service
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// DatabaseConfig holds ledger store connection configuration
type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"`
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"dbname"`
	SSLMode        string        `mapstructure:"sslmode"`
	Path           string        `mapstructure:"path"`
	TxRetries      int           `mapstructure:"tx_retries"`
	TxRetryBackoff time.Duration `mapstructure:"tx_retry_backoff"`
}

// LogConfig controls logrus output
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// IntakeConfig holds push endpoint settings
type IntakeConfig struct {
	MaxAttempts        int           `mapstructure:"max_attempts"`
	MaxBodyBytes       int64         `mapstructure:"max_body_bytes"`
	AckTimeout         time.Duration `mapstructure:"ack_timeout"`
	CompletedCacheSize int           `mapstructure:"completed_cache_size"`
}

// ProcessorConfig holds background worker pool settings
type ProcessorConfig struct {
	Workers         int           `mapstructure:"workers"`
	QueueSize       int           `mapstructure:"queue_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// GenAIConfig holds Vertex AI settings
type GenAIConfig struct {
	ProjectID       string        `mapstructure:"project_id"`
	Location        string        `mapstructure:"location"`
	Model           string        `mapstructure:"model"`
	CredentialsFile string        `mapstructure:"credentials_file"`
	Temperature     float64       `mapstructure:"temperature"`
	TopP            float64       `mapstructure:"top_p"`
	TopK            float64       `mapstructure:"top_k"`
	MaxOutputTokens int64         `mapstructure:"max_output_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// EmailConfig holds report delivery settings
type EmailConfig struct {
	Transport     string        `mapstructure:"transport"`
	DesignerEmail string        `mapstructure:"designer_email"`
	SenderEmail   string        `mapstructure:"sender_email"`
	SenderName    string        `mapstructure:"sender_name"`
	SMTPHost      string        `mapstructure:"smtp_host"`
	SMTPPort      int           `mapstructure:"smtp_port"`
	SMTPUsername  string        `mapstructure:"smtp_username"`
	SMTPPassword  string        `mapstructure:"smtp_password"`
	SMTPUseTLS    bool          `mapstructure:"smtp_use_tls"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Gmail         GmailConfig   `mapstructure:"gmail"`
}

// GmailConfig holds Gmail API OAuth configuration
type GmailConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RefreshToken string `mapstructure:"refresh_token"`
	UserEmail    string `mapstructure:"user_email"`
}

// PubSubConfig names the topic and subscription feeding the push endpoint
type PubSubConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	Topic           string `mapstructure:"topic"`
	Subscription    string `mapstructure:"subscription"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// RetentionConfig controls pruning of processed ledger rows
type RetentionConfig struct {
	Days            int `mapstructure:"days"`
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

// Enabled reports whether the retention sweeper should run
func (r RetentionConfig) Enabled() bool {
	return r.Days > 0
}

const (
	TransportGmail = "gmail"
	TransportSMTP  = "smtp"
)

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

// LoadConfig loads configuration from environment variables and config file
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "interior-ai-service")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "interior-ai.db")
	v.SetDefault("database.tx_retries", 3)
	v.SetDefault("database.tx_retry_backoff", "50ms")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("intake.max_attempts", 5)
	v.SetDefault("intake.max_body_bytes", 1<<20)
	v.SetDefault("intake.ack_timeout", "10s")
	v.SetDefault("intake.completed_cache_size", 10000)

	v.SetDefault("processor.workers", 4)
	v.SetDefault("processor.queue_size", 64)
	v.SetDefault("processor.shutdown_timeout", "60s")

	v.SetDefault("genai.location", "us-central1")
	v.SetDefault("genai.model", "gemini-1.5-pro")
	v.SetDefault("genai.temperature", 0.7)
	v.SetDefault("genai.top_p", 0.8)
	v.SetDefault("genai.top_k", 40)
	v.SetDefault("genai.max_output_tokens", 8192)
	v.SetDefault("genai.timeout", "120s")

	v.SetDefault("email.transport", TransportSMTP)
	v.SetDefault("email.sender_name", "Interior AI Service")
	v.SetDefault("email.smtp_host", "smtp.gmail.com")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.smtp_use_tls", true)
	v.SetDefault("email.timeout", "30s")

	v.SetDefault("pubsub.topic", "client-form-data")
	v.SetDefault("pubsub.subscription", "client-form-processor")

	v.SetDefault("retention.days", 0)
	v.SetDefault("retention.interval_minutes", 60)
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "APP_NAME")
	v.BindEnv("app.version", "APP_VERSION")
	v.BindEnv("app.environment", "ENVIRONMENT")

	// Server
	v.BindEnv("server.port", "SERVER_PORT", "PORT")
	v.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	v.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")
	v.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Database
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")
	v.BindEnv("database.sslmode", "DB_SSLMODE")
	v.BindEnv("database.path", "DB_PATH")
	v.BindEnv("database.tx_retries", "DB_TX_RETRIES")

	// Logging
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")
	v.BindEnv("log.file", "LOG_FILE")

	// Intake
	v.BindEnv("intake.max_attempts", "INTAKE_MAX_ATTEMPTS")
	v.BindEnv("intake.max_body_bytes", "INTAKE_MAX_BODY_BYTES")
	v.BindEnv("intake.ack_timeout", "INTAKE_ACK_TIMEOUT")
	v.BindEnv("intake.completed_cache_size", "INTAKE_COMPLETED_CACHE_SIZE")

	// Processor
	v.BindEnv("processor.workers", "PROCESSOR_WORKERS")
	v.BindEnv("processor.queue_size", "PROCESSOR_QUEUE_SIZE")
	v.BindEnv("processor.shutdown_timeout", "PROCESSOR_SHUTDOWN_TIMEOUT")

	// GenAI
	v.BindEnv("genai.project_id", "GOOGLE_CLOUD_PROJECT")
	v.BindEnv("genai.location", "GENAI_LOCATION")
	v.BindEnv("genai.model", "GENAI_MODEL")
	v.BindEnv("genai.credentials_file", "GOOGLE_APPLICATION_CREDENTIALS")
	v.BindEnv("genai.timeout", "GENAI_TIMEOUT")

	// Email
	v.BindEnv("email.transport", "EMAIL_TRANSPORT")
	v.BindEnv("email.designer_email", "DESIGNER_EMAIL")
	v.BindEnv("email.sender_email", "SENDER_EMAIL")
	v.BindEnv("email.sender_name", "SENDER_NAME")
	v.BindEnv("email.smtp_host", "SMTP_HOST")
	v.BindEnv("email.smtp_port", "SMTP_PORT")
	v.BindEnv("email.smtp_username", "SMTP_USERNAME")
	v.BindEnv("email.smtp_password", "SMTP_PASSWORD")
	v.BindEnv("email.smtp_use_tls", "SMTP_USE_TLS")
	v.BindEnv("email.gmail.client_id", "GMAIL_CLIENT_ID")
	v.BindEnv("email.gmail.client_secret", "GMAIL_CLIENT_SECRET")
	v.BindEnv("email.gmail.refresh_token", "GMAIL_REFRESH_TOKEN")
	v.BindEnv("email.gmail.user_email", "GMAIL_USER_EMAIL")

	// Pub/Sub
	v.BindEnv("pubsub.project_id", "GOOGLE_CLOUD_PROJECT")
	v.BindEnv("pubsub.topic", "PUBSUB_TOPIC")
	v.BindEnv("pubsub.subscription", "PUBSUB_SUBSCRIPTION")
	v.BindEnv("pubsub.credentials_file", "GOOGLE_APPLICATION_CREDENTIALS")

	// Retention
	v.BindEnv("retention.days", "RETENTION_DAYS")
	v.BindEnv("retention.interval_minutes", "RETENTION_INTERVAL_MINUTES")
}

// GetDSN returns the database connection string for the configured driver
func (c *DatabaseConfig) GetDSN() string {
	switch c.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	case "sqlite":
		return c.Path
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	}
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if !validEnvironments[c.App.Environment] {
		return fmt.Errorf("environment must be one of development, staging, production: got %q", c.App.Environment)
	}

	switch c.Database.Driver {
	case "mysql", "postgres":
		if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
			return fmt.Errorf("database host, user, and dbname are required")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	if c.Intake.MaxAttempts < 1 {
		return fmt.Errorf("intake max_attempts must be at least 1")
	}

	if c.Processor.Workers < 1 || c.Processor.QueueSize < 1 {
		return fmt.Errorf("processor workers and queue_size must be positive")
	}

	if c.GenAI.ProjectID == "" {
		return fmt.Errorf("genai project_id is required")
	}

	if c.Email.DesignerEmail == "" || !strings.Contains(c.Email.DesignerEmail, "@") {
		return fmt.Errorf("a valid designer email is required")
	}

	switch c.Email.Transport {
	case TransportGmail:
		g := c.Email.Gmail
		if g.ClientID == "" || g.ClientSecret == "" || g.RefreshToken == "" {
			return fmt.Errorf("gmail client_id, client_secret, and refresh_token are required")
		}
	case TransportSMTP:
		if c.Email.SMTPHost == "" || c.Email.SMTPPort == 0 {
			return fmt.Errorf("smtp host and port are required")
		}
	default:
		return fmt.Errorf("unsupported email transport: %q", c.Email.Transport)
	}

	if c.Retention.Enabled() && c.Retention.IntervalMinutes <= 0 {
		return fmt.Errorf("retention interval must be positive when retention is enabled")
	}

	return nil
}

// FromAddress returns the sender address for reports, falling back to the
// transport account and then the designer address
func (e EmailConfig) FromAddress() string {
	for _, addr := range []string{e.SenderEmail, e.SMTPUsername, e.Gmail.UserEmail, e.DesignerEmail} {
		if strings.Contains(addr, "@") {
			return addr
		}
	}
	return e.DesignerEmail
}
