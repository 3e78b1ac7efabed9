package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Name: "interior-ai-service", Environment: "development"},
		Server: ServerConfig{Port: "8080"},
		Database: DatabaseConfig{
			Driver: "mysql",
			Host:   "localhost",
			User:   "test",
			DBName: "test",
		},
		Intake:    IntakeConfig{MaxAttempts: 5},
		Processor: ProcessorConfig{Workers: 2, QueueSize: 8},
		GenAI:     GenAIConfig{ProjectID: "demo-project"},
		Email: EmailConfig{
			Transport:     TransportSMTP,
			DesignerEmail: "designer@example.com",
			SMTPHost:      "smtp.gmail.com",
			SMTPPort:      587,
		},
	}
}

func TestConfigValidation(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	invalid := &Config{Server: ServerConfig{Port: ""}}
	assert.Error(t, invalid.Validate())
}

func TestConfigValidationRejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"environment":  func(c *Config) { c.App.Environment = "qa" },
		"driver":       func(c *Config) { c.Database.Driver = "oracle" },
		"max attempts": func(c *Config) { c.Intake.MaxAttempts = 0 },
		"workers":      func(c *Config) { c.Processor.Workers = 0 },
		"project":      func(c *Config) { c.GenAI.ProjectID = "" },
		"designer":     func(c *Config) { c.Email.DesignerEmail = "nobody" },
		"transport":    func(c *Config) { c.Email.Transport = "pigeon" },
		"gmail creds":  func(c *Config) { c.Email.Transport = TransportGmail },
		"retention":    func(c *Config) { c.Retention = RetentionConfig{Days: 30} },
		"sqlite path":  func(c *Config) { c.Database = DatabaseConfig{Driver: "sqlite"} },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Driver:   "mysql",
		Host:     "localhost",
		Port:     3306,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	}
	assert.Equal(t, "testuser:testpass@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=True&loc=Local", cfg.GetDSN())

	cfg.Driver = "postgres"
	cfg.Port = 5432
	cfg.SSLMode = "disable"
	assert.Equal(t, "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable", cfg.GetDSN())

	cfg.Driver = "sqlite"
	cfg.Path = "/tmp/ledger.db"
	assert.Equal(t, "/tmp/ledger.db", cfg.GetDSN())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("INTAKE_MAX_ATTEMPTS", "7")
	t.Setenv("DESIGNER_EMAIL", "designer@example.com")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, 7, cfg.Intake.MaxAttempts)
	assert.Equal(t, "designer@example.com", cfg.Email.DesignerEmail)
	assert.Equal(t, "gemini-1.5-pro", cfg.GenAI.Model)
	assert.Equal(t, "client-form-data", cfg.PubSub.Topic)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.False(t, cfg.Retention.Enabled())
}

func TestFromAddress(t *testing.T) {
	assert.Equal(t, "studio@example.com", EmailConfig{SenderEmail: "studio@example.com", SMTPUsername: "u@example.com"}.FromAddress())
	assert.Equal(t, "u@example.com", EmailConfig{SMTPUsername: "u@example.com", DesignerEmail: "d@example.com"}.FromAddress())
	assert.Equal(t, "d@example.com", EmailConfig{SMTPUsername: "apikey", DesignerEmail: "d@example.com"}.FromAddress())
}
