package configs

import (
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Email    EmailConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// EmailConfig holds SMTP configuration for best-effort notifications
type EmailConfig struct {
	Enabled      bool
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
	BranchInbox  string
}

// LoadConfig loads configuration from environment variables with defaults
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "godgrace")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("smtp.enabled", false)
	v.SetDefault("smtp.host", "smtp.example.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.user", "user")
	v.SetDefault("smtp.password", "password")
	v.SetDefault("smtp.sender", "no-reply@godgraceenterprise.com")
	v.SetDefault("smtp.branch_inbox", "")

	return &Config{
		Server: ServerConfig{
			Port: v.GetInt("server.port"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		Email: EmailConfig{
			Enabled:      v.GetBool("smtp.enabled"),
			SMTPHost:     v.GetString("smtp.host"),
			SMTPPort:     v.GetInt("smtp.port"),
			SMTPUser:     v.GetString("smtp.user"),
			SMTPPassword: v.GetString("smtp.password"),
			SenderEmail:  v.GetString("smtp.sender"),
			BranchInbox:  v.GetString("smtp.branch_inbox"),
		},
	}, nil
}
