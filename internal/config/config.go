package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port int
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret string
	}
	Mail struct {
		From  string
		OAuth struct {
			User         string
			ClientID     string
			ClientSecret string
			RefreshToken string
		}
		Sandbox struct {
			Host     string
			Port     int
			Username string
			Password string
		}
		Resend struct {
			APIKey string
		}
		SMTP struct {
			Host     string
			Port     int
			Username string
			Password string
		}
	}
	Slack struct {
		Token   string
		Channel string
	}
}

// LoadConfig loads the configuration from config.yaml
func LoadConfig() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	var config Config

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use default values
			config.Database.Path = "data/staffeye.db"
			config.Server.Port = 8080
			config.Auth.JWTSecret = "change-me"
			config.Mail.SMTP.Host = "smtp.gmail.com"
			config.Mail.SMTP.Port = 465

			// Create default config file
			viper.Set("database.path", config.Database.Path)
			viper.Set("server.port", config.Server.Port)
			viper.Set("auth.jwtsecret", config.Auth.JWTSecret)
			viper.Set("mail.smtp.host", config.Mail.SMTP.Host)
			viper.Set("mail.smtp.port", config.Mail.SMTP.Port)

			// Ensure data directory exists
			if err := os.MkdirAll("data", 0755); err != nil {
				fmt.Printf("Warning: Failed to create data directory: %v\n", err)
			}

			if err := viper.SafeWriteConfig(); err != nil {
				fmt.Printf("Warning: Failed to write default config: %v\n", err)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
		}
	} else {
		if err := viper.Unmarshal(&config); err != nil {
			fmt.Printf("Error unmarshaling config: %v\n", err)
		}
	}

	return &config
}
