// Package config loads application configuration from file and environment.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application, read by viper from an
// app.env file or environment variables.
type Config struct {
	DBSource            string        `mapstructure:"DB_SOURCE"`
	ServerAddress       string        `mapstructure:"SERVER_ADDRESS"`
	TokenSecretKey      string        `mapstructure:"TOKEN_SECRET_KEY"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	PlacesAPIKey        string        `mapstructure:"PLACES_API_KEY"`
	PlacesBaseURL       string        `mapstructure:"PLACES_BASE_URL"`
}

// LoadConfig reads configuration from the given directory, with environment
// variables taking precedence over file values.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("ACCESS_TOKEN_DURATION", 24*time.Hour)
	viper.SetDefault("PLACES_BASE_URL", "https://dapi.kakao.com")

	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
