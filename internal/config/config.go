package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	ServerAddr  string `mapstructure:"SERVER_ADDR"`

	// Upstream place-search API used to mirror venues.
	MapsAPIKey  string `mapstructure:"MAPS_API_KEY"`
	MapsBaseURL string `mapstructure:"MAPS_BASE_URL"`
	MapsQuery   string `mapstructure:"MAPS_QUERY"`
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_ADDR", ":8080")
	viper.SetDefault("MAPS_BASE_URL", "https://maps.googleapis.com/maps/api/place/textsearch/json")
	viper.SetDefault("MAPS_QUERY", "padel courts in jakarta")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
