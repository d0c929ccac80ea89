// Package config loads server configuration from environment variables
// with sensible local-development defaults.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort           string  `mapstructure:"SERVER_PORT"`
	DBPath               string  `mapstructure:"DB_PATH"`
	CORSOrigins          string  `mapstructure:"CORS_ORIGINS"`
	SweepIntervalMinutes int     `mapstructure:"SWEEP_INTERVAL_MINUTES"`
	GeofenceLat          float64 `mapstructure:"GEOFENCE_LAT"`
	GeofenceLng          float64 `mapstructure:"GEOFENCE_LNG"`
	GeofenceRadiusM      float64 `mapstructure:"GEOFENCE_RADIUS_M"`
	LocalDev             bool    `mapstructure:"LOCAL_DEV"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DB_PATH", "roster.db")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080")
	viper.SetDefault("SWEEP_INTERVAL_MINUTES", 30)
	viper.SetDefault("GEOFENCE_LAT", 0)
	viper.SetDefault("GEOFENCE_LNG", 0)
	// Radius 0 disables geofence checks entirely.
	viper.SetDefault("GEOFENCE_RADIUS_M", 0)
	viper.SetDefault("LOCAL_DEV", true)

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}

// CORSOriginList splits the comma-separated origins setting.
func (c Config) CORSOriginList() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
