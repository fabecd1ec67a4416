// Package config provides Viper-backed configuration helpers for the CLI.
// Values resolve from flags, then config file, then environment.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// Configuration keys. Environment variables use the upper-snake form, e.g.
// GEOCODE_BASE_URL.
const (
	KeyGeocodeBaseURL = "geocode.base_url"
	KeyGeocodeAPIKey  = "geocode.api_key"
	KeyGeminiAPIKey   = "gemini.api_key"
	KeyRegion         = "region"
	KeyRegionsFile    = "regions_file"
	KeyRepairWorkers  = "repair_workers"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// GeocodeBaseURL returns the geocoding service base URL.
func GeocodeBaseURL() string {
	return GetString(KeyGeocodeBaseURL)
}

// GeocodeAPIKey returns the geocoding service API key, falling back to the
// GEOCODE_API_KEY environment variable.
func GeocodeAPIKey() string {
	if v := GetString(KeyGeocodeAPIKey); v != "" {
		return v
	}
	return os.Getenv("GEOCODE_API_KEY")
}

// GeminiAPIKey returns the Gemini API key, falling back to the conventional
// GEMINI_API_KEY and GOOGLE_API_KEY environment variables.
func GeminiAPIKey() string {
	if v := GetString(KeyGeminiAPIKey); v != "" {
		return v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		return v
	}
	return os.Getenv("GOOGLE_API_KEY")
}

// Region returns the configured operating region name.
func Region() string {
	if v := GetString(KeyRegion); v != "" {
		return v
	}
	return "london"
}

// RegionsFile returns an optional region-table override file.
func RegionsFile() string {
	return GetString(KeyRegionsFile)
}

// RepairWorkers returns the configured repair worker bound, or 0 for the
// engine default.
func RepairWorkers() int {
	return viper.GetInt(KeyRepairWorkers)
}
