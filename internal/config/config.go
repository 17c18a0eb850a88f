// Package config loads reconciler settings from flags, environment, .env files
// and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment variables, e.g. RECONCILER_DB_PATH.
const EnvPrefix = "RECONCILER"

// Config holds the application configuration.
type Config struct {
	ConfigFile   string
	DBPath       string
	Timezone     string
	ListenAddr   string
	LogLevel     string
	LogFormat    string
	ReportFormat string
	ArchiveRuns  bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "Local")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "auto")
	v.SetDefault("report_format", "json")
	v.SetDefault("archive_runs", false)
}

// Load reads configuration in order of precedence: bound flags, environment
// variables, .env files, the config file, then defaults. A missing config file
// is not an error unless configFile names it explicitly.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	loadEnvFiles()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".reconciler")

		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		ConfigFile:   v.ConfigFileUsed(),
		DBPath:       v.GetString("db_path"),
		Timezone:     v.GetString("timezone"),
		ListenAddr:   v.GetString("listen_addr"),
		LogLevel:     v.GetString("log_level"),
		LogFormat:    v.GetString("log_format"),
		ReportFormat: v.GetString("report_format"),
		ArchiveRuns:  v.GetBool("archive_runs"),
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves Timezone; empty or "Local" means the process zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// loadEnvFiles loads .env then .env.local; neither is required. Variables
// already set in the environment win.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
