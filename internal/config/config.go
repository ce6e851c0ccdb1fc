package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store backends selectable via store.backend.
const (
	BackendPostgREST = "postgrest"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

// Config holds the configuration for the application.
type Config struct {
	Environment string `mapstructure:"environment"`

	Server struct {
		Port        int    `mapstructure:"port"`
		FrontendURL string `mapstructure:"frontend_url"`
	} `mapstructure:"server"`

	Store struct {
		Backend string `mapstructure:"backend"`

		// PostgREST / Supabase
		URL        string `mapstructure:"url"`
		AnonKey    string `mapstructure:"anon_key"`
		ServiceKey string `mapstructure:"service_key"`

		// Direct Postgres
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"store"`

	Gemini struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"gemini"`

	Auth struct {
		Issuer        string `mapstructure:"issuer"`
		ClientID      string `mapstructure:"client_id"`
		ClientSecret  string `mapstructure:"client_secret"`
		RedirectURL   string `mapstructure:"redirect_url"`
		DevModeBypass bool   `mapstructure:"dev_mode_bypass"`
	} `mapstructure:"auth"`
}

// LoadConfig loads the configuration from a file and the environment.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("environment", "DEV")
	viper.SetDefault("server.port", 3001)
	viper.SetDefault("server.frontend_url", "http://localhost:3000")
	viper.SetDefault("store.backend", BackendPostgREST)
	viper.SetDefault("store.sslmode", "disable")
	viper.SetDefault("gemini.model", "gemini-2.0-flash-001")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Auth.Issuer = normalizeIssuer(config.Auth.Issuer)

	switch config.Store.Backend {
	case BackendPostgREST, BackendPostgres, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown store backend %q", config.Store.Backend)
	}

	return &config, nil
}

// StoreKey returns the API key to present to the PostgREST endpoint,
// preferring the service role key.
func (c *Config) StoreKey() string {
	if c.Store.ServiceKey != "" {
		return c.Store.ServiceKey
	}
	return c.Store.AnonKey
}

// normalizeIssuer ensures the provided OIDC issuer string is in a
// predictable form. It removes any trailing slash and leaves the scheme
// and path intact, so the value can be pasted straight from the identity
// provider's admin console.
func normalizeIssuer(input string) string {
	iss := strings.TrimSpace(input)
	if strings.HasSuffix(iss, "/") {
		iss = strings.TrimRight(iss, "/")
	}
	return iss
}
