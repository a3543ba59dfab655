package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

/* Config is read from an optional .env file (TOML) and the environment
 * Environment variables win over the file
 */

type Config struct {
	Port             string  `mapstructure:"PORT" validate:"required,numeric"`
	PublicURL        string  `mapstructure:"PUBLIC_URL" validate:"omitempty,url"`
	RedisAddr        string  `mapstructure:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	RedisPassword    string  `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int     `mapstructure:"REDIS_DB" validate:"gte=0"`
	VerifiedTTLHours int     `mapstructure:"VERIFIED_TTL_HOURS" validate:"gte=0"`
	FetchRate        float64 `mapstructure:"FETCH_RATE" validate:"gte=0"`
	LogLevel         string  `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	LogJSON          bool    `mapstructure:"LOG_JSON"`
	PostsFile        string  `mapstructure:"POSTS_FILE"`
}

var defaults = map[string]interface{}{
	"PORT":               "8080",
	"PUBLIC_URL":         "",
	"REDIS_ADDR":         "",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"VERIFIED_TTL_HOURS": 168,
	"FETCH_RATE":         0,
	"LOG_LEVEL":          "info",
	"LOG_JSON":           true,
	"POSTS_FILE":         "posts.yaml",
}

func GetConfig() (*Config, error) {
	return Load(".")
}

// Load reads .env from dir, the file is optional
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	err = v.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	config.PublicURL = strings.TrimRight(config.PublicURL, "/")

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &config, nil
}

// EndpointURL is the XML-RPC endpoint advertised to other sites, "" when PUBLIC_URL is unset
func (c *Config) EndpointURL() string {
	if c.PublicURL == "" {
		return ""
	}
	return c.PublicURL + "/xmlrpc"
}
