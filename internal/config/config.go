package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DBDriver      string `mapstructure:"db_driver" yaml:"db_driver"`
	DBPath        string `mapstructure:"db_path" yaml:"db_path"`
	DBHost        string `mapstructure:"db_host" yaml:"db_host"`
	DBPort        string `mapstructure:"db_port" yaml:"db_port"`
	DBUser        string `mapstructure:"db_user" yaml:"db_user"`
	DBPassword    string `mapstructure:"db_password" yaml:"db_password"`
	DBName        string `mapstructure:"db_name" yaml:"db_name"`
	RedisHost     string `mapstructure:"redis_host" yaml:"redis_host"`
	RedisPort     string `mapstructure:"redis_port" yaml:"redis_port"`
	SessionSecret string `mapstructure:"session_secret" yaml:"session_secret"`
	GinMode       string `mapstructure:"gin_mode" yaml:"gin_mode"`
	ServerAddr    string `mapstructure:"server_addr" yaml:"server_addr"`
	OpenAIAPIKey  string `mapstructure:"openai_api_key" yaml:"openai_api_key"`
	LogSQL        bool   `mapstructure:"log_sql" yaml:"log_sql"`
}

// Supported values for DBDriver.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

const configName = "taskgraph"

func defaults() map[string]any {
	return map[string]any{
		"db_driver":      DriverSQLite,
		"db_path":        defaultDBPath(),
		"db_host":        "localhost",
		"db_port":        "3306",
		"db_user":        "taskuser",
		"db_password":    "taskpassword",
		"db_name":        "taskgraph",
		"redis_host":     "",
		"redis_port":     "6379",
		"session_secret": "default-secret-key-change-me",
		"gin_mode":       "debug",
		"server_addr":    ":8080",
		"openai_api_key": "",
		"log_sql":        false,
	}
}

// Load reads configuration from defaults, an optional taskgraph.yaml and the
// environment (DB_HOST, GIN_MODE, ...). An explicit configFile must exist.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("db_path is required for the sqlite driver")
		}
	case DriverMySQL, DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			return fmt.Errorf("db_host and db_name are required for the %s driver", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported db_driver %q (want sqlite, mysql or postgres)", c.DBDriver)
	}
	return nil
}

// WriteDefault writes the default configuration to path as yaml.
// An existing file is left untouched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	cfg := &Config{
		DBDriver:      DriverSQLite,
		DBPath:        defaultDBPath(),
		RedisPort:     "6379",
		SessionSecret: "default-secret-key-change-me",
		GinMode:       "debug",
		ServerAddr:    ":8080",
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "taskgraph.db"
	}
	return filepath.Join(home, ".taskgraph", "tasks.db")
}
