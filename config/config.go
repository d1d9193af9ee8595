package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
			MaxConns int32  `mapstructure:"maxconns"`
		} `mapstructure:"postgres"`
		Redis struct {
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"repositories"`
	Planner struct {
		CacheTTL   time.Duration    `mapstructure:"cache_ttl"`
		Heuristics types.Heuristics `mapstructure:"heuristics"`
	} `mapstructure:"planner"`
	Providers struct {
		GoogleMapsKey string `mapstructure:"google_maps_key"`
		GeminiKey     string `mapstructure:"gemini_key"`
		GeminiModel   string `mapstructure:"gemini_model"`
		RetryAttempts int    `mapstructure:"retry_attempts"`
	} `mapstructure:"providers"`
	Auth struct {
		JWTSecret string `mapstructure:"jwt_secret"`
	} `mapstructure:"auth"`
	Observability struct {
		ServiceName string `mapstructure:"service_name"`
		MetricsPort string `mapstructure:"metrics_port"`
	} `mapstructure:"observability"`
}

// Default returns a config with the planner heuristics pre-filled so a partial
// planner section only overrides what it names.
func Default() Config {
	var cfg Config
	cfg.Planner.CacheTTL = 7 * 24 * time.Hour
	cfg.Planner.Heuristics = types.DefaultHeuristics()
	cfg.Providers.RetryAttempts = 3
	cfg.Observability.ServiceName = "travel-planner"
	cfg.Observability.MetricsPort = "9090"
	return cfg
}

func InitConfig() (Config, error) {
	config := Default()
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	return decode(v, config)
}

// Load reads config from raw yaml on top of the defaults.
func Load(raw []byte) (Config, error) {
	v := viper.New()
	v.SetConfigType("yml")
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return decode(v, Default())
}

func decode(v *viper.Viper, config Config) (Config, error) {
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	if len(config.Planner.Heuristics.Slots) == 0 {
		config.Planner.Heuristics.Slots = types.DefaultSlots()
	}
	if err := config.Planner.Heuristics.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid planner config: %w", err)
	}
	return config, nil
}
