package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. BANNERS_HTTP_PORT.
const EnvPrefix = "BANNERS"

type Config struct {
	HTTP    HTTPC    `mapstructure:"http"`
	Storage StorageC `mapstructure:"storage"`
	Log     LogC     `mapstructure:"log"`
	// Seed fixes banner selection; 0 means random.
	Seed uint64 `mapstructure:"seed"`
}

type HTTPC struct {
	Port int `mapstructure:"port"`
}

type StorageC struct {
	// Path of the bbolt file holding shows counters. Empty keeps them in memory.
	Path string `mapstructure:"path"`
}

type LogC struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", 8080)
	v.SetDefault("storage.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("seed", 0)
}

// Load builds the rotator configuration from defaults, the optional config
// file at path and BANNERS_* environment variables, in increasing priority.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be in 1..65535, got %d", c.HTTP.Port)
	}
	return nil
}
