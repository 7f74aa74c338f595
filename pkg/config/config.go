// Package config loads engine configuration from nexus.yaml and the
// environment.
package config

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds engine configuration.
type Config struct {
	Log       LogConfig
	Runtime   RuntimeConfig
	Inspector InspectorConfig
	Templates TemplatesConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level   string
	Console bool
}

// RuntimeConfig holds update-loop settings.
type RuntimeConfig struct {
	UpdateRate int `mapstructure:"update_rate"`
}

// InspectorConfig holds debug-server settings.
type InspectorConfig struct {
	Enabled bool
	Port    int
}

// TemplatesConfig holds scene-template settings.
type TemplatesConfig struct {
	Dir string
}

// Default returns the built-in configuration, the same values Load
// falls back to when no file or environment override is present.
func Default() Config {
	return Config{
		Log:       LogConfig{Level: "info", Console: true},
		Runtime:   RuntimeConfig{UpdateRate: 60},
		Inspector: InspectorConfig{Enabled: false, Port: 8077},
		Templates: TemplatesConfig{Dir: "."},
	}
}

// Load reads configuration from path, or from nexus.yaml in the
// working directory when path is empty. Environment variables override
// file values with prefix NEXUS_ (NEXUS_RUNTIME_UPDATE_RATE=144). A
// missing default file is fine; a missing explicit path is an error.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("runtime.update_rate", 60)
	v.SetDefault("inspector.enabled", false)
	v.SetDefault("inspector.port", 8077)
	v.SetDefault("templates.dir", ".")

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("nexus")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("NEXUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.Runtime.UpdateRate <= 0 {
		return fmt.Errorf("runtime.update_rate must be positive, got %d", c.Runtime.UpdateRate)
	}
	if c.Inspector.Port < 0 || c.Inspector.Port > 65535 {
		return fmt.Errorf("inspector.port out of range: %d", c.Inspector.Port)
	}
	return nil
}
