package config

import (
	"fmt"

	"github.com/caarlos0/env/v7"
	"github.com/gofrs/uuid/v5"
)

// EnvConfig is the process's MQTT connection settings, sourced from
// environment variables.
type EnvConfig struct {
	Host       string `env:"MQTT_HOST,required"`
	Port       int    `env:"MQTT_PORT" envDefault:"1883"`
	Username   string `env:"MQTT_USERNAME"`
	Password   string `env:"MQTT_PASSWORD"`
	ClientID   string `env:"MQTT_CLIENT_ID"`
	ConfigFile string `env:"CONFIG_FILE" envDefault:"config.yaml"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"WARNING"`
}

// LoadEnv parses the process environment into an EnvConfig, synthesizing a
// random MQTT_CLIENT_ID suffix when the variable is unset.
func LoadEnv() (*EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment configuration: %w", err)
	}
	if cfg.ClientID == "" {
		id, err := uuid.NewV4()
		if err != nil {
			return nil, fmt.Errorf("generating default client id: %w", err)
		}
		cfg.ClientID = fmt.Sprintf("MqttProcessor-%s", id.String()[:8])
	}
	return &cfg, nil
}
