package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Provider ProviderConfig `yaml:"provider" json:"provider"`
	Sessions SessionConfig  `yaml:"sessions" json:"sessions"`
	Frontend FrontendConfig `yaml:"frontend" json:"frontend"`
	Server   ServerConfig   `yaml:"server" json:"server"`
}

func Load() (*Config, error) {
	fileName := "/etc/meet-auth-gateway/config/config.yaml"
	if fn := os.Getenv("MEET_AUTH_GATEWAY_CONFIG"); fn != "" {
		fileName = fn
	}
	var cfg Config
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.ValidateAndInitialize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ValidateAndInitialize() error {
	if err := c.Provider.validateAndInitialize(); err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	if err := c.Sessions.validateAndInitialize(); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	if err := c.Frontend.validateAndInitialize(); err != nil {
		return fmt.Errorf("frontend: %w", err)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}
	return nil
}
