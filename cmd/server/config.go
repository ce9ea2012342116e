package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultWelcome = "Hello! Configure the endpoint and token above, then ask me anything."

// config carries the build-time defaults of the client. Every field is optional: the endpoint base
// and token act only as fallbacks when nothing is persisted in the settings store, and both can be
// edited from the UI afterwards.
type config struct {
	Port     string `yaml:"port"`
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
	Welcome  string `yaml:"welcome"`
}

// loadConfig reads the yaml config at path. A missing file is not an error; defaults apply.
func loadConfig(path string) (config, error) {
	cfg := config{
		Port:    "8080",
		Welcome: defaultWelcome,
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("error decoding config file: %w", err)
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Welcome == "" {
		cfg.Welcome = defaultWelcome
	}
	return cfg, nil
}
