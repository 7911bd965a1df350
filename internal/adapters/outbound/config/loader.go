package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/misrafix/misrafix/internal/domain"
)

const configDirName = ".misrafix"

// Environment variables that override the persisted connection profile.
// Any set variable wins over its persisted counterpart.
const (
	EnvProvider   = "MISRAFIX_PROVIDER"
	EnvAPIKey     = "MISRAFIX_API_KEY"
	EnvModel      = "MISRAFIX_MODEL"
	EnvEndpoint   = "MISRAFIX_ENDPOINT"
	EnvDeployment = "MISRAFIX_DEPLOYMENT"
	EnvAPIVersion = "MISRAFIX_API_VERSION"
)

// Path returns the persisted config location, creating the directory.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, configDirName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load returns the effective completion-service profile: the persisted
// configuration with environment overrides applied on top.
func Load() (domain.CompletionConfig, error) {
	persisted, err := loadPersisted()
	if err != nil {
		return domain.CompletionConfig{}, err
	}
	return persisted.Merge(fromEnv()), nil
}

// Save writes the profile to the persisted config file. 0600 because it
// holds a credential.
func Save(cfg domain.CompletionConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

func loadPersisted() (domain.CompletionConfig, error) {
	path, err := Path()
	if err != nil {
		return domain.CompletionConfig{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.CompletionConfig{}, nil
		}
		return domain.CompletionConfig{}, err
	}

	var cfg domain.CompletionConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.CompletionConfig{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func fromEnv() domain.CompletionConfig {
	return domain.CompletionConfig{
		Provider:   domain.Provider(os.Getenv(EnvProvider)),
		APIKey:     os.Getenv(EnvAPIKey),
		Model:      os.Getenv(EnvModel),
		Endpoint:   os.Getenv(EnvEndpoint),
		Deployment: os.Getenv(EnvDeployment),
		APIVersion: os.Getenv(EnvAPIVersion),
	}
}
