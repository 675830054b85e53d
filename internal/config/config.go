// Package config loads and saves the starforge configuration file. The
// file lives at ~/.starforge/config.yaml unless STARFORGE_CONFIG points
// somewhere else. Passwords are kept out of the file when the system
// keyring is available.
package config

import (
    "fmt"
    "os"
    "path/filepath"

    "gopkg.in/yaml.v3"

    "starforge/internal/common"
    "starforge/pkg/models"
)

func GetConfigPath() string {
    if configFile := os.Getenv("STARFORGE_CONFIG"); configFile != "" {
        return filepath.Dir(configFile)
    }
    home, _ := os.UserHomeDir()
    return filepath.Join(home, ".starforge")
}

func GetConfigFile() string {
    if configFile := os.Getenv("STARFORGE_CONFIG"); configFile != "" {
        // Validate the path to prevent directory traversal
        cleaned, err := common.CleanPath(configFile)
        if err != nil {
            return filepath.Join(GetConfigPath(), "config.yaml")
        }
        return cleaned
    }
    return filepath.Join(GetConfigPath(), "config.yaml")
}

// Load reads the configuration file. A missing file yields an empty
// config with default layer names, not an error.
func Load() (*models.Config, error) {
    configFile := GetConfigFile()

    cleanedPath, err := common.CleanPath(configFile)
    if err != nil {
        return nil, fmt.Errorf("invalid config file path: %w", err)
    }

    config := &models.Config{Layers: models.DefaultLayers()}

    if _, err := os.Stat(cleanedPath); os.IsNotExist(err) {
        return config, nil
    }

    data, err := os.ReadFile(cleanedPath) // #nosec G304 - path is validated
    if err != nil {
        return nil, fmt.Errorf("failed to read config file: %w", err)
    }

    if err := yaml.Unmarshal(data, config); err != nil {
        return nil, fmt.Errorf("failed to unmarshal config: %w", err)
    }
    applyDefaults(config)
    return config, nil
}

// Save writes the configuration file with owner-only permissions.
func Save(config *models.Config) error {
    configPath := GetConfigPath()
    if err := os.MkdirAll(configPath, 0700); err != nil {
        return fmt.Errorf("failed to create config directory: %w", err)
    }

    data, err := yaml.Marshal(config)
    if err != nil {
        return fmt.Errorf("failed to marshal config: %w", err)
    }

    if err := os.WriteFile(GetConfigFile(), data, 0600); err != nil {
        return fmt.Errorf("failed to write config file: %w", err)
    }

    return nil
}

func Exists() bool {
    _, err := os.Stat(GetConfigFile())
    return err == nil
}

func applyDefaults(config *models.Config) {
    defaults := models.DefaultLayers()
    if config.Layers.Raw == "" {
        config.Layers.Raw = defaults.Raw
    }
    if config.Layers.Conformed == "" {
        config.Layers.Conformed = defaults.Conformed
    }
    if config.Layers.Mart == "" {
        config.Layers.Mart = defaults.Mart
    }
    if config.Validation.SampleKeys <= 0 {
        config.Validation.SampleKeys = 5
    }
}
