package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/osgate"
	projectConfigDir = ".osgate"
	configFileName   = "config.yaml"
)

// LoadConfig loads the osgate configuration by layering default,
// user, and project settings.
func LoadConfig() (Config, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. Layer the user-specific configuration, if present
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// Log this error but don't fail; user config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	// 3. Layer the project-specific configuration, if present
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a Config from a YAML file.
func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Only
// fields the overlay actually sets override the base.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.Gateway.Host != "" {
		merged.Gateway.Host = overlay.Gateway.Host
	}
	if overlay.Gateway.Port != 0 {
		merged.Gateway.Port = overlay.Gateway.Port
	}
	if overlay.Gateway.Transport != "" {
		merged.Gateway.Transport = overlay.Gateway.Transport
	}
	if overlay.Gateway.QueryTimeout != 0 {
		merged.Gateway.QueryTimeout = overlay.Gateway.QueryTimeout
	}

	if overlay.OpenStack.AuthURL != "" {
		merged.OpenStack.AuthURL = overlay.OpenStack.AuthURL
	}
	if overlay.OpenStack.Region != "" {
		merged.OpenStack.Region = overlay.OpenStack.Region
	}
	if overlay.OpenStack.Username != "" {
		merged.OpenStack.Username = overlay.OpenStack.Username
	}
	if overlay.OpenStack.Password != "" {
		merged.OpenStack.Password = overlay.OpenStack.Password
	}
	if overlay.OpenStack.ProjectName != "" {
		merged.OpenStack.ProjectName = overlay.OpenStack.ProjectName
	}
	if overlay.OpenStack.UserDomainName != "" {
		merged.OpenStack.UserDomainName = overlay.OpenStack.UserDomainName
	}
	if overlay.OpenStack.ProjectDomainName != "" {
		merged.OpenStack.ProjectDomainName = overlay.OpenStack.ProjectDomainName
	}

	return merged
}

// ApplyEnvironment overrides OpenStack fields from the standard OS_*
// environment variables, matching what the OpenStack CLI tooling
// reads. Environment wins over config files; command-line flags are
// applied after this and win over both.
func (c *OpenStackConfig) ApplyEnvironment() {
	fromEnv := func(field *string, key string) {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}
	fromEnv(&c.AuthURL, "OS_AUTH_URL")
	fromEnv(&c.Region, "OS_REGION_NAME")
	fromEnv(&c.Username, "OS_USERNAME")
	fromEnv(&c.Password, "OS_PASSWORD")
	fromEnv(&c.ProjectName, "OS_PROJECT_NAME")
	fromEnv(&c.UserDomainName, "OS_USER_DOMAIN_NAME")
	fromEnv(&c.ProjectDomainName, "OS_PROJECT_DOMAIN_NAME")
}
