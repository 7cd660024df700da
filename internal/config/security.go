package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SecurityConfig is the shape of config/security.yaml.
type SecurityConfig struct {
	Security struct {
		Auth struct {
			Provider string `yaml:"provider"`
			Admin    struct {
				MinPasswordLength int      `yaml:"min_password_length"`
				WeakPasswords     []string `yaml:"weak_passwords"`
			} `yaml:"admin"`
		} `yaml:"auth"`
		PublicEndpoints []string `yaml:"public_endpoints"`
		JWT             struct {
			SecretEnv   string `yaml:"secret_env"`
			ExpiryHours int    `yaml:"expiry_hours"`
		} `yaml:"jwt"`
	} `yaml:"security"`
}

// DefaultSecurityConfig is used when no file is configured. Empty lists
// mean the auth package defaults apply.
func DefaultSecurityConfig() *SecurityConfig {
	var c SecurityConfig
	c.Security.Auth.Provider = "admin"
	c.Security.Auth.Admin.MinPasswordLength = 12
	c.Security.JWT.SecretEnv = "JWT_SECRET"
	c.Security.JWT.ExpiryHours = 1
	return &c
}

// LoadSecurityConfig reads the YAML file at path over the defaults. An
// empty path returns DefaultSecurityConfig.
func LoadSecurityConfig(path string) (*SecurityConfig, error) {
	config := DefaultSecurityConfig()
	if path == "" {
		return config, nil
	}

	// #nosec G304 -- path comes from SECURITY_CONFIG_PATH, not from a request
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validateSecurityConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

func validateSecurityConfig(config *SecurityConfig) error {
	// 管理者1名のみ対応
	if config.Security.Auth.Provider != "admin" {
		return fmt.Errorf("unsupported auth provider %q", config.Security.Auth.Provider)
	}
	if config.Security.Auth.Admin.MinPasswordLength < 8 {
		return errors.New("min_password_length must be at least 8")
	}
	if config.Security.JWT.SecretEnv == "" {
		return errors.New("jwt secret_env is required")
	}
	if config.Security.JWT.ExpiryHours <= 0 {
		return errors.New("jwt expiry_hours must be positive")
	}
	return nil
}

// GetAuthProvider returns the configured authentication provider name.
func (c *SecurityConfig) GetAuthProvider() string {
	return c.Security.Auth.Provider
}

// GetMinPasswordLength returns the minimum admin password length.
func (c *SecurityConfig) GetMinPasswordLength() int {
	return c.Security.Auth.Admin.MinPasswordLength
}

// GetWeakPasswords returns the configured weak password list, possibly empty.
func (c *SecurityConfig) GetWeakPasswords() []string {
	return c.Security.Auth.Admin.WeakPasswords
}

// GetPublicEndpoints returns the configured public endpoints, possibly empty.
func (c *SecurityConfig) GetPublicEndpoints() []string {
	return c.Security.PublicEndpoints
}

// GetJWTSecretEnv returns the name of the variable holding the signing secret.
func (c *SecurityConfig) GetJWTSecretEnv() string {
	return c.Security.JWT.SecretEnv
}

// GetJWTExpiry returns the token lifetime.
func (c *SecurityConfig) GetJWTExpiry() time.Duration {
	return time.Duration(c.Security.JWT.ExpiryHours) * time.Hour
}
