package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"resumeforge/internal/errors"

	"github.com/hashicorp/vault/api"
)

// defaultVaultTimeout bounds startup secret loading
const defaultVaultTimeout = 10 * time.Second

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Address   string        `mapstructure:"address"`
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"tokenFile"`
	Namespace string        `mapstructure:"namespace"`
	Mount     string        `mapstructure:"mount"` // KV v2 mount, "secret" by default
	Timeout   time.Duration `mapstructure:"timeout"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets are secret paths relative to the KV v2 mount. Empty paths are skipped.
type VaultSecrets struct {
	AIKey     string `mapstructure:"aiKey"`     // holds "api_key"
	JWTSecret string `mapstructure:"jwtSecret"` // holds "secret"
	Database  string `mapstructure:"database"`  // holds "dsn"
}

// VaultClient reads string secrets from a KV v2 engine
type VaultClient struct {
	kv     *api.KVv2
	logger *errors.Logger
}

// NewVaultClient connects to Vault and checks that it is reachable and unsealed
func NewVaultClient(ctx context.Context, cfg VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	apiCfg := api.DefaultConfig()
	if cfg.Address != "" {
		apiCfg.Address = cfg.Address
	}
	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, vaultError("failed to create Vault client", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := resolveVaultToken(cfg)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().HealthWithContext(ctx)
	if err != nil {
		return nil, vaultError("failed to connect to Vault at "+apiCfg.Address, err)
	}
	if health.Sealed {
		return nil, vaultError("Vault at "+apiCfg.Address+" is sealed", nil)
	}
	if logger != nil {
		logger.Info("Connected to Vault",
			"address", apiCfg.Address,
			"version", health.Version,
			"namespace", cfg.Namespace)
	}

	mount := cfg.Mount
	if mount == "" {
		mount = "secret"
	}
	return &VaultClient{kv: client.KVv2(mount), logger: logger}, nil
}

func vaultError(message string, cause error) *errors.AppError {
	return errors.NewConfigError(errors.ErrCodeInvalidConfig, message, cause)
}

// resolveVaultToken prefers the configured token over the token file
func resolveVaultToken(cfg VaultConfig) (string, error) {
	if cfg.Token != "" {
		return cfg.Token, nil
	}
	if cfg.TokenFile == "" {
		return "", vaultError("vault token or tokenFile is required when vault is enabled", nil)
	}
	raw, err := os.ReadFile(cfg.TokenFile)
	if err != nil {
		return "", vaultError("failed to read vault token file "+cfg.TokenFile, err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", vaultError("vault token file "+cfg.TokenFile+" is empty", nil)
	}
	return token, nil
}

// GetStringSecret returns the string stored under key at path
func (vc *VaultClient) GetStringSecret(ctx context.Context, path, key string) (string, error) {
	secret, err := vc.kv.Get(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", path, err)
	}
	value, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %s", key, path)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key %q in secret %s is a %T, not a string", key, path, value)
	}

	if vc.logger != nil {
		version := 0
		if secret.VersionMetadata != nil {
			version = secret.VersionMetadata.Version
		}
		vc.logger.Debug("Secret read from Vault", "path", path, "key", key,
			"version", version, "masked_value", MaskSecret(s))
	}
	return s, nil
}

// secretReader is the part of VaultClient the overrides need
type secretReader interface {
	GetStringSecret(ctx context.Context, path, key string) (string, error)
}

// vaultOverride maps one secret to the config field it replaces
type vaultOverride struct {
	name   string
	path   string
	key    string
	target *string
}

func (c *Config) vaultOverrides() []vaultOverride {
	s := c.Vault.Secrets
	return []vaultOverride{
		{name: "AI API key", path: s.AIKey, key: "api_key", target: &c.AI.APIKey},
		{name: "JWT secret", path: s.JWTSecret, key: "secret", target: &c.Auth.JWTSecret},
		{name: "database DSN", path: s.Database, key: "dsn", target: &c.Database.DSN},
	}
}

// ApplyVaultSecrets replaces configured secrets with the values stored in
// Vault. It does nothing when Vault is disabled.
func ApplyVaultSecrets(ctx context.Context, cfg *Config, logger *errors.Logger) error {
	if !cfg.Vault.Enabled {
		return nil
	}

	timeout := cfg.Vault.Timeout
	if timeout <= 0 {
		timeout = defaultVaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := NewVaultClient(ctx, cfg.Vault, logger)
	if err != nil {
		return err
	}
	return applyOverrides(ctx, client, cfg.vaultOverrides(), logger)
}

func applyOverrides(ctx context.Context, client secretReader, overrides []vaultOverride, logger *errors.Logger) error {
	applied := 0
	for _, o := range overrides {
		if o.path == "" {
			continue
		}
		value, err := client.GetStringSecret(ctx, o.path, o.key)
		if err != nil {
			return vaultError("failed to load "+o.name+" from vault", err)
		}
		if value == "" {
			if logger != nil {
				logger.Warn("Empty secret in Vault, keeping configured value", "secret", o.name, "path", o.path)
			}
			continue
		}
		*o.target = value
		applied++
	}

	if logger != nil {
		logger.Info("Applied secrets from Vault", "applied", applied)
	}
	return nil
}
