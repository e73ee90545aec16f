package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultAlgorithm = "fastest"

	configDirName = ".crunner"
	configName    = "config"
	configType    = "yaml"
)

// Config holds all crunner configuration.
type Config struct {
	RPCAlgorithm       string              `mapstructure:"rpc_algorithm"` // "fastest" | "failover"
	CustomRPCs         map[string][]string `mapstructure:"custom_rpcs"`
	BlockConfirmations uint64              `mapstructure:"block_confirmations"`
	KeyringRef         string              `mapstructure:"keyring_ref"` // keychain item holding the signing key
	PollInterval       time.Duration       `mapstructure:"poll_interval"`
	SetterSecretKey    string              `mapstructure:"setter_secretkey"`

	// path of the file the values were read from; empty when none was found.
	path string
}

// Load reads configuration from file, or from ~/.crunner/config.yaml when
// file is empty. A missing default file is not an error; a missing explicit
// file is. Environment variables prefixed CRUNNER_ override file values.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	} else if dir, err := defaultDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.path = v.ConfigFileUsed()
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetRPCs returns custom RPCs for a chain.
func (c *Config) GetRPCs(chain string) []string {
	return c.CustomRPCs[strings.ToLower(chain)]
}

// Path returns the config file in use, or "" when running on defaults.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) validate() error {
	switch c.RPCAlgorithm {
	case "fastest", "failover":
	default:
		return fmt.Errorf("invalid rpc_algorithm %q (want fastest or failover)", c.RPCAlgorithm)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid poll_interval %s: must be positive", c.PollInterval)
	}
	return nil
}

// --- helpers ---

// setDefaults registers every key so AutomaticEnv also reaches keys absent
// from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("rpc_algorithm", defaultAlgorithm)
	v.SetDefault("custom_rpcs", map[string][]string{})
	v.SetDefault("block_confirmations", DefaultBlockConfirmations)
	v.SetDefault("keyring_ref", "")
	v.SetDefault("poll_interval", DefaultPollInterval)
	v.SetDefault("setter_secretkey", "")
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home dir: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}
