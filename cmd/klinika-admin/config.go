package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// cliConfig is the flattened configuration the commands consume after
// viper has merged file, environment, and flag sources.
type cliConfig struct {
	BaseURL        string
	Timeout        time.Duration
	ResendCooldown time.Duration
	DevBypass      bool
	StatePath      string
	Memory         bool
	Verbose        bool
}

// loadConfig merges configuration with precedence flags > environment
// (KLINIKA_*) > ~/.config/klinika-admin/config.yaml > defaults.
func loadConfig(flagBaseURL string, flagMemory, flagVerbose bool) (*cliConfig, error) {
	v := viper.New()

	v.SetDefault("gateway.base-url", "")
	v.SetDefault("gateway.timeout", "30s")
	v.SetDefault("signin.resend-cooldown", "60s")
	v.SetDefault("dev.bypass", false)
	v.SetDefault("state.path", "")

	v.SetEnvPrefix("KLINIKA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "klinika-admin"))
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &cliConfig{
		BaseURL:        v.GetString("gateway.base-url"),
		Timeout:        v.GetDuration("gateway.timeout"),
		ResendCooldown: v.GetDuration("signin.resend-cooldown"),
		DevBypass:      v.GetBool("dev.bypass"),
		StatePath:      v.GetString("state.path"),
		Memory:         flagMemory,
		Verbose:        flagVerbose,
	}

	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if cfg.StatePath == "" {
		path, err := defaultStatePath()
		if err != nil {
			return nil, err
		}
		cfg.StatePath = path
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("gateway base URL is required: set --base-url, KLINIKA_GATEWAY_BASE_URL, or gateway.base-url in the config file")
	}
	return cfg, nil
}

func defaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	stateDir := filepath.Join(dir, "klinika-admin")
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return filepath.Join(stateDir, "session.db"), nil
}
