// Package config loads zmail settings from ZMAIL_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/zarlcorp/zmail/internal/browser"
	"github.com/zarlcorp/zmail/internal/mailgen"
	"github.com/zarlcorp/zmail/internal/session"
)

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "ZMAIL"

// Config holds runtime settings. Credentials are not configurable.
type Config struct {
	Domain     string
	Length     int
	VerifyURL  string
	SessionDir string
	LogFile    string
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.SetDefault("DOMAIN", mailgen.DefaultDomain)
	v.SetDefault("LENGTH", mailgen.DefaultLength)
	v.SetDefault("VERIFY_URL", browser.VerifyURL)
	v.SetDefault("SESSION_DIR", session.BaseDir())
	v.SetDefault("LOG_FILE", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Config{
		Domain:     v.GetString("DOMAIN"),
		Length:     v.GetInt("LENGTH"),
		VerifyURL:  v.GetString("VERIFY_URL"),
		SessionDir: v.GetString("SESSION_DIR"),
		LogFile:    v.GetString("LOG_FILE"),
	}

	if cfg.Length <= 0 || cfg.Length > 64 {
		return Config{}, fmt.Errorf("config: %s_LENGTH must be between 1 and 64, got %d", EnvPrefix, cfg.Length)
	}
	if !strings.HasPrefix(cfg.VerifyURL, "https://") && !strings.HasPrefix(cfg.VerifyURL, "http://") {
		return Config{}, fmt.Errorf("config: %s_VERIFY_URL must be an http(s) url, got %q", EnvPrefix, cfg.VerifyURL)
	}

	return cfg, nil
}
