// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Thermoquad/airostat/pkg/airobot"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config keys
const (
	keyHost     = "host"
	keyPort     = "port"
	keyUsername = "username"
	keyPassword = "password"
	keyTimeout  = "timeout"
	keyRetries  = "retries"
	keyStrict   = "strict"
	keyLogLevel = "log.level"
)

const envPrefix = "AIROBOT"

// conf holds flags, environment and config file values for the CLI
var conf = newConfig()

// connectionConfig is everything needed to reach one thermostat
type connectionConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
	Retries  int
	Strict   bool
}

func newConfig() *viper.Viper {
	v := viper.New()
	v.SetDefault(keyPort, airobot.DefaultPort)
	v.SetDefault(keyTimeout, airobot.DefaultTimeout)
	v.SetDefault(keyRetries, 0)
	v.SetDefault(keyStrict, false)
	v.SetDefault(keyLogLevel, WarnLevel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// bindFlags connects persistent flags to their config keys. Only flags the
// user actually set override the config file.
func bindFlags(flags *pflag.FlagSet) {
	for _, key := range []string{keyHost, keyPort, keyUsername, keyTimeout, keyRetries, keyStrict} {
		if f := flags.Lookup(key); f != nil {
			_ = conf.BindPFlag(key, f)
		}
	}
}

// loadConfig reads the config file. A missing default config file is not an
// error; a missing explicit --config file is.
func loadConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("airostat")
		v.SetConfigType("yaml")
		for _, dir := range configDirs() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func configDirs() []string {
	dirs := []string{}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "airostat"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "airostat"))
	}
	return append(dirs, ".")
}

// connectionConfigFrom validates the connection settings. The password may
// be empty; the caller prompts for it.
func connectionConfigFrom(v *viper.Viper) (connectionConfig, error) {
	c := connectionConfig{
		Host:     strings.TrimSpace(v.GetString(keyHost)),
		Port:     v.GetInt(keyPort),
		Username: strings.TrimSpace(v.GetString(keyUsername)),
		Password: v.GetString(keyPassword),
		Timeout:  v.GetDuration(keyTimeout),
		Retries:  v.GetInt(keyRetries),
		Strict:   v.GetBool(keyStrict),
	}

	if c.Host == "" {
		return c, fmt.Errorf("no thermostat host configured (use --host or %s_HOST)", envPrefix)
	}
	if c.Username == "" {
		return c, fmt.Errorf("no username configured (use --username or %s_USERNAME)", envPrefix)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return c, fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Timeout <= 0 {
		c.Timeout = airobot.DefaultTimeout
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	return c, nil
}

// logLevel picks the level from --debug/--verbose, then log.level
func logLevel(v *viper.Viper) string {
	switch {
	case debug:
		return DebugLevel
	case verbose:
		return InfoLevel
	}
	return v.GetString(keyLogLevel)
}
