// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Config file
	cfgFile string

	// Logging flags
	verbose bool
	debug   bool

	// logger is installed by the root PersistentPreRunE
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "airostat",
	Short: "Airobot Thermostat Client",
	Long: `Airostat - A CLI tool for reading and configuring Airobot thermostats over
their local REST API.

Provides commands for reading telemetry and settings, changing setpoints and
modes, capturing raw device records for offline analysis, and checking device
readings against their documented ranges.

Connection:
  --host 192.168.1.50 [--port 80] --username T01XXXXXXX

The username is the thermostat's device ID. The password is read from the
AIROBOT_PASSWORD environment variable or the config file, or prompted
interactively if not set. The --password flag is intentionally not provided to
avoid leaking credentials in shell history.

Every connection flag can also be set in airostat.yaml or with an AIROBOT_
environment variable (AIROBOT_HOST, AIROBOT_USERNAME, ...).`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $XDG_CONFIG_HOME/airostat/airostat.yaml)")

	// Connection flags
	rootCmd.PersistentFlags().StringP("host", "H", "", "Thermostat host or IP address")
	rootCmd.PersistentFlags().IntP("port", "p", 0, "HTTP port (default 80)")
	rootCmd.PersistentFlags().StringP("username", "u", "", "Username for HTTP Basic auth (device ID)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Request timeout (default 10s)")
	rootCmd.PersistentFlags().Int("retries", 0, "Retries on connection failure")
	rootCmd.PersistentFlags().Bool("strict", false, "Reject out-of-range readings instead of warning")

	// Logging flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log informational messages")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log HTTP requests and debug messages")

	bindFlags(rootCmd.PersistentFlags())
}

// setup loads configuration and installs the logger before any command runs
func setup(cmd *cobra.Command, args []string) error {
	if err := loadConfig(conf, cfgFile); err != nil {
		return err
	}

	logger = newLogger(logLevel(conf))
	zap.ReplaceGlobals(logger)
	return nil
}

// Execute runs the root command and returns the process exit status
func Execute() int {
	return run(os.Args[1:], os.Stderr)
}

func run(args []string, stderr io.Writer) int {
	// logger is replaced by setup, so resolve it when the deferred call runs
	defer func() { _ = logger.Sync() }()

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}
