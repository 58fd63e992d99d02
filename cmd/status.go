// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/Thermoquad/airostat/pkg/airobot"
	"github.com/spf13/cobra"
)

var (
	statusRaw   bool
	settingsRaw bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show thermostat telemetry",
	Long: `Read the thermostat's current measurements and status flags.

Temperatures and humidity are shown in degrees Celsius and percent. Sensors
that are not fitted are shown as "not attached". Readings outside their
documented range are logged as warnings, or rejected with --strict.

Use --raw to print the record exactly as the device sent it.

Exit codes:
  0 - Success
  1 - Reading outside documented range (--strict) or malformed record
  2 - Connection, authentication or HTTP error`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show thermostat settings",
	Long: `Read the thermostat's configuration: mode, setpoints, hysteresis band,
device name and setting flags.

Use --raw to print the record exactly as the device sent it.

Exit codes:
  0 - Success
  1 - Value outside documented range (--strict) or malformed record
  2 - Connection, authentication or HTTP error`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(settingsCmd)

	statusCmd.Flags().BoolVar(&statusRaw, "raw", false, "Print the undecoded device record")
	settingsCmd.Flags().BoolVar(&settingsRaw, "raw", false, "Print the undecoded device record")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, _, err := OpenClient(clientOptions{})
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()

	if statusRaw {
		raw, err := client.GetStatusesRaw(ctx)
		if err != nil {
			return err
		}
		fmt.Print(airobot.FormatRaw(raw))
		return nil
	}

	status, err := client.GetStatuses(ctx)
	if err != nil {
		return err
	}
	fmt.Print(airobot.FormatStatus(status))
	return nil
}

func runSettings(cmd *cobra.Command, args []string) error {
	client, _, err := OpenClient(clientOptions{})
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()

	if settingsRaw {
		raw, err := client.GetSettingsRaw(ctx)
		if err != nil {
			return err
		}
		fmt.Print(airobot.FormatRaw(raw))
		return nil
	}

	settings, err := client.GetSettings(ctx)
	if err != nil {
		return err
	}
	fmt.Print(airobot.FormatSettings(settings))
	return nil
}
