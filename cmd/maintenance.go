// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"

	"github.com/Thermoquad/airostat/pkg/airobot"
	"github.com/spf13/cobra"
)

var rebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Reboot the thermostat",
	Long: `Ask the thermostat to reboot by setting its REBOOT flag.

The thermostat will be unreachable for a short time afterwards.

Exit codes:
  0 - Success
  2 - Connection, authentication or HTTP error`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMaintenance("Reboot requested", (*airobot.Client).Reboot)
	},
}

var recalibrateCmd = &cobra.Command{
	Use:   "recalibrate-co2",
	Short: "Recalibrate the CO2 sensor",
	Long: `Start a CO2 sensor recalibration by setting the RECALIBRATE_CO2 flag.

Recalibrate in fresh outdoor air; the sensor takes the current reading as
its baseline.

Exit codes:
  0 - Success
  2 - Connection, authentication or HTTP error`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMaintenance("CO2 recalibration requested", (*airobot.Client).RecalibrateCO2)
	},
}

func init() {
	rootCmd.AddCommand(rebootCmd)
	rootCmd.AddCommand(recalibrateCmd)
}

func runMaintenance(done string, action func(*airobot.Client, context.Context) error) error {
	client, _, err := OpenClient(clientOptions{})
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := action(client, ctx); err != nil {
		return err
	}
	fmt.Println(done)
	return nil
}
