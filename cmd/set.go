// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Thermoquad/airostat/pkg/airobot"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change a thermostat setting",
	Long: `Change a single thermostat setting.

Values are validated locally before anything is sent; the thermostat only
receives the one setting being changed. Temperatures are in degrees Celsius
and are rounded to the nearest 0.1°C.

Exit codes:
  0 - Success
  1 - Value outside accepted range
  2 - Connection, authentication or HTTP error`,
}

// settingApply sends one parsed value to the thermostat
type settingApply func(ctx context.Context, client *airobot.Client, value string) error

var setCommands = []struct {
	use   string
	short string
	apply settingApply
}{
	{"mode <home|away>", "Switch between HOME and AWAY mode", applyMode},
	{"home-temp <celsius>", "Set the HOME setpoint (5.0 to 35.0)", applyHomeTemp},
	{"away-temp <celsius>", "Set the AWAY setpoint (5.0 to 35.0)", applyAwayTemp},
	{"hysteresis <celsius>", "Set the hysteresis band (0.0 to 0.5)", applyHysteresis},
	{"name <name>", "Rename the thermostat (1 to 20 characters)", applyName},
	{"child-lock <on|off>", "Lock or unlock the thermostat's buttons", applyChildLock},
	{"boost <on|off>", "Start or stop boost heating", applyBoost},
	{"actuator-exercise <on|off>", "Enable or disable periodic valve exercise", applyActuatorExercise},
}

func init() {
	rootCmd.AddCommand(setCmd)

	for _, sc := range setCommands {
		setCmd.AddCommand(newSetCommand(sc.use, sc.short, sc.apply))
	}
}

func newSetCommand(use, short string, apply settingApply) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := OpenClient(clientOptions{})
			if err != nil {
				return err
			}

			ctx, cancel := requestContext()
			defer cancel()

			if err := apply(ctx, client, args[0]); err != nil {
				return err
			}
			fmt.Printf("%s: OK\n", cmd.Name())
			return nil
		},
	}
}

func applyMode(ctx context.Context, client *airobot.Client, value string) error {
	mode, err := airobot.ParseMode(value)
	if err != nil {
		return err
	}
	return client.SetMode(ctx, mode)
}

func applyHomeTemp(ctx context.Context, client *airobot.Client, value string) error {
	celsius, err := parseCelsius(value)
	if err != nil {
		return err
	}
	return client.SetHomeTemperature(ctx, celsius)
}

func applyAwayTemp(ctx context.Context, client *airobot.Client, value string) error {
	celsius, err := parseCelsius(value)
	if err != nil {
		return err
	}
	return client.SetAwayTemperature(ctx, celsius)
}

func applyHysteresis(ctx context.Context, client *airobot.Client, value string) error {
	celsius, err := parseCelsius(value)
	if err != nil {
		return err
	}
	return client.SetHysteresisBand(ctx, celsius)
}

func applyName(ctx context.Context, client *airobot.Client, value string) error {
	return client.SetDeviceName(ctx, value)
}

func applyChildLock(ctx context.Context, client *airobot.Client, value string) error {
	on, err := parseSwitch(value)
	if err != nil {
		return err
	}
	return client.SetChildLock(ctx, on)
}

func applyBoost(ctx context.Context, client *airobot.Client, value string) error {
	on, err := parseSwitch(value)
	if err != nil {
		return err
	}
	return client.SetBoostMode(ctx, on)
}

// The device flag is inverted: it records that exercise is disabled.
func applyActuatorExercise(ctx context.Context, client *airobot.Client, value string) error {
	on, err := parseSwitch(value)
	if err != nil {
		return err
	}
	return client.SetActuatorExerciseDisabled(ctx, !on)
}

func parseCelsius(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimRight(strings.TrimSpace(s), "°Cc"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid temperature %q", s)
	}
	return v, nil
}

// parseSwitch accepts on/off and the usual boolean spellings
func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1", "enable", "enabled":
		return true, nil
	case "off", "false", "no", "0", "disable", "disabled":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
