// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"

	"github.com/Thermoquad/airostat/pkg/airobot"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Interactive TUI for controlling an Airobot thermostat",
	Long: `Control an Airobot thermostat via an interactive terminal UI.

Features:
  - Current telemetry and settings side by side
  - HOME/AWAY mode switching
  - Setpoint adjustment in 0.5°C steps
  - Child lock and boost toggles
  - Device rename
  - Event log, including readings outside their documented range

Data is refreshed after every change and on demand with r. The thermostat
updates its measurements about every 30 seconds, so refreshing more often
shows nothing new.`,
	Args: cobra.NoArgs,
	RunE: runControl,
}

func init() {
	rootCmd.AddCommand(controlCmd)
}

// thermostat is the part of the client the TUI drives
type thermostat interface {
	GetStatuses(ctx context.Context) (*airobot.Status, error)
	GetSettings(ctx context.Context) (*airobot.Settings, error)
	SetMode(ctx context.Context, mode airobot.Mode) error
	SetHomeTemperature(ctx context.Context, celsius float64) error
	SetAwayTemperature(ctx context.Context, celsius float64) error
	SetChildLock(ctx context.Context, enabled bool) error
	SetBoostMode(ctx context.Context, enabled bool) error
	SetDeviceName(ctx context.Context, name string) error
}

func runControl(cmd *cobra.Command, args []string) error {
	cc, err := connectionConfigFrom(conf)
	if err != nil {
		return err
	}

	// Range warnings go to the event log; anything written to the terminal
	// would corrupt the alt screen.
	var p *tea.Program
	client, connInfo, err := OpenClient(clientOptions{
		onWarning: func(v airobot.ValidationError) {
			if p != nil {
				p.Send(validationWarningMsg(v))
			}
		},
		logger: zap.NewNop(),
	})
	if err != nil {
		return err
	}

	m := initialControlModel(client, connInfo, cc.Timeout)
	p = tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
