// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"

	"github.com/Thermoquad/airostat/pkg/airobot"
	"github.com/spf13/cobra"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture raw device records to a file",
	Long: `Capture the thermostat's status and settings records exactly as the device
sent them, and write them to a CBOR file.

Snapshots can be inspected later with "airostat decode" or checked with
"airostat check --file", without access to the device. Nothing is validated
while capturing, so out-of-range firmware readings are preserved as-is.

Exit codes:
  0 - Success
  1 - Failed to write the file
  2 - Connection, authentication or HTTP error`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

var decodeCmd = &cobra.Command{
	Use:   "decode FILE",
	Short: "Decode a captured snapshot",
	Long: `Decode a snapshot written by "airostat snapshot" and print the records.

Out-of-range values are logged as warnings, or rejected with --strict.

Exit codes:
  0 - Success
  1 - Unreadable snapshot, malformed record, or range failure (--strict)`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(decodeCmd)

	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "Output file (required)")
	_ = snapshotCmd.MarkFlagRequired("out")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	client, _, err := OpenClient(clientOptions{})
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()

	status, err := client.GetStatusesRaw(ctx)
	if err != nil {
		return err
	}
	settings, err := client.GetSettingsRaw(ctx)
	if err != nil {
		return err
	}

	host, _ := connectionConfigFrom(conf)
	snap := airobot.NewSnapshot(host.Host, status, settings)

	data, err := airobot.MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	if err := os.WriteFile(snapshotOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	fmt.Printf("Captured %s at %s -> %s (%d bytes)\n",
		snap.Host, snap.Time().Format("2006-01-02 15:04:05"), snapshotOut, len(data))
	return nil
}

// readSnapshot loads a snapshot file
func readSnapshot(path string) (*airobot.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	snap, err := airobot.UnmarshalSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	snap, err := readSnapshot(args[0])
	if err != nil {
		return err
	}

	status, settings, err := snap.Decode(airobot.DecodeOptions{
		Strict:    conf.GetBool(keyStrict),
		OnWarning: func(v airobot.ValidationError) { airobot.LogWarning(logger, v) },
	})
	if err != nil {
		return err
	}

	fmt.Printf("Snapshot: %s captured %s\n\n", snap.Host, snap.Time().Format("2006-01-02 15:04:05"))
	if status != nil {
		fmt.Println("Status:")
		fmt.Print(airobot.FormatStatus(status))
		fmt.Println()
	}
	if settings != nil {
		fmt.Println("Settings:")
		fmt.Print(airobot.FormatSettings(settings))
	}
	return nil
}
