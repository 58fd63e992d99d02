// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Thermoquad/airostat/pkg/airobot"
	"github.com/spf13/cobra"
)

var checkFiles []string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check device readings against their documented ranges",
	Long: `Decode the thermostat's status and settings records and report every value
outside its documented range, and every value that cannot be decoded at all.

Readings come from the device, or from one or more snapshots with --file.
A statistics summary is printed at the end.

Unlike --strict, which stops at the first failure, every issue in a record is
reported.

Exit codes:
  0 - All values within range
  1 - One or more issues found
  2 - Connection, authentication or HTTP error`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringArrayVarP(&checkFiles, "file", "f", nil, "Check snapshot files instead of the device (repeatable)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	stats := airobot.NewStatistics()
	issues := 0

	fmt.Printf("Airostat - Range Check\n")

	if len(checkFiles) > 0 {
		for _, path := range checkFiles {
			snap, err := readSnapshot(path)
			if err != nil {
				return err
			}
			fmt.Printf("Snapshot: %s (%s, %s)\n\n", path, snap.Host, snap.Time().Format("2006-01-02 15:04:05"))
			issues += checkRecords(os.Stdout, stats, snap.Status, snap.Settings)
		}
	} else {
		client, connInfo, err := OpenClient(clientOptions{})
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

		fmt.Printf("%s\n\n", connInfo)
		issues = checkRecords(os.Stdout, stats, status, settings)
	}

	fmt.Print(stats.String())
	if issues > 0 {
		return fmt.Errorf("%d issue(s) found", issues)
	}
	fmt.Printf("All values within range\n")
	return nil
}

// checkRecords prints a report for each record present and returns the
// number of issues found
func checkRecords(w io.Writer, stats *airobot.Statistics, status, settings airobot.Raw) int {
	issues := 0
	if status != nil {
		issues += checkRecord(w, stats, "STATUS", func(opts airobot.DecodeOptions) error {
			_, err := airobot.DecodeStatus(status, opts)
			return err
		})
	}
	if settings != nil {
		issues += checkRecord(w, stats, "SETTINGS", func(opts airobot.DecodeOptions) error {
			_, err := airobot.DecodeSettings(settings, opts)
			return err
		})
	}
	return issues
}

func checkRecord(w io.Writer, stats *airobot.Statistics, name string, decode func(airobot.DecodeOptions) error) int {
	timestamp := time.Now().Format("15:04:05.000")

	var warnings airobot.Warnings
	err := decode(airobot.DecodeOptions{OnWarning: warnings.Collect})
	stats.Update(err, warnings)

	if err != nil {
		fmt.Fprintf(w, "[%s] \033[1;31mDECODE ERROR:\033[0m %s\n", timestamp, name)
		fmt.Fprintf(w, "  Issue 1: \033[1;31m%v\033[0m\n", err)
		fmt.Fprintf(w, "  >>> RECORD REJECTED <<<\n\n")
		return 1
	}

	if len(warnings) == 0 {
		fmt.Fprintf(w, "[%s] \033[1;32m%s:\033[0m OK\n\n", timestamp, name)
		return 0
	}

	fmt.Fprintf(w, "[%s] \033[1;33mVALIDATION ERROR:\033[0m %s\n", timestamp, name)
	for i, v := range warnings {
		fmt.Fprintf(w, "  Issue %d: \033[1;33m%s\033[0m\n", i+1, v.Message)
		fmt.Fprintf(w, "    %s check, expected %s\n", v.Type, v.Expected)
	}
	fmt.Fprintln(w)
	return len(warnings)
}
