// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// Airostat - Airobot Thermostat Client
//
// A CLI tool for reading and configuring Airobot thermostats over their
// local REST API.

package main

import (
	"os"

	"github.com/Thermoquad/airostat/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
