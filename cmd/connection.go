// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/Thermoquad/airostat/pkg/airobot"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Exit codes shared by every command
const (
	exitOK         = 0
	exitValidation = 1
	exitConnection = 2
)

// GetPassword retrieves password from config/environment or prompts user
func GetPassword() (string, error) {
	// First check AIROBOT_PASSWORD or the config file
	if pw := conf.GetString(keyPassword); pw != "" {
		return pw, nil
	}

	// Prompt user for password (hide input)
	fmt.Fprint(os.Stderr, "Password: ")

	// Read password without echo
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(os.Stderr) // newline after password
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr) // newline after password
	return string(passwordBytes), nil
}

// clientOptions adjusts how OpenClient builds the client
type clientOptions struct {
	onWarning airobot.WarningFunc
	logger    *zap.Logger
}

// OpenClient builds a thermostat client from flags, environment and config
func OpenClient(opts clientOptions) (*airobot.Client, string, error) {
	cc, err := connectionConfigFrom(conf)
	if err != nil {
		return nil, "", err
	}

	if cc.Password == "" {
		cc.Password, err = GetPassword()
		if err != nil {
			return nil, "", err
		}
	}

	if opts.logger == nil {
		opts.logger = logger
	}

	client := airobot.NewClient(airobot.Config{
		Host:       cc.Host,
		Port:       cc.Port,
		Username:   cc.Username,
		Password:   cc.Password,
		Timeout:    cc.Timeout,
		RetryCount: cc.Retries,
		Strict:     cc.Strict,
		OnWarning:  opts.onWarning,
		Logger:     opts.logger,
	})

	return client, fmt.Sprintf("HTTP: %s@%s:%d", cc.Username, cc.Host, cc.Port), nil
}

// requestContext bounds one command's worth of requests
func requestContext() (context.Context, context.CancelFunc) {
	timeout := conf.GetDuration(keyTimeout)
	if timeout <= 0 {
		timeout = airobot.DefaultTimeout
	}
	// Covers a status and a settings request, each with retries
	attempts := time.Duration(conf.GetInt(keyRetries) + 1)
	return context.WithTimeout(context.Background(), 2*timeout*attempts+airobot.DefaultRetryWaitTime*attempts)
}

// exitCode maps an error to the process exit status
func exitCode(err error) int {
	var apiErr *airobot.APIError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, airobot.ErrAuth),
		errors.Is(err, airobot.ErrTimeout),
		errors.Is(err, airobot.ErrConnection),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &apiErr):
		return exitConnection
	default:
		return exitValidation
	}
}
