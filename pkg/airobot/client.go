// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Config configures a Client.
type Config struct {
	Host     string
	Port     int           // default DefaultPort
	Username string        // the thermostat's device ID
	Password string        // printed on the device label
	Timeout  time.Duration // default DefaultTimeout

	// RetryCount retries transport failures (not HTTP error statuses).
	RetryCount int

	// Strict rejects out-of-range readings instead of logging them.
	Strict bool

	// OnWarning receives permissive-mode warnings. When nil they are logged
	// through Logger.
	OnWarning WarningFunc

	Logger     *zap.Logger
	HTTPClient *http.Client
}

// Client talks to one thermostat over its local REST API.
// It is safe for concurrent use.
type Client struct {
	http    *resty.Client
	baseURL string
	opts    DecodeOptions
	logger  *zap.Logger
}

// NewClient creates a client for the thermostat at cfg.Host.
func NewClient(cfg Config) *Client {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}

	baseURL := fmt.Sprintf("http://%s%s", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)), APIBasePath)

	rc.SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(DefaultRetryWaitTime).
		SetBasicAuth(cfg.Username, cfg.Password).
		SetHeader("Accept", "application/json").
		SetLogger(cfg.Logger.Sugar())

	c := &Client{
		http:    rc,
		baseURL: baseURL,
		logger:  cfg.Logger,
		opts:    DecodeOptions{Strict: cfg.Strict, OnWarning: cfg.OnWarning},
	}
	if c.opts.OnWarning == nil {
		c.opts.OnWarning = func(v ValidationError) { LogWarning(c.logger, v) }
	}
	return c
}

// BuildURL returns the full URL of an API endpoint.
func (c *Client) BuildURL(endpoint string) string {
	return c.baseURL + endpoint
}

// GetStatusesRaw fetches the undecoded status record.
func (c *Client) GetStatusesRaw(ctx context.Context) (Raw, error) {
	return c.get(ctx, EndpointGetStatuses)
}

// GetSettingsRaw fetches the undecoded settings record.
func (c *Client) GetSettingsRaw(ctx context.Context) (Raw, error) {
	return c.get(ctx, EndpointGetSettings)
}

// GetStatuses fetches and decodes the current telemetry.
func (c *Client) GetStatuses(ctx context.Context) (*Status, error) {
	raw, err := c.GetStatusesRaw(ctx)
	if err != nil {
		return nil, err
	}
	return DecodeStatus(raw, c.opts)
}

// GetSettings fetches and decodes the current configuration.
func (c *Client) GetSettings(ctx context.Context) (*Settings, error) {
	raw, err := c.GetSettingsRaw(ctx)
	if err != nil {
		return nil, err
	}
	return DecodeSettings(raw, c.opts)
}

// SetSettings posts a partial settings update. DEVICE_ID cannot be written
// and every value must be within its valid range.
func (c *Client) SetSettings(ctx context.Context, patch Raw) error {
	if len(patch) == 0 {
		return fmt.Errorf("empty settings patch")
	}
	if _, ok := patch[FieldDeviceID]; ok {
		return fmt.Errorf("%s is read-only", FieldDeviceID)
	}
	if _, err := DecodeSettings(patch, DecodeOptions{Strict: true}); err != nil {
		return fmt.Errorf("invalid settings patch: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}(patch)).
		Post(EndpointSetSettings)
	return c.check(ctx, http.MethodPost, EndpointSetSettings, resp, err)
}

// SetMode switches between HOME and AWAY.
func (c *Client) SetMode(ctx context.Context, mode Mode) error {
	patch, err := ModePatch(mode)
	if err != nil {
		return err
	}
	return c.SetSettings(ctx, patch)
}

// SetHomeTemperature sets the HOME setpoint in °C (5.0 to 35.0).
func (c *Client) SetHomeTemperature(ctx context.Context, celsius float64) error {
	patch, err := HomeTemperaturePatch(celsius)
	if err != nil {
		return err
	}
	return c.SetSettings(ctx, patch)
}

// SetAwayTemperature sets the AWAY setpoint in °C (5.0 to 35.0).
func (c *Client) SetAwayTemperature(ctx context.Context, celsius float64) error {
	patch, err := AwayTemperaturePatch(celsius)
	if err != nil {
		return err
	}
	return c.SetSettings(ctx, patch)
}

// SetHysteresisBand sets the hysteresis band in °C (0.0 to 0.5).
func (c *Client) SetHysteresisBand(ctx context.Context, celsius float64) error {
	patch, err := HysteresisBandPatch(celsius)
	if err != nil {
		return err
	}
	return c.SetSettings(ctx, patch)
}

// SetDeviceName renames the thermostat (1 to 20 characters).
func (c *Client) SetDeviceName(ctx context.Context, name string) error {
	patch, err := DeviceNamePatch(name)
	if err != nil {
		return err
	}
	return c.SetSettings(ctx, patch)
}

// SetChildLock enables or disables the child lock.
func (c *Client) SetChildLock(ctx context.Context, enabled bool) error {
	return c.SetSettings(ctx, ChildLockPatch(enabled))
}

// SetBoostMode enables or disables boost heating.
func (c *Client) SetBoostMode(ctx context.Context, enabled bool) error {
	return c.SetSettings(ctx, BoostPatch(enabled))
}

// SetActuatorExerciseDisabled turns the periodic valve exercise off (true) or on.
func (c *Client) SetActuatorExerciseDisabled(ctx context.Context, disabled bool) error {
	return c.SetSettings(ctx, ActuatorExercisePatch(disabled))
}

// Reboot restarts the thermostat.
func (c *Client) Reboot(ctx context.Context) error {
	return c.SetSettings(ctx, RebootPatch())
}

// RecalibrateCO2 starts a CO2 sensor recalibration.
func (c *Client) RecalibrateCO2(ctx context.Context) error {
	return c.SetSettings(ctx, RecalibrateCO2Patch())
}

func (c *Client) get(ctx context.Context, endpoint string) (Raw, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(endpoint)
	if err := c.check(ctx, http.MethodGet, endpoint, resp, err); err != nil {
		return nil, err
	}

	raw, err := DecodeRaw(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	return raw, nil
}

// check maps transport failures and HTTP statuses to package errors.
func (c *Client) check(ctx context.Context, method, endpoint string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		if isTimeout(ctx, err) {
			return fmt.Errorf("%w: %s %s: %v", ErrTimeout, method, endpoint, err)
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s %s: %v", ErrConnection, method, endpoint, err)
	}

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", resp.Time()),
	)

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized:
		return &authError{msg: "Authentication failed - check username/password"}
	case code == http.StatusForbidden:
		return &authError{msg: "Access forbidden"}
	case code < 200 || code > 299:
		return &APIError{StatusCode: code, Body: resp.String()}
	}
	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
