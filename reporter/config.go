/*
 *
 * Copyright 2026 kafkametrics authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package reporter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/stepio/kafkametrics/executor"
	"github.com/stepio/kafkametrics/gauge"
)

// Configuration keys understood by Configure.
const (
	// GaugeServiceKey holds the gauge.Service values are reported to.
	// Required.
	GaugeServiceKey = "gauge.service.impl"
	// UpdateExecutorKey holds an executor.ScheduledExecutor to schedule the
	// publishing pass on. The reporter does not shut it down. Optional.
	UpdateExecutorKey = "metrics.update.executor"
	// UpdateIntervalKey holds the number of milliseconds between publishing
	// passes. Optional.
	UpdateIntervalKey = "metrics.update.interval"
	// PrefixKey holds the string every display name is prefixed with.
	// Optional.
	PrefixKey = "metrics.prefix"
	// MetricReportersKey lists the reporters a client should load. It is
	// only written, by AddToConfig, never read.
	MetricReportersKey = "metric.reporters"
)

const (
	// DefaultUpdateInterval is the interval used if none is configured.
	DefaultUpdateInterval = 30000 * time.Millisecond
	// DefaultPrefix is the prefix used if none is configured.
	DefaultPrefix = "kafka"
)

// ErrInvalidConfig is returned, wrapped, by Configure when the configuration
// is missing a required value or holds a value of the wrong type.
var ErrInvalidConfig = errors.New("invalid metrics reporter configuration")

// config is the raw configuration as read from the map. Absent optional
// values are left zero; finalize turns it into a bridge.
type config struct {
	gauge    gauge.Service
	executor executor.ScheduledExecutor // nil if not supplied
	interval time.Duration
	prefix   string
}

func parseConfig(m map[string]any) (*config, error) {
	cfg := &config{
		interval: DefaultUpdateInterval,
		prefix:   DefaultPrefix,
	}

	v, ok := m[GaugeServiceKey]
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: %q is required", ErrInvalidConfig, GaugeServiceKey)
	}
	if cfg.gauge, ok = v.(gauge.Service); !ok {
		return nil, fmt.Errorf("%w: %q must be a gauge.Service, got %T", ErrInvalidConfig, GaugeServiceKey, v)
	}

	if v, ok := m[UpdateExecutorKey]; ok && v != nil {
		if cfg.executor, ok = v.(executor.ScheduledExecutor); !ok {
			return nil, fmt.Errorf("%w: %q must be an executor.ScheduledExecutor, got %T", ErrInvalidConfig, UpdateExecutorKey, v)
		}
	}

	if v, ok := m[UpdateIntervalKey]; ok && v != nil {
		d, err := parseInterval(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidConfig, UpdateIntervalKey, err)
		}
		cfg.interval = d
	}

	if v, ok := m[PrefixKey]; ok && v != nil {
		p, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be a string, got %T", ErrInvalidConfig, PrefixKey, v)
		}
		if p != "" {
			cfg.prefix = p
		}
	}
	return cfg, nil
}

// parseInterval accepts milliseconds as any integer type or a decimal string,
// or a time.Duration.
func parseInterval(v any) (time.Duration, error) {
	var ms int64
	switch v := v.(type) {
	case time.Duration:
		if v <= 0 {
			return 0, fmt.Errorf("must be positive, got %v", v)
		}
		return v, nil
	case int:
		ms = int64(v)
	case int8:
		ms = int64(v)
	case int16:
		ms = int64(v)
	case int32:
		ms = int64(v)
	case int64:
		ms = v
	case uint:
		ms = int64(v)
	case uint8:
		ms = int64(v)
	case uint16:
		ms = int64(v)
	case uint32:
		ms = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("out of range: %d", v)
		}
		ms = int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number of milliseconds: %q", v)
		}
		ms = n
	default:
		return 0, fmt.Errorf("must be an integer number of milliseconds, got %T", v)
	}
	if ms <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", ms)
	}
	if ms > math.MaxInt64/int64(time.Millisecond) {
		return 0, fmt.Errorf("out of range: %d", ms)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// AddToConfig registers the reporter and gs in cfg, so that passing cfg to
// Configure reports to gs with default settings.
func AddToConfig(cfg map[string]any, gs gauge.Service) error {
	if cfg == nil {
		return errors.New("reporter: nil config map")
	}
	if gs == nil {
		return errors.New("reporter: nil gauge service")
	}
	cfg[MetricReportersKey] = Name
	cfg[GaugeServiceKey] = gs
	return nil
}

// AddToConfigWithExecutor is like AddToConfig, and additionally sets the
// executor and the update interval.
func AddToConfigWithExecutor(cfg map[string]any, gs gauge.Service, exec executor.ScheduledExecutor, interval time.Duration) error {
	if exec == nil {
		return errors.New("reporter: nil executor")
	}
	if interval < time.Millisecond {
		return fmt.Errorf("reporter: update interval must be at least 1ms, got %v", interval)
	}
	if err := AddToConfig(cfg, gs); err != nil {
		return err
	}
	cfg[UpdateExecutorKey] = exec
	cfg[UpdateIntervalKey] = interval.Milliseconds()
	return nil
}
