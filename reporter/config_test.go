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
	"math"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stepio/kafkametrics/executor"
	"github.com/stepio/kafkametrics/gauge"
)

var nopGauge = gauge.ServiceFunc(func(string, float64) error { return nil })

func (s) TestParseConfig(t *testing.T) {
	exec := &fakeExecutor{}
	tests := []struct {
		name         string
		cfg          map[string]any
		wantInterval time.Duration
		wantPrefix   string
		wantExecutor executor.ScheduledExecutor
	}{
		{
			name:         "defaults",
			cfg:          map[string]any{GaugeServiceKey: nopGauge},
			wantInterval: 30 * time.Second,
			wantPrefix:   "kafka",
		},
		{
			name: "all set",
			cfg: map[string]any{
				GaugeServiceKey:   nopGauge,
				UpdateExecutorKey: exec,
				UpdateIntervalKey: int64(10),
				PrefixKey:         "app",
			},
			wantInterval: 10 * time.Millisecond,
			wantPrefix:   "app",
			wantExecutor: exec,
		},
		{
			name:         "interval as int",
			cfg:          map[string]any{GaugeServiceKey: nopGauge, UpdateIntervalKey: 250},
			wantInterval: 250 * time.Millisecond,
			wantPrefix:   "kafka",
		},
		{
			name:         "interval as string",
			cfg:          map[string]any{GaugeServiceKey: nopGauge, UpdateIntervalKey: "1500"},
			wantInterval: 1500 * time.Millisecond,
			wantPrefix:   "kafka",
		},
		{
			name:         "interval as uint16",
			cfg:          map[string]any{GaugeServiceKey: nopGauge, UpdateIntervalKey: uint16(40)},
			wantInterval: 40 * time.Millisecond,
			wantPrefix:   "kafka",
		},
		{
			name:         "interval as duration",
			cfg:          map[string]any{GaugeServiceKey: nopGauge, UpdateIntervalKey: 2 * time.Second},
			wantInterval: 2 * time.Second,
			wantPrefix:   "kafka",
		},
		{
			name:         "empty prefix uses default",
			cfg:          map[string]any{GaugeServiceKey: nopGauge, PrefixKey: ""},
			wantInterval: 30 * time.Second,
			wantPrefix:   "kafka",
		},
		{
			name:         "nil optional values use defaults",
			cfg:          map[string]any{GaugeServiceKey: nopGauge, UpdateExecutorKey: nil, UpdateIntervalKey: nil, PrefixKey: nil},
			wantInterval: 30 * time.Second,
			wantPrefix:   "kafka",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := parseConfig(test.cfg)
			if err != nil {
				t.Fatalf("parseConfig() failed: %v", err)
			}
			if got.interval != test.wantInterval {
				t.Errorf("interval = %v, want %v", got.interval, test.wantInterval)
			}
			if got.prefix != test.wantPrefix {
				t.Errorf("prefix = %q, want %q", got.prefix, test.wantPrefix)
			}
			if got.executor != test.wantExecutor {
				t.Errorf("executor = %v, want %v", got.executor, test.wantExecutor)
			}
			if got.gauge == nil {
				t.Error("gauge is nil")
			}
		})
	}
}

func (s) TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  map[string]any
	}{
		{name: "nil map", cfg: nil},
		{name: "missing gauge", cfg: map[string]any{PrefixKey: "app"}},
		{name: "nil gauge", cfg: map[string]any{GaugeServiceKey: nil}},
		{name: "gauge wrong type", cfg: map[string]any{GaugeServiceKey: "not a gauge"}},
		{name: "executor wrong type", cfg: map[string]any{GaugeServiceKey: nopGauge, UpdateExecutorKey: 42}},
		{name: "interval wrong type", cfg: map[string]any{GaugeServiceKey: nopGauge, UpdateIntervalKey: 1.5}},
		{name: "interval not a number", cfg: map[string]any{GaugeServiceKey: nopGauge, UpdateIntervalKey: "soon"}},
		{name: "interval zero", cfg: map[string]any{GaugeServiceKey: nopGauge, UpdateIntervalKey: 0}},
		{name: "interval negative", cfg: map[string]any{GaugeServiceKey: nopGauge, UpdateIntervalKey: int64(-5)}},
		{name: "duration negative", cfg: map[string]any{GaugeServiceKey: nopGauge, UpdateIntervalKey: -time.Second}},
		{name: "interval overflows", cfg: map[string]any{GaugeServiceKey: nopGauge, UpdateIntervalKey: uint64(math.MaxUint64)}},
		{name: "prefix wrong type", cfg: map[string]any{GaugeServiceKey: nopGauge, PrefixKey: 7}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := parseConfig(test.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("parseConfig() returned %v, want %v", err, ErrInvalidConfig)
			}
		})
	}
}

func (s) TestAddToConfig(t *testing.T) {
	if err := AddToConfig(nil, nopGauge); err == nil {
		t.Fatal("AddToConfig(nil map) succeeded, want error")
	}
	cfg := map[string]any{}
	if err := AddToConfig(cfg, nil); err == nil {
		t.Fatal("AddToConfig(nil gauge) succeeded, want error")
	}
	if len(cfg) != 0 {
		t.Fatalf("failed AddToConfig modified the config: %v", cfg)
	}

	if err := AddToConfig(cfg, nopGauge); err != nil {
		t.Fatalf("AddToConfig() failed: %v", err)
	}
	if diff := cmp.Diff([]string{GaugeServiceKey, MetricReportersKey}, keys(cfg)); diff != "" {
		t.Fatalf("config keys mismatch (-want +got):\n%s", diff)
	}
	if cfg[MetricReportersKey] != Name {
		t.Fatalf("cfg[%q] = %v, want %q", MetricReportersKey, cfg[MetricReportersKey], Name)
	}

	exec := &fakeExecutor{}
	cfg = map[string]any{}
	if err := AddToConfigWithExecutor(cfg, nopGauge, nil, time.Second); err == nil {
		t.Fatal("AddToConfigWithExecutor(nil executor) succeeded, want error")
	}
	for _, d := range []time.Duration{0, -time.Second, 500 * time.Microsecond} {
		if err := AddToConfigWithExecutor(cfg, nopGauge, exec, d); err == nil {
			t.Fatalf("AddToConfigWithExecutor(interval %v) succeeded, want error", d)
		}
	}
	if len(cfg) != 0 {
		t.Fatalf("failed AddToConfigWithExecutor modified the config: %v", cfg)
	}
	if err := AddToConfigWithExecutor(cfg, nopGauge, exec, 10*time.Millisecond); err != nil {
		t.Fatalf("AddToConfigWithExecutor() failed: %v", err)
	}
	if diff := cmp.Diff([]string{GaugeServiceKey, MetricReportersKey, UpdateExecutorKey, UpdateIntervalKey}, keys(cfg)); diff != "" {
		t.Fatalf("config keys mismatch (-want +got):\n%s", diff)
	}
	got, err := parseConfig(cfg)
	if err != nil {
		t.Fatalf("parseConfig() of populated config failed: %v", err)
	}
	if got.interval != 10*time.Millisecond || got.executor != exec {
		t.Fatalf("parseConfig() = {interval: %v, executor: %v}, want {10ms, %v}", got.interval, got.executor, exec)
	}
}

func keys(m map[string]any) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
