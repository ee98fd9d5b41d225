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

// Package reporter implements a metrics reporter that bridges a changing set
// of client metrics to a gauge.Service, publishing every metric's current
// value at a fixed rate.
//
// The lifecycle follows the usual metrics reporter contract: Configure, then
// Init with the metrics known so far, then MetricChange and MetricRemoval as
// metrics come and go, and finally Close.
package reporter

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stepio/kafkametrics/executor"
	"github.com/stepio/kafkametrics/gauge"
	"github.com/stepio/kafkametrics/internal/logging"
	"github.com/stepio/kafkametrics/internal/registry"
	"github.com/stepio/kafkametrics/metrics"
)

// Name is the name the reporter is registered under in client configuration.
const Name = "kafkametrics-gauge-reporter"

var logger = logging.Component("metrics-reporter")

// bridge is the finalized configuration of a Reporter, plus the scheduled
// publishing task. It is immutable once stored.
type bridge struct {
	gauge        gauge.Service
	executor     executor.ScheduledExecutor
	ownsExecutor bool
	interval     time.Duration
	prefix       string
	task         executor.Task
}

// Reporter publishes the current value of every registered metric to a
// gauge.Service. The zero value is not usable; create one with New.
//
// MetricChange and MetricRemoval may be called concurrently from any
// goroutine.
type Reporter struct {
	logger   *logging.PrefixLogger
	registry *registry.Registry
	state    atomic.Pointer[bridge] // nil until configured

	mu      sync.Mutex
	// pending holds metrics reported before Configure. Their display names
	// depend on the configured prefix, so they enter the registry only once
	// it is known.
	pending map[metrics.MetricName]metrics.Metric
	closed  bool
}

// New returns an unconfigured Reporter.
func New() *Reporter {
	r := &Reporter{
		registry: registry.New(),
		pending:  make(map[metrics.MetricName]metrics.Metric),
	}
	r.logger = logging.NewPrefixLogger(logger, fmt.Sprintf("[reporter %p] ", r))
	r.logger.Infof("Created")
	return r
}

// Configure validates cfg and starts publishing. See the *Key constants for
// the recognized entries. On error, wrapping ErrInvalidConfig if cfg itself is
// at fault, nothing is scheduled and the Reporter stays unconfigured.
func (r *Reporter) Configure(cfg map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errors.New("reporter: Configure called after Close")
	}
	if r.state.Load() != nil {
		return errors.New("reporter: already configured")
	}

	r.logger.Infof("Performing initialization to schedule the metrics gathering")
	c, err := parseConfig(cfg)
	if err != nil {
		return err
	}
	if p, ok := cfg[PrefixKey].(string); ok && p == "" {
		r.logger.Warningf("Empty %q, using the default %q", PrefixKey, DefaultPrefix)
	}
	// The first pass runs as soon as it is scheduled, so metrics reported
	// early must already be in the registry.
	for id, m := range r.pending {
		r.registry.Upsert(id, m, c.prefix)
	}
	b, err := r.finalize(c)
	if err != nil {
		for id := range r.pending {
			r.registry.Remove(id)
		}
		return err
	}
	r.state.Store(b)
	if n := len(r.pending); n > 0 {
		r.logger.Infof("Registered %d metrics reported before configuration", n)
	}
	r.pending = nil

	r.logger.Infof("Initialization complete, metrics updating scheduled with %v interval between the updates", b.interval)
	return nil
}

// finalize creates the executor if none was supplied and schedules the
// publishing pass.
func (r *Reporter) finalize(c *config) (*bridge, error) {
	b := &bridge{
		gauge:    c.gauge,
		executor: c.executor,
		interval: c.interval,
		prefix:   c.prefix,
	}
	if b.executor == nil {
		b.executor = executor.NewSingleThreadScheduledExecutor()
		b.ownsExecutor = true
	}
	p := &publisher{registry: r.registry, gauge: b.gauge, logger: r.logger}
	task, err := b.executor.ScheduleAtFixedRate(p.tick, 0, b.interval)
	if err != nil {
		if b.ownsExecutor {
			b.executor.Shutdown()
		}
		return nil, fmt.Errorf("reporter: failed to schedule metrics updates: %w", err)
	}
	b.task = task
	return b, nil
}

// Init registers the initial set of metrics.
func (r *Reporter) Init(ms []metrics.Metric) {
	for _, m := range ms {
		r.MetricChange(m)
	}
	if r.logger.V(2) {
		r.logger.Infof("Initialized %d metrics", len(ms))
	}
}

// MetricChange registers m, replacing any metric with the same name.
func (r *Reporter) MetricChange(m metrics.Metric) {
	id := m.MetricName()
	b := r.state.Load()
	if b == nil {
		r.mu.Lock()
		if b = r.state.Load(); b == nil {
			if r.closed {
				r.mu.Unlock()
				r.logger.Warningf("Metric %v reported after Close, ignoring", id)
				return
			}
			r.pending[id] = m
			r.mu.Unlock()
			if r.logger.V(2) {
				r.logger.Infof("Metric %v is pending configuration", id)
			}
			return
		}
		r.mu.Unlock()
	}
	e := r.registry.Upsert(id, m, b.prefix)
	if r.logger.V(2) {
		r.logger.Infof("Metric %s is added/modified", e.Name)
	}
}

// MetricRemoval unregisters the metric with m's name, if any.
func (r *Reporter) MetricRemoval(m metrics.Metric) {
	id := m.MetricName()
	if r.state.Load() == nil {
		r.mu.Lock()
		if r.state.Load() == nil {
			delete(r.pending, id)
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()
	}
	if e, ok := r.registry.Remove(id); ok && r.logger.V(2) {
		r.logger.Infof("Metric %s is removed", e.Name)
	}
}

// Close stops publishing. The executor is shut down only if the Reporter
// created it. Close is idempotent; once it returns no further values are
// submitted.
func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	b := r.state.Load()
	if b == nil {
		r.pending = nil
		r.logger.Infof("Closed before configuration")
		return
	}
	b.task.Cancel()
	if b.ownsExecutor {
		b.executor.Shutdown()
		r.logger.Infof("Object cleared, executor stopped")
		return
	}
	r.logger.Infof("Object cleared, metrics updates cancelled")
}
