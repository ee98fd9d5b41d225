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

// Package opentelemetry implements a gauge.Service that exposes every
// submitted name as an OpenTelemetry float64 observable gauge.
package opentelemetry

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/stepio/kafkametrics/gauge"
	"github.com/stepio/kafkametrics/internal/logging"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var logger = logging.Component("otel-gauge")

// ScopeName is the instrumentation scope the gauges are created under.
const ScopeName = "github.com/stepio/kafkametrics/gauge/opentelemetry"

// Options configure a Service.
type Options struct {
	// MeterProvider is the MeterProvider instance that will be used to create
	// the gauges. If unset, the global MeterProvider is used.
	MeterProvider metric.MeterProvider
	// Description, if set, is attached to every gauge created.
	Description   string
}

type observed struct {
	bits atomic.Uint64
}

func (o *observed) store(v float64) { o.bits.Store(math.Float64bits(v)) }
func (o *observed) load() float64   { return math.Float64frombits(o.bits.Load()) }

// Service holds the latest submitted value per name and reports it whenever
// the MeterProvider's readers collect.
type Service struct {
	meter       metric.Meter
	description string

	mu      sync.Mutex
	gauges  map[string]*observed
	// invalid remembers names the SDK rejected so the error is returned on
	// every Submit without registering another instrument.
	invalid map[string]error
}

var _ gauge.Service = (*Service)(nil)

// New returns a Service creating its gauges from o.MeterProvider.
func New(o Options) *Service {
	mp := o.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	return &Service{
		meter:       mp.Meter(ScopeName),
		description: o.Description,
		gauges:      make(map[string]*observed),
		invalid:     make(map[string]error),
	}
}

// Submit records value as the current value of the gauge called name,
// creating the gauge on first use.
func (s *Service) Submit(name string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.gauges[name]; ok {
		g.store(value)
		return nil
	}
	if err, ok := s.invalid[name]; ok {
		return err
	}

	g := &observed{}
	g.store(value)
	opts := []metric.Float64ObservableGaugeOption{
		metric.WithFloat64Callback(func(_ context.Context, o metric.Float64Observer) error {
			o.Observe(g.load())
			return nil
		}),
	}
	if s.description != "" {
		opts = append(opts, metric.WithDescription(s.description))
	}
	if _, err := s.meter.Float64ObservableGauge(name, opts...); err != nil {
		err = fmt.Errorf("otel-gauge: failed to create gauge %q: %w", name, err)
		s.invalid[name] = err
		logger.Warningf("Rejected gauge name %q, further values for it are dropped: %v", name, err)
		return err
	}
	s.gauges[name] = g
	if logger.V(2) {
		logger.Infof("Created gauge %q", name)
	}
	return nil
}

// Names returns the names of all gauges created so far.
func (s *Service) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.gauges))
	for name := range s.gauges {
		out = append(out, name)
	}
	return out
}
