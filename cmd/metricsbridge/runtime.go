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

package main

import (
	"context"
	"runtime"
	"time"

	"github.com/golang/glog"

	"github.com/stepio/kafkametrics/metrics"
	"github.com/stepio/kafkametrics/reporter"
)

// runtimeSource samples Go runtime statistics into gauges and keeps the
// reporter informed of them.
type runtimeSource struct {
	r       *reporter.Reporter
	started time.Time

	goroutines *metrics.Gauge
	heapAlloc  *metrics.Gauge
	heapObjs   *metrics.Gauge
	gcCount    *metrics.Gauge
	uptime     *metrics.Gauge

	// cpuUser and cpuSystem are nil on platforms without getrusage.
	cpuUser   *metrics.Gauge
	cpuSystem *metrics.Gauge
}

func newRuntimeSource(r *reporter.Reporter, clientID string) *runtimeSource {
	tags := map[string]string{"client-id": clientID}
	g := func(name, group string) *metrics.Gauge {
		return metrics.NewGauge(metrics.NewMetricName(name, group, tags))
	}
	s := &runtimeSource{
		r:          r,
		goroutines: g("goroutines", "runtime"),
		heapAlloc:  g("heap-alloc-bytes", "runtime"),
		heapObjs:   g("heap-objects", "runtime"),
		gcCount:    g("gc-count", "runtime"),
		uptime:     g("uptime-seconds", "process"),
	}
	if _, _, ok := processCPU(); ok {
		s.cpuUser = g("cpu-user-seconds", "process")
		s.cpuSystem = g("cpu-system-seconds", "process")
	}
	return s
}

func (s *runtimeSource) all() []metrics.Metric {
	ms := []metrics.Metric{s.goroutines, s.heapAlloc, s.heapObjs, s.gcCount, s.uptime}
	if s.cpuUser != nil {
		ms = append(ms, s.cpuUser, s.cpuSystem)
	}
	return ms
}

// start takes a first sample and hands every metric to the reporter.
func (s *runtimeSource) start() {
	s.started = time.Now()
	s.sample()
	s.r.Init(s.all())
}

func (s *runtimeSource) sample() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.goroutines.Set(float64(runtime.NumGoroutine()))
	s.heapAlloc.Set(float64(ms.HeapAlloc))
	s.heapObjs.Set(float64(ms.HeapObjects))
	s.gcCount.Set(float64(ms.NumGC))
	s.uptime.Set(time.Since(s.started).Seconds())
	if s.cpuUser != nil {
		if user, sys, ok := processCPU(); ok {
			s.cpuUser.Set(user)
			s.cpuSystem.Set(sys)
		}
	}
}

// run samples every interval until ctx is done, then removes its metrics
// from the reporter.
func (s *runtimeSource) run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			for _, m := range s.all() {
				s.r.MetricRemoval(m)
			}
			if glog.V(2) {
				glog.Info("Runtime metrics removed")
			}
			return nil
		case <-ticker.C:
			s.sample()
		}
	}
}
