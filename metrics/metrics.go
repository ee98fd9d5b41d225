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

// Package metrics defines the metric model the reporter observes: an
// identity, and a live source its current value is read from.
package metrics

import (
	"math"
	"sort"
	"strings"
	"sync/atomic"
)

// MetricName identifies one metric. It is immutable and comparable, so it can
// be used directly as a map key. Two names built from the same name, group and
// tags are equal regardless of tag insertion order.
type MetricName struct {
	name  string
	group string
	// tags is the canonical "k=v,k=v" form, sorted by key. Backslash, comma
	// and equals sign are backslash-escaped in keys and values.
	tags  string
}

// NewMetricName returns the identity for the metric name within group,
// qualified by tags. tags may be nil.
func NewMetricName(name, group string, tags map[string]string) MetricName {
	return MetricName{name: name, group: group, tags: canonicalTags(tags)}
}

var tagEscaper = strings.NewReplacer(`\`, `\\`, `,`, `\,`, `=`, `\=`)

func canonicalTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		tagEscaper.WriteString(&sb, k)
		sb.WriteByte('=')
		tagEscaper.WriteString(&sb, tags[k])
	}
	return sb.String()
}

// Name returns the metric's name within its group.
func (n MetricName) Name() string { return n.name }

// Group returns the logical group the metric belongs to.
func (n MetricName) Group() string { return n.group }

func (n MetricName) String() string {
	return n.group + ":" + n.name + "{" + n.tags + "}"
}

// Metric is a live value source. Implementations are owned by the producer;
// the reporter only holds references and reads Value on each publishing
// pass, possibly concurrently with the producer updating it.
type Metric interface {
	// MetricName returns the identity of this metric. It must not change over
	// the metric's lifetime.
	MetricName() MetricName
	// Value returns the current value of the metric.
	Value() (float64, error)
}

// Gauge is a Metric holding a float64 that can be set at any time.
type Gauge struct {
	name MetricName
	bits atomic.Uint64
}

// NewGauge returns a Gauge identified by name with an initial value of 0.
func NewGauge(name MetricName) *Gauge {
	return &Gauge{name: name}
}

// MetricName implements Metric.
func (g *Gauge) MetricName() MetricName { return g.name }

// Value implements Metric. It never fails.
func (g *Gauge) Value() (float64, error) {
	return math.Float64frombits(g.bits.Load()), nil
}

// Set stores v as the gauge's current value.
func (g *Gauge) Set(v float64) {
	g.bits.Store(math.Float64bits(v))
}
