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

// Package registry implements the concurrent metric registry the reporter
// publishes from.
package registry

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/stepio/kafkametrics/metrics"
)

const numShards = 16

// Entry pairs a display name with the live metric it is read from. Entries
// are never mutated after creation; an update stores a new Entry.
type Entry struct {
	// Name is the name values are published under.
	Name   string
	// Metric is the value source. It is owned by the producer.
	Metric metrics.Metric
}

// DisplayName returns the name a metric identified by id is published under
// when the reporter is configured with prefix.
func DisplayName(prefix string, id metrics.MetricName) string {
	return prefix + "." + id.Group() + "." + id.Name()
}

type shard struct {
	mu      sync.RWMutex
	entries map[metrics.MetricName]*Entry
}

// Registry maps metric identities to entries. It is safe for concurrent use.
//
// Keys are spread across shards so that producers updating unrelated metrics
// rarely contend, and so a Snapshot only holds one shard's read lock at a
// time.
type Registry struct {
	shards [numShards]shard
}

// New returns an empty Registry.
func New() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i].entries = make(map[metrics.MetricName]*Entry)
	}
	return r
}

func (r *Registry) shardFor(id metrics.MetricName) *shard {
	return &r.shards[xxhash.Sum64String(id.String())%numShards]
}

// Upsert stores an entry for id pointing at m, replacing any entry already
// stored under id. It returns the stored entry.
func (r *Registry) Upsert(id metrics.MetricName, m metrics.Metric, prefix string) Entry {
	e := &Entry{Name: DisplayName(prefix, id), Metric: m}
	s := r.shardFor(id)
	s.mu.Lock()
	s.entries[id] = e
	s.mu.Unlock()
	return *e
}

// Remove deletes the entry stored under id. It returns the removed entry and
// true, or false if there was none.
func (r *Registry) Remove(id metrics.MetricName) (Entry, bool) {
	s := r.shardFor(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	delete(s.entries, id)
	return *e, true
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	n := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

// Snapshot returns every entry present in the registry. Each shard is copied
// under its own read lock, so entries added or removed concurrently in a shard
// that was already visited are not reflected.
func (r *Registry) Snapshot() []Entry {
	var out []Entry
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.RLock()
		for _, e := range s.entries {
			out = append(out, *e)
		}
		s.mu.RUnlock()
	}
	return out
}
