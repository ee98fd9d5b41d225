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
	"fmt"

	"github.com/stepio/kafkametrics/gauge"
	"github.com/stepio/kafkametrics/internal/logging"
	"github.com/stepio/kafkametrics/internal/registry"
)

// publisher pushes every registered metric's value to the gauge service once
// per tick.
type publisher struct {
	registry *registry.Registry
	gauge    gauge.Service
	logger   *logging.PrefixLogger
}

// tick runs one publishing pass. Errors and panics are logged here for the
// pass as a whole; the first failing metric ends the pass.
func (p *publisher) tick() {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorf("Panic occurred in the scheduled task: %v", r)
		}
	}()
	if err := p.publish(); err != nil {
		p.logger.Errorf("Error occurred in the scheduled task: %v", err)
	}
}

func (p *publisher) publish() error {
	for _, e := range p.registry.Snapshot() {
		v, err := e.Metric.Value()
		if err != nil {
			return fmt.Errorf("reading metric %s: %w", e.Name, err)
		}
		if p.logger.V(2) {
			p.logger.Infof("Set metric %s with value %v", e.Name, v)
		}
		if err := p.gauge.Submit(e.Name, v); err != nil {
			return fmt.Errorf("submitting metric %s: %w", e.Name, err)
		}
	}
	return nil
}
