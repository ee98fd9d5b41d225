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

// Package gauge defines the sink metric values are reported to.
package gauge

// Service accepts the latest value of a named gauge.
//
// Submit is called from the reporter's publishing goroutine, once per metric
// per pass. An error aborts the remainder of that pass.
type Service interface {
	Submit(name string, value float64) error
}

// ServiceFunc adapts an ordinary function to a Service.
type ServiceFunc func(name string, value float64) error

// Submit calls f(name, value).
func (f ServiceFunc) Submit(name string, value float64) error {
	return f(name, value)
}
