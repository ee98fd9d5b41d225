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

package logging

import "fmt"

// PrefixLogger does logging with a prefix.
//
// Logging method on a nil logs without any prefix.
type PrefixLogger struct {
	logger *ComponentLogger
	prefix string
}

// NewPrefixLogger creates a prefix logger with the given prefix.
func NewPrefixLogger(logger *ComponentLogger, prefix string) *PrefixLogger {
	return &PrefixLogger{logger: logger, prefix: prefix}
}

func (pl *PrefixLogger) component() *ComponentLogger {
	if pl == nil || pl.logger == nil {
		return defaultLogger
	}
	return pl.logger
}

func (pl *PrefixLogger) format(format string) string {
	if pl == nil {
		return format
	}
	return pl.prefix + format
}

// Infof does info logging.
func (pl *PrefixLogger) Infof(format string, args ...any) {
	pl.component().InfoDepth(1, fmt.Sprintf(pl.format(format), args...))
}

// Warningf does warning logging.
func (pl *PrefixLogger) Warningf(format string, args ...any) {
	pl.component().WarningDepth(1, fmt.Sprintf(pl.format(format), args...))
}

// Errorf does error logging.
func (pl *PrefixLogger) Errorf(format string, args ...any) {
	pl.component().ErrorDepth(1, fmt.Sprintf(pl.format(format), args...))
}

// V reports whether verbosity level l is at least the requested verbose level.
func (pl *PrefixLogger) V(l int) bool {
	return pl.component().V(l)
}

var defaultLogger = Component("core")
