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

// Package logging provides the component loggers used throughout kafkametrics.
// All output goes through glog, so the usual -v, -logtostderr and
// -vmodule flags apply.
package logging

import (
	"fmt"

	"github.com/golang/glog"
)

// ComponentLogger logs on behalf of a named component. Every line is prefixed
// with "[component]".
type ComponentLogger struct {
	name string
}

// Component returns a logger for the named component.
func Component(name string) *ComponentLogger {
	return &ComponentLogger{name: name}
}

func (c *ComponentLogger) tag(s string) string {
	return "[" + c.name + "] " + s
}

// InfoDepth logs at info level, attributing the line to the caller depth
// frames above this one.
func (c *ComponentLogger) InfoDepth(depth int, args ...any) {
	glog.InfoDepth(depth+1, c.tag(fmt.Sprint(args...)))
}

// WarningDepth logs at warning level. See InfoDepth.
func (c *ComponentLogger) WarningDepth(depth int, args ...any) {
	glog.WarningDepth(depth+1, c.tag(fmt.Sprint(args...)))
}

// ErrorDepth logs at error level. See InfoDepth.
func (c *ComponentLogger) ErrorDepth(depth int, args ...any) {
	glog.ErrorDepth(depth+1, c.tag(fmt.Sprint(args...)))
}

func (c *ComponentLogger) Infof(format string, args ...any) {
	c.InfoDepth(1, fmt.Sprintf(format, args...))
}

func (c *ComponentLogger) Warningf(format string, args ...any) {
	c.WarningDepth(1, fmt.Sprintf(format, args...))
}

func (c *ComponentLogger) Errorf(format string, args ...any) {
	c.ErrorDepth(1, fmt.Sprintf(format, args...))
}

// V reports whether verbosity level l is enabled.
func (c *ComponentLogger) V(l int) bool {
	return bool(glog.V(glog.Level(l)))
}
