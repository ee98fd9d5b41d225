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

package testutils

import (
	"reflect"
	"strings"
	"testing"

	"github.com/golang/glog"
)

// Tester is an implementation of the x interface parameter to RunSubTests.
// Embed it in the test suite struct to get per-subtest setup and teardown.
type Tester struct{}

// Setup is a no-op.
func (Tester) Setup(*testing.T) {}

// Teardown flushes buffered log output so it lands next to the failing
// subtest.
func (Tester) Teardown(*testing.T) {
	glog.Flush()
}

func getTestFunc(t *testing.T, xv reflect.Value, name string) func(*testing.T) {
	if m := xv.MethodByName(name); m.IsValid() {
		if f, ok := m.Interface().(func(*testing.T)); ok {
			return f
		}
		// Method exists but has the wrong type signature.
		t.Fatalf("testutils: function %v has unexpected signature (%T)", name, m.Interface())
	}
	return func(*testing.T) {}
}

// RunSubTests runs all "Test___" functions that are methods of x as subtests
// of the current test. Setup is run before the test function and Teardown is
// run after.
//
// For example usage, see the registry tests.
func RunSubTests(t *testing.T, x any) {
	xt := reflect.TypeOf(x)
	xv := reflect.ValueOf(x)

	setup := getTestFunc(t, xv, "Setup")
	teardown := getTestFunc(t, xv, "Teardown")
	for i := 0; i < xt.NumMethod(); i++ {
		methodName := xt.Method(i).Name
		if !strings.HasPrefix(methodName, "Test") {
			continue
		}
		tfunc := getTestFunc(t, xv, methodName)
		t.Run(strings.TrimPrefix(methodName, "Test"), func(t *testing.T) {
			// Run teardown even if the test panics or calls t.Fatal.
			t.Cleanup(func() { teardown(t) })
			setup(t)
			tfunc(t)
		})
	}
}
