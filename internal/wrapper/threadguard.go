// Copyright (C) 2024 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wrapper

// ThreadGuard resolves the %BEGIN_ALLOW_THREADS/%END_ALLOW_THREADS
// bindings (§4.5): the native call itself runs with the GIL released
// unless the function is flagged to keep it (a virtual-method
// trampoline calling back into Python, or user-injected code that
// touches the interpreter).
//
// Grounded on the teacher's gapir replay loop, which brackets every
// potentially-blocking driver call with an explicit
// begin/end-of-region pair (gapir/replay_connection.go's
// beginWork/endWork) rather than relying on a deferred cleanup; the
// CPython idiom is the same shape, just with Py_BEGIN_ALLOW_THREADS as
// the begin-of-region marker.
type ThreadGuard struct {
	Disabled bool
}

// Begin returns the opening marker, or "" when the guard is disabled.
func (g ThreadGuard) Begin() string {
	if g.Disabled {
		return ""
	}
	return "Py_BEGIN_ALLOW_THREADS\n"
}

// End returns the matching closing marker.
func (g ThreadGuard) End() string {
	if g.Disabled {
		return ""
	}
	return "Py_END_ALLOW_THREADS\n"
}
