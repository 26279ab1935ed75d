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

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shiboken-go/shiboken/internal/model"
)

func TestThreadGuardBalancesBeginAndEnd(t *testing.T) {
	g := ThreadGuard{}
	assert.Equal(t, "Py_BEGIN_ALLOW_THREADS\n", g.Begin())
	assert.Equal(t, "Py_END_ALLOW_THREADS\n", g.End())
}

func TestThreadGuardDisabledEmitsNoMarkers(t *testing.T) {
	g := ThreadGuard{Disabled: true}
	assert.Empty(t, g.Begin())
	assert.Empty(t, g.End())
}

func TestEmitOverloadGroupInjectedCodeKeepsGilHeld(t *testing.T) {
	synth, ts, sink := newFixture(t)
	i := intEntry()
	ts.AddType(i)

	f := &model.FunctionEntity{
		OriginalName:   "touchesInterpreter",
		Signature:      "touchesInterpreter(int)",
		HasInjectedCode: true,
		Arguments: []*model.Argument{
			{Index: 0, Name: "v", Type: &model.AbstractType{Entry: i}},
		},
	}

	e := New(synth, ts, model.Options{}, sink)
	fn := e.EmitOverloadGroup("touches_wrapper", []*model.FunctionEntity{f})

	assert.NotContains(t, fn.Body, "Py_BEGIN_ALLOW_THREADS")
	assert.NotContains(t, fn.Body, "Py_END_ALLOW_THREADS")
}
