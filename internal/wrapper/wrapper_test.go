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
	"github.com/stretchr/testify/require"

	"github.com/shiboken-go/shiboken/internal/convert"
	"github.com/shiboken-go/shiboken/internal/diag"
	"github.com/shiboken-go/shiboken/internal/model"
)

func intEntry() *model.TypeEntry {
	return &model.TypeEntry{Kind: model.KindPrimitive, QualifiedCppName: "int", IsCppBuiltin: true}
}

func doubleEntry() *model.TypeEntry {
	return &model.TypeEntry{Kind: model.KindPrimitive, QualifiedCppName: "double", IsCppBuiltin: true}
}

func newFixture(t *testing.T) (*convert.Synthesiser, *model.MapTypeSystem, *diag.Sink) {
	t.Helper()
	ts := model.NewMapTypeSystem()
	ts.AddType(intEntry())
	ts.AddType(doubleEntry())
	sink := diag.NewSink()
	synth := convert.New(model.Options{}, sink)
	return synth, ts, sink
}

func TestEmitOverloadGroupSingleFunction(t *testing.T) {
	synth, ts, sink := newFixture(t)
	i := intEntry()
	ts.AddType(i)

	f := &model.FunctionEntity{
		OriginalName: "scale",
		Signature:    "scale(int)",
		ReturnType:   &model.AbstractType{Entry: i},
		Arguments: []*model.Argument{
			{Index: 0, Name: "factor", Type: &model.AbstractType{Entry: i}},
		},
	}

	e := New(synth, ts, model.Options{}, sink)
	fn := e.EmitOverloadGroup("scale_wrapper", []*model.FunctionEntity{f})

	assert.Equal(t, "scale_wrapper", fn.Name)
	assert.Contains(t, fn.Body, "PyTuple_GET_SIZE")
	assert.Contains(t, fn.Body, "scale(")
	assert.Contains(t, fn.Body, "Py_BEGIN_ALLOW_THREADS")
	assert.Contains(t, fn.Body, "Py_END_ALLOW_THREADS")
	require.Empty(t, sink.Warnings())
	require.Empty(t, sink.Cycles())
}

func TestEmitOverloadGroupDispatchesOnArgType(t *testing.T) {
	synth, ts, sink := newFixture(t)
	i, d := intEntry(), doubleEntry()

	fi := &model.FunctionEntity{
		OriginalName: "setValue", Signature: "setValue(int)",
		Arguments: []*model.Argument{{Index: 0, Name: "v", Type: &model.AbstractType{Entry: i}}},
	}
	fd := &model.FunctionEntity{
		OriginalName: "setValue", Signature: "setValue(double)",
		Arguments: []*model.Argument{{Index: 0, Name: "v", Type: &model.AbstractType{Entry: d}}},
	}

	e := New(synth, ts, model.Options{}, sink)
	fn := e.EmitOverloadGroup("setValue_wrapper", []*model.FunctionEntity{fi, fd})

	assert.Contains(t, fn.Body, "PyTuple_GET_ITEM(resolvedArgs, 0)")
	assert.Contains(t, fn.Body, "no matching overload found")
	assert.Contains(t, fn.Body, "resolveKeywordArgs")
}

func TestEmitOverloadGroupVoidReturn(t *testing.T) {
	synth, ts, sink := newFixture(t)
	f := &model.FunctionEntity{OriginalName: "reset", Signature: "reset()"}

	e := New(synth, ts, model.Options{}, sink)
	fn := e.EmitOverloadGroup("reset_wrapper", []*model.FunctionEntity{f})

	assert.Contains(t, fn.Body, "Py_RETURN_NONE")
}
