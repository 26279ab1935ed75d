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

package class

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiboken-go/shiboken/internal/convert"
	"github.com/shiboken-go/shiboken/internal/diag"
	"github.com/shiboken-go/shiboken/internal/model"
	"github.com/shiboken-go/shiboken/internal/wrapper"
)

func intType() *model.AbstractType {
	return &model.AbstractType{Entry: &model.TypeEntry{Kind: model.KindPrimitive, QualifiedCppName: "int", IsCppBuiltin: true}}
}

func TestEmitClassBuildsMethodTableAndConstructor(t *testing.T) {
	ts := model.NewMapTypeSystem()
	ts.AddType(intType().Entry)
	sink := diag.NewSink()
	synth := convert.New(model.Options{}, sink)
	wrapEmitter := wrapper.New(synth, ts, model.Options{}, sink)
	e := New(wrapEmitter, sink)

	point := &model.TypeEntry{Kind: model.KindComplex, QualifiedCppName: "Point", IsValueType: true}
	c := &model.ClassEntity{QualifiedName: "Point", IsValueType: true, TypeEntry: point}
	point.Class = c

	ctor := &model.FunctionEntity{OriginalName: "Point", IsConstructor: true, OwnerClass: c,
		Arguments: []*model.Argument{{Index: 0, Name: "x", Type: intType()}}}
	getX := &model.FunctionEntity{OriginalName: "x", OwnerClass: c, ReturnType: intType()}
	c.Functions = []*model.FunctionEntity{ctor, getX}
	c.Fields = []*model.Field{{Name: "y", Type: intType()}}

	a := e.EmitClass(c)

	assert.Equal(t, "Sbk_Point", a.TypeObjectName)
	require.Len(t, a.MethodTable, 1)
	assert.Contains(t, a.MethodTable[0], `"x"`)
	require.Len(t, a.GetSet, 1)
	assert.Contains(t, a.GetSet[0], `"y"`)
	require.NotEmpty(t, a.Registration)
	assert.Contains(t, a.Registration[0], "tp_new")
}

func TestEmitClassSingleInheritanceSetsBase(t *testing.T) {
	ts := model.NewMapTypeSystem()
	sink := diag.NewSink()
	synth := convert.New(model.Options{}, sink)
	wrapEmitter := wrapper.New(synth, ts, model.Options{}, sink)
	e := New(wrapEmitter, sink)

	baseEntry := &model.TypeEntry{Kind: model.KindComplex, QualifiedCppName: "Shape", IsObjectType: true}
	base := &model.ClassEntity{QualifiedName: "Shape", IsObjectType: true, TypeEntry: baseEntry}
	baseEntry.Class = base

	derivedEntry := &model.TypeEntry{Kind: model.KindComplex, QualifiedCppName: "Circle", IsObjectType: true}
	derived := &model.ClassEntity{QualifiedName: "Circle", IsObjectType: true, TypeEntry: derivedEntry, BaseClasses: []*model.ClassEntity{base}}
	derivedEntry.Class = derived

	a := e.EmitClass(derived)
	require.NotEmpty(t, a.Registration)
	found := false
	for _, r := range a.Registration {
		if r == "Sbk_Circle.tp_base = &Sbk_Shape;" {
			found = true
		}
	}
	assert.True(t, found)
	assert.Empty(t, sink.Warnings())
}
