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

package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiboken-go/shiboken/internal/diag"
	"github.com/shiboken-go/shiboken/internal/model"
)

func TestAssembleOrdersBaseBeforeDerived(t *testing.T) {
	store := model.NewStore()
	ts := model.NewMapTypeSystem()

	shapeEntry := &model.TypeEntry{Kind: model.KindComplex, QualifiedCppName: "Shape", IsObjectType: true}
	shape := &model.ClassEntity{QualifiedName: "Shape", IsObjectType: true, TypeEntry: shapeEntry}
	shapeEntry.Class = shape

	circleEntry := &model.TypeEntry{Kind: model.KindComplex, QualifiedCppName: "Circle", IsObjectType: true}
	circle := &model.ClassEntity{QualifiedName: "Circle", IsObjectType: true, TypeEntry: circleEntry, BaseClasses: []*model.ClassEntity{shape}}
	circleEntry.Class = circle

	// Registered derived-first to prove the assembler reorders, not just passes through.
	store.AddClass(circle)
	store.AddClass(shape)

	sink := diag.NewSink()
	asm := New(model.Options{}, ts, sink)
	artifacts, moduleFns, initSeq := Assemble(asm, "shapes", store)

	require.Len(t, artifacts, 2)
	assert.Equal(t, "Shape", artifacts[0].Class.QualifiedName)
	assert.Equal(t, "Circle", artifacts[1].Class.QualifiedName)
	assert.Empty(t, moduleFns.Functions)
	assert.Contains(t, initSeq[len(initSeq)-1], "return module")
	require.Nil(t, sink.Fatal())
}

func TestAssembleEmitsGlobalFunctions(t *testing.T) {
	store := model.NewStore()
	ts := model.NewMapTypeSystem()

	store.AddGlobalFunction(&model.FunctionEntity{OriginalName: "version"})

	sink := diag.NewSink()
	asm := New(model.Options{}, ts, sink)
	_, moduleFns, _ := Assemble(asm, "shapes", store)

	require.Len(t, moduleFns.Functions, 1)
	assert.Contains(t, moduleFns.Entries[0], `"version"`)
}
