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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassesTopologicalSortedOrdersBaseBeforeDerived(t *testing.T) {
	s := NewStore()
	base := &ClassEntity{QualifiedName: "shapes::Shape"}
	derived := &ClassEntity{QualifiedName: "shapes::Circle", BaseClasses: []*ClassEntity{base}}

	// Inserted in derived-before-base order to prove the sort reorders.
	s.AddClass(derived)
	s.AddClass(base)

	order := s.ClassesTopologicalSorted()
	require.Len(t, order, 2)
	assert.Same(t, base, order[0])
	assert.Same(t, derived, order[1])
}

func TestClassesTopologicalSortedIsMemoized(t *testing.T) {
	s := NewStore()
	s.AddClass(&ClassEntity{QualifiedName: "shapes::Shape"})
	a := s.ClassesTopologicalSorted()
	b := s.ClassesTopologicalSorted()
	assert.Equal(t, a, b)
}

func TestAddClassPanicsOnDuplicateName(t *testing.T) {
	s := NewStore()
	s.AddClass(&ClassEntity{QualifiedName: "shapes::Shape"})
	assert.Panics(t, func() {
		s.AddClass(&ClassEntity{QualifiedName: "shapes::Shape"})
	})
}

func TestFindClass(t *testing.T) {
	s := NewStore()
	c := &ClassEntity{QualifiedName: "shapes::Shape"}
	s.AddClass(c)

	found, ok := s.FindClass("shapes::Shape")
	require.True(t, ok)
	assert.Same(t, c, found)

	_, ok = s.FindClass("shapes::Missing")
	assert.False(t, ok)
}

func TestAllInstantiatedContainersDeduplicatesByInstantiation(t *testing.T) {
	s := NewStore()
	intEntry := &TypeEntry{Kind: KindPrimitive, QualifiedCppName: "int"}
	vecEntry := &TypeEntry{Kind: KindContainer, QualifiedCppName: "std::vector", ContainerKind: Vector}
	vecOfInt := &AbstractType{Entry: vecEntry, Instantiations: []*AbstractType{{Entry: intEntry}}}

	cls := &ClassEntity{QualifiedName: "shapes::Shape"}
	cls.Functions = []*FunctionEntity{
		{Arguments: []*Argument{{Type: vecOfInt}}},
		{ReturnType: vecOfInt},
	}
	s.AddClass(cls)

	containers := s.AllInstantiatedContainers()
	assert.Len(t, containers, 1)
}

func TestMapTypeSystemFindType(t *testing.T) {
	ts := NewMapTypeSystem()
	intEntry := &TypeEntry{Kind: KindPrimitive, QualifiedCppName: "int"}
	ts.AddType(intEntry)

	found, ok := ts.FindType("int")
	require.True(t, ok)
	assert.Same(t, intEntry, found)
	assert.Len(t, ts.PrimitiveTypes(), 1)
}

func TestFunctionEntityMinMaxArgsWithDefault(t *testing.T) {
	intEntry := &TypeEntry{Kind: KindPrimitive, QualifiedCppName: "int"}
	f := &FunctionEntity{
		Arguments: []*Argument{
			{Type: &AbstractType{Entry: intEntry}},
			{Type: &AbstractType{Entry: intEntry}, DefaultValue: "0"},
		},
	}
	min, max := f.MinMaxArgs()
	assert.Equal(t, 1, min)
	assert.Equal(t, 2, max)
}

func TestFunctionEntityNonRemovedArgsSkipsRemoved(t *testing.T) {
	intEntry := &TypeEntry{Kind: KindPrimitive, QualifiedCppName: "int"}
	f := &FunctionEntity{
		Arguments: []*Argument{
			{Type: &AbstractType{Entry: intEntry}},
			{Type: &AbstractType{Entry: intEntry}, Modified: &ArgModification{Removed: true}},
		},
	}
	assert.Len(t, f.NonRemovedArgs(), 1)
}
