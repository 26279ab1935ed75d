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

package typeclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiboken-go/shiboken/internal/model"
)

func TestClassifyCppPrimitive(t *testing.T) {
	intEntry := &model.TypeEntry{Kind: model.KindPrimitive, QualifiedCppName: "int", IsCppBuiltin: true}
	at := &model.AbstractType{Entry: intEntry}
	assert.Equal(t, CppPrimitive, Classify(at))
	assert.True(t, IsNumber(at))
	assert.True(t, IsCppIntegralPrimitive(at))
}

func TestClassifyUserPrimitive(t *testing.T) {
	e := &model.TypeEntry{Kind: model.KindPrimitive, QualifiedCppName: "MyInt"}
	assert.Equal(t, UserPrimitive, Classify(&model.AbstractType{Entry: e}))
}

func TestClassifyWrapperValueVsObject(t *testing.T) {
	value := &model.TypeEntry{Kind: model.KindComplex, IsValueType: true}
	object := &model.TypeEntry{Kind: model.KindComplex, IsObjectType: true}
	assert.Equal(t, WrapperValue, Classify(&model.AbstractType{Entry: value}))
	assert.Equal(t, WrapperObject, Classify(&model.AbstractType{Entry: object}))
}

func TestClassifyPointerToWrapper(t *testing.T) {
	object := &model.TypeEntry{Kind: model.KindComplex, IsObjectType: true}
	at := &model.AbstractType{Entry: object, Indirections: 1}
	assert.Equal(t, PointerToWrapper, Classify(at))
	assert.True(t, IsWrapperType(at))
}

func TestClassifyVoidPointerAndCString(t *testing.T) {
	voidEntry := &model.TypeEntry{Kind: model.KindPrimitive, IsVoidPointer: true}
	assert.Equal(t, VoidPointer, Classify(&model.AbstractType{Entry: voidEntry, Indirections: 1}))

	cstrEntry := &model.TypeEntry{Kind: model.KindPrimitive, IsCString: true}
	assert.Equal(t, CString, Classify(&model.AbstractType{Entry: cstrEntry, Indirections: 1}))
}

func TestIsNumberExcludesBool(t *testing.T) {
	boolEntry := &model.TypeEntry{Kind: model.KindPrimitive, QualifiedCppName: "bool", IsCppBuiltin: true}
	at := &model.AbstractType{Entry: boolEntry}
	assert.False(t, IsNumber(at))
	assert.True(t, IsPyInt(at))
}

func TestResolveAliasWalksChain(t *testing.T) {
	base := &model.TypeEntry{QualifiedCppName: "int"}
	mid := &model.TypeEntry{QualifiedCppName: "MyInt", BasicAliasedEntry: base}
	top := &model.TypeEntry{QualifiedCppName: "MyInt2", BasicAliasedEntry: mid}
	assert.Same(t, base, ResolveAlias(top))
}

func TestResolveAliasHandlesSelfCycle(t *testing.T) {
	e := &model.TypeEntry{QualifiedCppName: "Weird"}
	e.BasicAliasedEntry = e
	assert.Same(t, e, ResolveAlias(e))
}

func TestNeedsMinimalConstructor(t *testing.T) {
	value := &model.TypeEntry{Kind: model.KindComplex, IsValueType: true}
	assert.True(t, NeedsMinimalConstructor(&model.AbstractType{Entry: value}))
	assert.False(t, NeedsMinimalConstructor(&model.AbstractType{Entry: value, Indirections: 1}))

	intEntry := &model.TypeEntry{Kind: model.KindPrimitive, QualifiedCppName: "int", IsCppBuiltin: true}
	assert.True(t, NeedsMinimalConstructor(&model.AbstractType{Entry: intEntry}))
}

func TestMinimalConstructorExpressionPrefersDefaultConstructor(t *testing.T) {
	entry := &model.TypeEntry{QualifiedCppName: "shapes::Point", DefaultConstructor: "shapes::Point()"}
	expr, ok := MinimalConstructorExpression(&model.AbstractType{Entry: entry})
	require.True(t, ok)
	assert.Equal(t, "shapes::Point()", expr)
}

func TestMinimalConstructorExpressionSearchesClassConstructors(t *testing.T) {
	intEntry := &model.TypeEntry{Kind: model.KindPrimitive, QualifiedCppName: "int", IsCppBuiltin: true}
	cls := &model.ClassEntity{QualifiedName: "shapes::Point"}
	cls.Functions = []*model.FunctionEntity{
		{
			IsConstructor: true,
			Arguments: []*model.Argument{
				{Type: &model.AbstractType{Entry: intEntry}},
				{Type: &model.AbstractType{Entry: intEntry}},
			},
		},
	}
	entry := &model.TypeEntry{QualifiedCppName: "shapes::Point", Class: cls}
	expr, ok := MinimalConstructorExpression(&model.AbstractType{Entry: entry})
	require.True(t, ok)
	assert.Equal(t, "shapes::Point(0, 0)", expr)
}

func TestMinimalConstructorExpressionNoSuitableConstructor(t *testing.T) {
	cls := &model.ClassEntity{QualifiedName: "shapes::Opaque"}
	entry := &model.TypeEntry{QualifiedCppName: "shapes::Opaque", Class: cls}
	_, ok := MinimalConstructorExpression(&model.AbstractType{Entry: entry})
	assert.False(t, ok)
}
