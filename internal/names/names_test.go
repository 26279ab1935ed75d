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

package names

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shiboken-go/shiboken/internal/model"
)

func TestPyTypeNameFlattensEnclosingScopes(t *testing.T) {
	outer := &model.ClassEntity{QualifiedName: "shapes::Outer"}
	inner := &model.ClassEntity{QualifiedName: "shapes::Outer::Inner", Enclosing: outer}
	assert.Equal(t, "Sbk_Outer_Inner", PyTypeName(inner))
	assert.Equal(t, "Outer_InnerWrapper", CppWrapperName(inner))
}

func TestFixedTypeNameManglesIndirectionsAndTemplates(t *testing.T) {
	vec := &model.TypeEntry{QualifiedCppName: "std::vector", Kind: model.KindContainer}
	elem := &model.TypeEntry{QualifiedCppName: "int", Kind: model.KindPrimitive}
	at := &model.AbstractType{
		Entry:          vec,
		Indirections:   1,
		IsReference:    true,
		Instantiations: []*model.AbstractType{{Entry: elem}},
	}
	assert.Equal(t, "std_vector_intPTRREF", FixedTypeName(at))
}

func TestFixedTypeNameNilIsVoid(t *testing.T) {
	assert.Equal(t, "Void", FixedTypeName(nil))
	assert.Equal(t, "Void", FixedTypeName(&model.AbstractType{}))
}

func TestSanitizeEscapesLeadingDigitAndSpecialChars(t *testing.T) {
	assert.Equal(t, "_123", sanitize("123"))
	assert.Equal(t, "a_b_c", sanitize("a b,c"))
}

func TestPyToCppFnAndIsConvertibleFnNaming(t *testing.T) {
	src := &model.TypeEntry{QualifiedCppName: "int", Kind: model.KindPrimitive}
	dst := &model.TypeEntry{QualifiedCppName: "shapes::Point", Kind: model.KindComplex}
	assert.Equal(t, "int_PythonToCpp_shapes_Point", PyToCppFn(src, dst))
	assert.Equal(t, "is_int_PythonToCpp_shapes_Point_Convertible", IsConvertibleFn(src, dst))
}

func TestForeignPrefixedEmptyPackageIsNoop(t *testing.T) {
	assert.Equal(t, "Foo", ForeignPrefixed("", "Foo"))
	assert.Equal(t, "other_Foo", ForeignPrefixed("other", "Foo"))
}

func TestProtectedAccessorNames(t *testing.T) {
	assert.Equal(t, "protected_radius_getter", ProtectedGetter("radius"))
	assert.Equal(t, "protected_radius_setter", ProtectedSetter("radius"))
	assert.Equal(t, "resize_protected", ProtectedThunk("resize"))
}
