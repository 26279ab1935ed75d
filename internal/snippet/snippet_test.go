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

package snippet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeDistinguishesPyArg10From1And0(t *testing.T) {
	segs := Tokenize("%PYARG_10 and %PYARG_1 and %PYARG_0")
	var indices []int
	for _, s := range segs {
		if s.Kind == PyArg || s.Kind == ReturnPyArg {
			indices = append(indices, s.N)
		}
	}
	assert.Equal(t, []int{10, 1, 0}, indices)
}

func TestTokenizeParsesConverterDirectiveWithNestedParens(t *testing.T) {
	segs := Tokenize(`%CONVERTTOCPP[int](foo(a, b))`)
	require.Len(t, segs, 1)
	assert.Equal(t, ConvertToCpp, segs[0].Kind)
	assert.Equal(t, "int", segs[0].Type)
	assert.Equal(t, "foo(a, b)", segs[0].Expr)
}

func TestTokenizeLeavesUnrecognisedPercentAsLiteral(t *testing.T) {
	segs := Tokenize("100%done")
	require.Len(t, segs, 1)
	assert.Equal(t, Literal, segs[0].Kind)
	assert.Equal(t, "100%done", segs[0].Text)
}

func TestTokenizeNamedDirectives(t *testing.T) {
	segs := Tokenize("%PYSELF->%CPPSELF")
	require.Len(t, segs, 3)
	assert.Equal(t, PySelf, segs[0].Kind)
	assert.Equal(t, Literal, segs[1].Kind)
	assert.Equal(t, "->", segs[1].Text)
	assert.Equal(t, CppSelf, segs[2].Kind)
}

func TestResolveSubstitutesBindings(t *testing.T) {
	segs := Tokenize("return %PYARG_1;")
	out, errs := Resolve(segs, Bindings{PyArgs: map[int]string{1: "pyValue"}})
	assert.Empty(t, errs)
	assert.Equal(t, "return pyValue;", out)
}

func TestResolveReportsMissingPlaceholder(t *testing.T) {
	segs := Tokenize("%PYSELF")
	_, errs := Resolve(segs, Bindings{})
	require.Len(t, errs, 1)
}

func TestResolveConvertToCppRewritesDeclaration(t *testing.T) {
	segs := Tokenize("int v = %CONVERTTOCPP[int](arg0);")
	calls := 0
	out, errs := Resolve(segs, Bindings{
		ConvertToCpp: func(typeName, expr string) (string, error) {
			calls++
			return "Shiboken::Conversions::pythonToCppValue(" + expr + ")", nil
		},
	})
	assert.Empty(t, errs)
	assert.Equal(t, 1, calls)
	assert.Contains(t, out, "int v;\n")
	assert.Contains(t, out, "arg0, &v")
}
