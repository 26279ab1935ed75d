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
	"fmt"
	"regexp"
	"strings"
)

// ConverterFunc resolves one of the four §4.5 converter directives
// (%CONVERTTOPYTHON, %CONVERTTOCPP, %CHECKTYPE, %ISCONVERTIBLE) for
// typeName against expr, delegating to internal/convert's named
// functions (internal/names.PyToCppFn & friends identify them; the
// caller supplies the concrete call expression).
type ConverterFunc func(typeName, expr string) (string, error)

// Bindings supplies the concrete text for every placeholder Kind.
// Zero-value string fields that are actually needed produce a
// resolution error, per §4.5 "must be resolved or an error reported".
type Bindings struct {
	PySelf               string
	CppSelf               string
	FunctionName          string
	TypeName              string
	CppTypeName           string
	PythonTypeObject      string
	PythonArguments       string
	PythonMethodOverride  string
	ArgumentNames         string
	BeginAllowThreads     string
	EndAllowThreads       string
	PyArgs                map[int]string // 0 == return
	CppArgs                map[int]string // 0 == return
	ArgTypes               map[int]string

	ConvertToPython ConverterFunc
	ConvertToCpp    ConverterFunc
	CheckType       ConverterFunc
	IsConvertible   ConverterFunc
}

// declAssign matches a trailing "<type-ident> <var-ident> = " at the
// end of a literal segment, the shape §4.5 requires for %CONVERTTOCPP
// variable-declaration rewriting ("T v = %CONVERTTOCPP[T](x)").
var declAssign = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_:<>,\s\*&]*[A-Za-z0-9_\*&])\s+([A-Za-z_][A-Za-z0-9_]*)\s*=\s*$`)

// Resolve substitutes every segment, returning the generated text and
// any placeholders that could not be resolved (§4.5: unresolved
// placeholders are reported as errors, not silently dropped).
func Resolve(segs []Segment, b Bindings) (string, []error) {
	var out strings.Builder
	var errs []error
	missing := func(what string) {
		errs = append(errs, fmt.Errorf("unresolved placeholder: %s", what))
	}

	for i := 0; i < len(segs); i++ {
		seg := segs[i]
		switch seg.Kind {
		case Literal:
			out.WriteString(seg.Text)
		case PySelf:
			out.WriteString(require(b.PySelf, "%PYSELF", missing))
		case CppSelf:
			out.WriteString(require(b.CppSelf, "%CPPSELF", missing))
		case FunctionName:
			out.WriteString(require(b.FunctionName, "%FUNCTION_NAME", missing))
		case TypeName:
			out.WriteString(require(b.TypeName, "%TYPE", missing))
		case CppTypeName:
			out.WriteString(require(b.CppTypeName, "%CPPTYPE", missing))
		case PythonTypeObject:
			out.WriteString(require(b.PythonTypeObject, "%PYTHONTYPEOBJECT", missing))
		case PythonArguments:
			out.WriteString(require(b.PythonArguments, "%PYTHON_ARGUMENTS", missing))
		case PythonMethodOverride:
			out.WriteString(require(b.PythonMethodOverride, "%PYTHON_METHOD_OVERRIDE", missing))
		case ArgumentNames:
			out.WriteString(require(b.ArgumentNames, "%ARGUMENT_NAMES", missing))
		case BeginAllowThreads:
			out.WriteString(require(b.BeginAllowThreads, "%BEGIN_ALLOW_THREADS", missing))
		case EndAllowThreads:
			out.WriteString(require(b.EndAllowThreads, "%END_ALLOW_THREADS", missing))
		case ReturnPyArg, PyArg:
			v, ok := b.PyArgs[seg.N]
			if !ok {
				missing(fmt.Sprintf("%%PYARG_%d", seg.N))
				continue
			}
			out.WriteString(v)
		case ArgType:
			v, ok := b.ArgTypes[seg.N]
			if !ok {
				missing(fmt.Sprintf("%%ARG%d_TYPE", seg.N))
				continue
			}
			out.WriteString(v)
		case CppReturn, CppArg:
			v, ok := b.CppArgs[seg.N]
			if !ok {
				missing(fmt.Sprintf("%%%d", seg.N))
				continue
			}
			out.WriteString(v)
		case ConvertToPython:
			out.WriteString(invokeConverter(b.ConvertToPython, seg, missing))
		case ConvertToCpp:
			out.WriteString(resolveConvertToCpp(&out, b.ConvertToCpp, seg, missing))
		case CheckType:
			out.WriteString(invokeConverter(b.CheckType, seg, missing))
		case IsConvertible:
			out.WriteString(invokeConverter(b.IsConvertible, seg, missing))
		}
	}
	return out.String(), errs
}

func require(v, name string, missing func(string)) string {
	if v == "" {
		missing(name)
	}
	return v
}

func invokeConverter(fn ConverterFunc, seg Segment, missing func(string)) string {
	if fn == nil {
		missing(fmt.Sprintf("converter for %s", seg.Type))
		return ""
	}
	s, err := fn(seg.Type, seg.Expr)
	if err != nil {
		missing(err.Error())
		return ""
	}
	return s
}

// resolveConvertToCpp implements the declared-variable rewrite: if the
// text already written to out ends with "T v = ", it rewrites that
// tail to a bare declaration "T v;" and follows it with a statement
// calling the converter against "&v" instead of producing an
// initializer expression.
func resolveConvertToCpp(out *strings.Builder, fn ConverterFunc, seg Segment, missing func(string)) string {
	if fn == nil {
		missing(fmt.Sprintf("converter for %s", seg.Type))
		return ""
	}
	current := out.String()
	if m := declAssign.FindStringSubmatchIndex(current); m != nil {
		typ := current[m[2]:m[3]]
		varName := current[m[4]:m[5]]
		prefix := current[:m[0]]
		out.Reset()
		out.WriteString(prefix)
		out.WriteString(strings.TrimSpace(typ))
		out.WriteString(" ")
		out.WriteString(varName)
		out.WriteString(";\n")
		call, err := fn(seg.Type, seg.Expr+", &"+varName)
		if err != nil {
			missing(err.Error())
			return ""
		}
		return call
	}
	call, err := fn(seg.Type, seg.Expr)
	if err != nil {
		missing(err.Error())
		return ""
	}
	return call
}
