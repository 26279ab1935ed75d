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
	"fmt"
	"strings"

	"github.com/shiboken-go/shiboken/internal/convert"
	"github.com/shiboken-go/shiboken/internal/model"
	"github.com/shiboken-go/shiboken/internal/names"
)

// EmitVirtualTrampoline renders the override a generated wrapper
// subclass (names.CppWrapperName) installs for one of f's owning
// class's virtual methods: acquire the GIL (the inverse direction of
// ThreadGuard's release — this path calls *into* the interpreter
// rather than running a blocking native call with it released), look
// up whether the Python subclass overrode the method, and call back
// into Python on a hit. A missing override, or a Python return value
// that doesn't convert to the declared C++ return type, falls back to
// the class's own C++ implementation (a RuntimeWarning is raised in
// the signature-mismatch case so the mistake is visible, not silently
// swallowed).
func (e *Emitter) EmitVirtualTrampoline(f *model.FunctionEntity) convert.Function {
	name := f.OriginalName
	args := f.NonRemovedArgs()
	cppArgNames := make([]string, len(args))
	for i, a := range args {
		cppArgNames[i] = a.Name
	}
	fallback := fmt.Sprintf("return %s::%s(%s);\n", f.OwnerClass.QualifiedName, name, strings.Join(cppArgNames, ", "))

	var b strings.Builder
	b.WriteString("Shiboken::GilState gil;\n")
	fmt.Fprintf(&b, "PyObject *pyOverride = Shiboken::Object::getOverride(this, \"%s\");\n", name)
	b.WriteString("if (pyOverride == nullptr) {\n")
	b.WriteString(indent(fallback))
	b.WriteString("}\n")
	fmt.Fprintf(&b, "Shiboken::AutoDecRef pyResult(Shiboken::callOverride(pyOverride, %s));\n", pyArgsTuple(cppArgNames))

	wrapperName := names.VirtualTrampoline(f.OwnerClass, name)
	if f.ReturnType == nil {
		b.WriteString("if (pyResult.object() == nullptr) {\n    PyErr_Clear();\n}\nreturn;\n")
		return convert.Function{Name: wrapperName, Body: b.String()}
	}

	conv := e.synth.Synthesize(f.ReturnType.Entry)
	fmt.Fprintf(&b, "if (pyResult.object() != nullptr && %s(pyResult)) {\n", conv.IsConvertible.Name)
	fmt.Fprintf(&b, "    %s cppResult;\n    %s(pyResult, &cppResult);\n    return cppResult;\n", e.cppTypeName(f.ReturnType), conv.PythonToCpp.Name)
	b.WriteString("}\n")
	fmt.Fprintf(&b, "PyErr_WarnEx(PyExc_RuntimeWarning, \"invalid override return value for %s, falling back to the C++ implementation\", 1);\n", name)
	b.WriteString(fallback)
	return convert.Function{Name: wrapperName, Body: b.String()}
}

func pyArgsTuple(cppArgNames []string) string {
	if len(cppArgNames) == 0 {
		return "nullptr"
	}
	return strings.Join(cppArgNames, ", ")
}
