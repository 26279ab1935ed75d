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
)

// richCompareSlots pairs every CPython six-way comparison slot with the
// C++ operator token the type-system groups its overloads under.
var richCompareSlots = []struct{ slot, token string }{
	{"Py_LT", "<"}, {"Py_LE", "<="}, {"Py_EQ", "=="}, {"Py_NE", "!="}, {"Py_GT", ">"}, {"Py_GE", ">="},
}

// EmitRichCompare renders a class's tp_richcompare body: a switch over
// the six comparison slots, each calling the overload the type-system
// declared for that C++ token. A missing "!=" negates "=="; a missing
// "==" falls back to pointer identity (Python's own default); any
// other missing slot returns NotImplemented so CPython retries the
// reflected comparison on the other operand.
//
// Unlike EmitOverloadGroup, this never goes through the argument-count
// trie: tp_richcompare always compares exactly `self` against one
// `other`, so the generic multi-arity dispatch machinery doesn't apply
// here (see DESIGN.md).
func (e *Emitter) EmitRichCompare(wrapperName string, byToken map[string][]*model.FunctionEntity) convert.Function {
	other := ""
	for _, s := range richCompareSlots {
		fs := byToken[s.token]
		if len(fs) == 0 {
			continue
		}
		args := fs[0].NonRemovedArgs()
		if len(args) == 0 {
			continue
		}
		at := args[0].EffectiveType()
		conv := e.synth.Synthesize(at.Entry)
		other = fmt.Sprintf("%s %s;\n%s(other, &%s);\n", e.cppTypeName(at), "cppOther", conv.PythonToCpp.Name, "cppOther")
		break
	}

	var b strings.Builder
	b.WriteString(other)
	b.WriteString("switch (op) {\n")
	for _, s := range richCompareSlots {
		fmt.Fprintf(&b, "case %s:\n", s.slot)
		switch {
		case len(byToken[s.token]) > 0:
			fmt.Fprintf(&b, "    return PyBool_FromLong((*%%CPPSELF) %s cppOther);\n", s.token)
		case s.token == "!=" && len(byToken["=="]) > 0:
			b.WriteString("    return PyBool_FromLong(!((*%CPPSELF) == cppOther));\n")
		case s.token == "==":
			b.WriteString("    return PyBool_FromLong(self == other);\n")
		default:
			b.WriteString("    Py_RETURN_NOTIMPLEMENTED;\n")
		}
	}
	b.WriteString("default:\n    Py_RETURN_NOTIMPLEMENTED;\n}\n")
	return convert.Function{Name: wrapperName, Body: b.String()}
}
