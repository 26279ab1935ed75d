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

// EmitOperatorSlot renders a PyNumberMethods/PySequenceMethods/
// PyMappingMethods slot function for one operator overload f. Unlike
// EmitOverloadGroup's dispatchers, a protocol slot's C signature is
// fixed by CPython (binary slots take (self, other); unary slots take
// only self), not a variadic args tuple, so the argument this renders
// converts straight out of the slot's own `other` parameter.
func (e *Emitter) EmitOperatorSlot(wrapperName string, f *model.FunctionEntity) convert.Function {
	var b strings.Builder
	args := f.NonRemovedArgs()
	cppArgNames := make([]string, len(args))
	for i, a := range args {
		varName := fmt.Sprintf("cppArg%d", i)
		cppArgNames[i] = varName
		et := a.EffectiveType()
		conv := e.synth.Synthesize(et.Entry)
		fmt.Fprintf(&b, "%s %s;\n%s(other, &%s);\n", e.cppTypeName(et), varName, conv.PythonToCpp.Name, varName)
	}

	call := e.operatorCallExpr(f, cppArgNames)
	if f.ReturnType == nil || f.IsInplaceOperator {
		fmt.Fprintf(&b, "%s;\nPy_INCREF(self);\nreturn self;\n", call)
		return convert.Function{Name: wrapperName, Body: b.String()}
	}

	retConv := e.synth.Synthesize(f.ReturnType.Entry)
	fmt.Fprintf(&b, "auto cppResult = %s;\nreturn %s(&cppResult);\n", call, retConv.CppToPython.Name)
	return convert.Function{Name: wrapperName, Body: b.String()}
}
