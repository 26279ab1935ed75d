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
	"fmt"
	"strings"

	"github.com/shiboken-go/shiboken/internal/convert"
	"github.com/shiboken-go/shiboken/internal/model"
	"github.com/shiboken-go/shiboken/internal/typeclass"
)

// unaryNumberSlots/binaryNumberSlots/inplaceNumberSlots map a C++
// operator token to its PyNumberMethods slot name (§4.5's operator ->
// CPython-slot table).
var (
	unaryNumberSlots = map[string]string{"-": "nb_negative", "+": "nb_positive", "~": "nb_invert"}
	binaryNumberSlots = map[string]string{
		"+": "nb_add", "-": "nb_subtract", "*": "nb_multiply", "/": "nb_true_divide",
		"%": "nb_remainder", "&": "nb_and", "|": "nb_or", "^": "nb_xor", "<<": "nb_lshift", ">>": "nb_rshift",
	}
	inplaceNumberSlots = map[string]string{
		"+=": "nb_inplace_add", "-=": "nb_inplace_subtract", "*=": "nb_inplace_multiply",
		"/=": "nb_inplace_true_divide", "%=": "nb_inplace_remainder", "&=": "nb_inplace_and",
		"|=": "nb_inplace_or", "^=": "nb_inplace_xor", "<<=": "nb_inplace_lshift", ">>=": "nb_inplace_rshift",
	}
)

// emitNumberSequenceMapping wires tp_as_number/tp_as_sequence/
// tp_as_mapping: every non-comparison, non-call operator overload is
// routed to its PyNumberMethods slot; operator[] goes to sq_item when
// its single argument is integral, mp_subscript otherwise. A class that
// looks like a container (it exposes a no-argument size()) additionally
// gets sq_length/mp_length auto-filled, the same "container base"
// auto-fill real Shiboken applies to typesystem-declared containers —
// here inferred structurally instead of from an explicit container tag,
// since c.Functions is all this emitter has to go on for a
// user-declared (non-std::) container-shaped class.
func (e *Emitter) emitNumberSequenceMapping(c *model.ClassEntity, a *Artifact) {
	var numberEntries, sequenceEntries, mappingEntries []string
	slotIndex := 0

	for _, f := range c.Functions {
		if !f.IsOperatorOverload || f.IsModifiedRemoved || f.IsComparisonOperator || f.IsCallOperator {
			continue
		}
		op := f.OperatorKind
		slotIndex++
		wrapperName := fmt.Sprintf("%s_op%d", a.TypeObjectName, slotIndex)

		if op == "[]" {
			fn := e.wrap.EmitOperatorSlot(wrapperName, f)
			a.Functions = append(a.Functions, fn)
			if args := f.NonRemovedArgs(); len(args) == 1 && typeclass.IsCppIntegralPrimitive(args[0].EffectiveType()) {
				sequenceEntries = append(sequenceEntries, fmt.Sprintf("sq_item: (ssizeargfunc)%s", fn.Name))
			} else {
				mappingEntries = append(mappingEntries, fmt.Sprintf("mp_subscript: (binaryfunc)%s", fn.Name))
			}
			continue
		}

		var slot string
		var ok bool
		switch {
		case f.IsUnaryOperator:
			slot, ok = unaryNumberSlots[op]
		case f.IsInplaceOperator:
			slot, ok = inplaceNumberSlots[op]
		case f.IsBinaryOperator:
			slot, ok = binaryNumberSlots[op]
		}
		if !ok {
			continue
		}
		fn := e.wrap.EmitOperatorSlot(wrapperName, f)
		a.Functions = append(a.Functions, fn)
		numberEntries = append(numberEntries, fmt.Sprintf("%s: (void*)%s", slot, fn.Name))
	}

	for _, f := range c.Functions {
		if f.OriginalName == "size" && !f.IsModifiedRemoved && len(f.NonRemovedArgs()) == 0 {
			name := a.TypeObjectName + "_sq_length"
			a.Functions = append(a.Functions, convert.Function{
				Name: name,
				Body: "return (Py_ssize_t)%CPPSELF->size();",
			})
			sequenceEntries = append(sequenceEntries, fmt.Sprintf("sq_length: (lenfunc)%s", name))
			mappingEntries = append(mappingEntries, fmt.Sprintf("mp_length: (lenfunc)%s", name))
			break
		}
	}

	if len(numberEntries) > 0 {
		table := a.TypeObjectName + "_as_number"
		a.Registration = append(a.Registration,
			fmt.Sprintf("static PyNumberMethods %s = {%s};", table, strings.Join(numberEntries, ", ")),
			fmt.Sprintf("%s.tp_as_number = &%s;", a.TypeObjectName, table))
	}
	if len(sequenceEntries) > 0 {
		table := a.TypeObjectName + "_as_sequence"
		a.Registration = append(a.Registration,
			fmt.Sprintf("static PySequenceMethods %s = {%s};", table, strings.Join(sequenceEntries, ", ")),
			fmt.Sprintf("%s.tp_as_sequence = &%s;", a.TypeObjectName, table))
	}
	if len(mappingEntries) > 0 {
		table := a.TypeObjectName + "_as_mapping"
		a.Registration = append(a.Registration,
			fmt.Sprintf("static PyMappingMethods %s = {%s};", table, strings.Join(mappingEntries, ", ")),
			fmt.Sprintf("%s.tp_as_mapping = &%s;", a.TypeObjectName, table))
	}
}
