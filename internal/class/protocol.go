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

	"github.com/shiboken-go/shiboken/internal/convert"
	"github.com/shiboken-go/shiboken/internal/model"
)

// emitDealloc renders tp_dealloc: every wrapped object needs its C++
// side destroyed exactly once when the Python wrapper's refcount hits
// zero, regardless of what else the class does.
func (e *Emitter) emitDealloc(c *model.ClassEntity, a *Artifact) {
	name := a.TypeObjectName + "_tp_dealloc"
	a.Functions = append(a.Functions, convert.Function{
		Name: name,
		Body: fmt.Sprintf("Shiboken::Object::destroy(self, %%CPPSELF);\n"),
	})
	a.Registration = append(a.Registration, fmt.Sprintf("%s.tp_dealloc = (destructor)%s;", a.TypeObjectName, name))
}

// emitRichCompare wires tp_richcompare when c declares at least one
// comparison operator, grouping overloads by C++ token and handing them
// to internal/wrapper.EmitRichCompare for the six-way switch body.
func (e *Emitter) emitRichCompare(c *model.ClassEntity, a *Artifact) {
	byToken := map[string][]*model.FunctionEntity{}
	for _, f := range c.Functions {
		if f.IsComparisonOperator && !f.IsModifiedRemoved {
			byToken[f.OperatorKind] = append(byToken[f.OperatorKind], f)
		}
	}
	if len(byToken) == 0 {
		return
	}
	name := a.TypeObjectName + "_tp_richcompare"
	fn := e.wrap.EmitRichCompare(name, byToken)
	a.Functions = append(a.Functions, fn)
	a.Registration = append(a.Registration, fmt.Sprintf("%s.tp_richcompare = (richcmpfunc)%s;", a.TypeObjectName, fn.Name))
}

// emitHash wires tp_hash. A type-system author naming an explicit
// HashFunction wins outright. Otherwise, mirroring CPython's own rule
// for types that define __eq__ (a mutable-looking custom equality
// relation shouldn't also get a default identity hash unless something
// says it's still safe to hash), a class declaring operator== and no
// hash function gets tp_hash = 0 (unhashable) rather than silently
// inheriting object identity hashing. Other comparison operators alone
// leave tp_hash unset.
func (e *Emitter) emitHash(c *model.ClassEntity, a *Artifact) {
	if c.TypeEntry != nil && c.TypeEntry.HashFunction != "" {
		name := a.TypeObjectName + "_tp_hash"
		a.Functions = append(a.Functions, convert.Function{
			Name: name,
			Body: fmt.Sprintf("return (Py_hash_t)%%CPPSELF->%s();", c.TypeEntry.HashFunction),
		})
		a.Registration = append(a.Registration, fmt.Sprintf("%s.tp_hash = (hashfunc)%s;", a.TypeObjectName, name))
		return
	}
	for _, f := range c.Functions {
		if f.IsComparisonOperator && f.OperatorKind == "==" {
			a.Registration = append(a.Registration, fmt.Sprintf("%s.tp_hash = (hashfunc)nullptr; // defines operator==, not explicitly hashable", a.TypeObjectName))
			return
		}
	}
}

// emitIterProtocol wires tp_iter/tp_iternext for the common STL-style
// iteration idiom: a class exposing both begin() and end() gets a
// Python iterator that walks from one to the other.
func (e *Emitter) emitIterProtocol(c *model.ClassEntity, a *Artifact) {
	var begin, end bool
	for _, f := range c.Functions {
		switch f.OriginalName {
		case "begin":
			begin = true
		case "end":
			end = true
		}
	}
	if !begin || !end {
		return
	}
	iterName := a.TypeObjectName + "_tp_iter"
	nextName := a.TypeObjectName + "_tp_iternext"
	a.Functions = append(a.Functions,
		convert.Function{Name: iterName, Body: fmt.Sprintf("return %s_IteratorNew(%%CPPSELF->begin(), %%CPPSELF->end());", a.TypeObjectName)},
		convert.Function{Name: nextName, Body: "return Shiboken::Iterator::next(self);"},
	)
	a.Registration = append(a.Registration,
		fmt.Sprintf("%s.tp_iter = (getiterfunc)%s;", a.TypeObjectName, iterName),
		fmt.Sprintf("%s.tp_iternext = (iternextfunc)%s;", a.TypeObjectName, nextName),
	)
}

// emitStrRepr wires tp_str/tp_repr when c declares a toString() method
// (the conventional PySide/Shiboken signal that a type wants a
// human-readable Python str()/repr()); tp_repr additionally wraps the
// result in the class's qualified name, matching the teacher-adjacent
// convention of "<Module.Class object at ...: <toString>>"-style reprs.
func (e *Emitter) emitStrRepr(c *model.ClassEntity, a *Artifact) {
	var hasToString bool
	for _, f := range c.Functions {
		if f.OriginalName == "toString" && len(f.NonRemovedArgs()) == 0 {
			hasToString = true
			break
		}
	}
	if !hasToString {
		return
	}
	strName := a.TypeObjectName + "_tp_str"
	reprName := a.TypeObjectName + "_tp_repr"
	a.Functions = append(a.Functions,
		convert.Function{Name: strName, Body: "return %CONVERTTOPYTHON[QString](%CPPSELF->toString());"},
		convert.Function{Name: reprName, Body: fmt.Sprintf(
			"return PyUnicode_FromFormat(\"<%s at %%p: %%S>\", %%CPPSELF, %s(self));", c.QualifiedName, strName)},
	)
	a.Registration = append(a.Registration,
		fmt.Sprintf("%s.tp_str = (reprfunc)%s;", a.TypeObjectName, strName),
		fmt.Sprintf("%s.tp_repr = (reprfunc)%s;", a.TypeObjectName, reprName),
	)
}

// emitGCFlags wires tp_flags, plus tp_traverse/tp_clear when the class
// can hold a reference cycle through Python: an object type may be
// parented to (or parent) other wrapped objects per §4.5's ownership
// bookkeeping, which is exactly the kind of reference CPython's cycle
// collector needs to see. Value types never hold such a reference (they
// are plain copies), so they get the plain default flags with no GC
// support, matching CPython's own guidance not to pay the GC bookkeeping
// cost for types that can't participate in a cycle.
func (e *Emitter) emitGCFlags(c *model.ClassEntity, a *Artifact) {
	if !c.IsObjectType {
		a.Registration = append(a.Registration, fmt.Sprintf("%s.tp_flags = Py_TPFLAGS_DEFAULT;", a.TypeObjectName))
		return
	}
	a.Registration = append(a.Registration,
		fmt.Sprintf("%s.tp_flags = Py_TPFLAGS_DEFAULT | Py_TPFLAGS_BASETYPE | Py_TPFLAGS_HAVE_GC;", a.TypeObjectName))

	traverseName := a.TypeObjectName + "_tp_traverse"
	clearName := a.TypeObjectName + "_tp_clear"
	a.Functions = append(a.Functions,
		convert.Function{Name: traverseName, Body: "return Shiboken::Object::traverse(self, visit, arg);"},
		convert.Function{Name: clearName, Body: "return Shiboken::Object::clear(self);"},
	)
	a.Registration = append(a.Registration,
		fmt.Sprintf("%s.tp_traverse = (traverseproc)%s;", a.TypeObjectName, traverseName),
		fmt.Sprintf("%s.tp_clear = (inquiry)%s;", a.TypeObjectName, clearName),
	)
}
