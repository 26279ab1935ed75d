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

// Package class is the §4.6 Class Emitter: for one ClassEntity it
// groups methods into overload groups, hands each group to
// internal/wrapper, adds the protected-member accessors/thunks and
// field getset pairs, and assembles the PyTypeObject registration
// calls the Module Assembler later sequences.
//
// Grounded on the teacher's gapis/service/path package, which walks
// one API entity (a Path) and emits one fixed bundle of artefacts per
// entity (a getter, a setter, a formatted name) from a handful of
// small per-concern functions rather than one monolithic emit method;
// EmitClass is structured the same way, one small method per artefact
// kind (methods, constructors, fields, bases).
package class

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shiboken-go/shiboken/internal/convert"
	"github.com/shiboken-go/shiboken/internal/diag"
	"github.com/shiboken-go/shiboken/internal/model"
	"github.com/shiboken-go/shiboken/internal/names"
	"github.com/shiboken-go/shiboken/internal/wrapper"
)

// Artifact is everything EmitClass produces for one ClassEntity.
type Artifact struct {
	Class          *model.ClassEntity
	Functions       []convert.Function // every wrapper/accessor/thunk body to emit
	MethodTable    []string           // PyMethodDef initializer lines, sorted by name
	GetSet         []string           // PyGetSetDef initializer lines, one per field
	TypeObjectName string
	WrapperName    string // CppWrapperName, used when the class needs virtual-method/protected trampolines
	InitFunc       string
	Registration   []string // statements InitFunc's body runs, in order
}

// Emitter renders ClassEntity values into Artifacts.
type Emitter struct {
	wrap *wrapper.Emitter
	sink *diag.Sink
}

// New returns an Emitter that renders method bodies through wrap.
func New(wrap *wrapper.Emitter, sink *diag.Sink) *Emitter {
	return &Emitter{wrap: wrap, sink: sink}
}

// EmitClass renders c's full artifact bundle.
func (e *Emitter) EmitClass(c *model.ClassEntity) *Artifact {
	a := &Artifact{
		Class:          c,
		TypeObjectName: names.PyTypeName(c),
		WrapperName:    names.CppWrapperName(c),
		InitFunc:       names.InitFunc(c),
	}

	e.emitConstructors(c, a)
	e.emitMethods(c, a)
	e.emitFields(c, a)
	e.emitBases(c, a)

	e.emitDealloc(c, a)
	e.emitRichCompare(c, a)
	e.emitHash(c, a)
	e.emitNumberSequenceMapping(c, a)
	e.emitIterProtocol(c, a)
	e.emitStrRepr(c, a)
	e.emitGCFlags(c, a)

	sort.Strings(a.MethodTable)
	return a
}

// emitConstructors groups every IsConstructor function (skipping the
// implicit copy constructor, which is never Python-callable directly)
// into one tp_new dispatcher.
func (e *Emitter) emitConstructors(c *model.ClassEntity, a *Artifact) {
	var ctors []*model.FunctionEntity
	for _, f := range c.Functions {
		if f.IsConstructor && !f.IsCopyConstructor && !f.IsModifiedRemoved {
			ctors = append(ctors, f)
		}
	}
	if len(ctors) == 0 {
		return
	}
	newFn := e.wrap.EmitOverloadGroup(a.TypeObjectName+"_tp_new", ctors)
	a.Functions = append(a.Functions, newFn)
	a.Registration = append(a.Registration,
		fmt.Sprintf("%s.tp_new = %s;", a.TypeObjectName, newFn.Name))
}

// emitMethods groups every other visible function by its Python name
// (overloads share one dispatcher, per §4.4/§4.5) and adds one
// PyMethodDef entry per group. Operator overloads are excluded — they
// are routed to the number/sequence/mapping/richcompare protocol
// slots by emitNumberSequenceMapping/emitRichCompare instead of the
// method table. Every protected method group, virtual or not, also gets
// a public thunk (§4.6's "protected hack"); the AvoidProtectedHack
// option is not consulted here or by internal/assembler, so the thunk
// is always emitted. A virtual method additionally gets
// a C++-side override trampoline in the generated wrapper subclass, so
// a Python subclass overriding it is actually called back into (§4.6).
func (e *Emitter) emitMethods(c *model.ClassEntity, a *Artifact) {
	groups := map[string][]*model.FunctionEntity{}
	var order []string
	for _, f := range c.Functions {
		if f.IsConstructor || f.IsModifiedRemoved || f.IsSignal || f.IsOperatorOverload {
			continue
		}
		if _, seen := groups[f.OriginalName]; !seen {
			order = append(order, f.OriginalName)
		}
		groups[f.OriginalName] = append(groups[f.OriginalName], f)
	}
	sort.Strings(order)

	for _, name := range order {
		funcs := groups[name]
		wrapperName := fmt.Sprintf("%s_%s_wrapper", a.TypeObjectName, name)
		fn := e.wrap.EmitOverloadGroup(wrapperName, funcs)
		a.Functions = append(a.Functions, fn)

		flags := "METH_VARARGS"
		if maxArity(funcs) > 0 {
			flags += "|METH_KEYWORDS"
		}
		if allStatic(funcs) {
			flags += "|METH_STATIC"
		}
		a.MethodTable = append(a.MethodTable, fmt.Sprintf(`{"%s", (PyCFunction)%s, %s, nullptr},`, name, fn.Name, flags))

		if funcs[0].IsProtected {
			thunkName := names.ProtectedThunk(name)
			a.Functions = append(a.Functions, convert.Function{
				Name: thunkName,
				Body: fmt.Sprintf("return this->%s::%s();", c.QualifiedName, name),
			})
		}
		if funcs[0].IsVirtual {
			a.Functions = append(a.Functions, e.wrap.EmitVirtualTrampoline(funcs[0]))
		}
	}
}

func maxArity(funcs []*model.FunctionEntity) int {
	max := 0
	for _, f := range funcs {
		if n := len(f.NonRemovedArgs()); n > max {
			max = n
		}
	}
	return max
}

func allStatic(funcs []*model.FunctionEntity) bool {
	for _, f := range funcs {
		if !f.IsStatic {
			return false
		}
	}
	return true
}

// emitFields adds a PyGetSetDef pair per field; protected fields go
// through the inline accessor pair §4.6 names rather than a direct
// member read/write.
func (e *Emitter) emitFields(c *model.ClassEntity, a *Artifact) {
	for _, f := range c.Fields {
		getter := fmt.Sprintf("%s_%s_getter", a.TypeObjectName, f.Name)
		setter := fmt.Sprintf("%s_%s_setter", a.TypeObjectName, f.Name)
		member := f.Name
		if f.Protected {
			member = names.ProtectedGetter(f.Name) + "()"
			a.Functions = append(a.Functions, convert.Function{
				Name: names.ProtectedGetter(f.Name),
				Body: fmt.Sprintf("return this->%s;", f.Name),
			})
			a.Functions = append(a.Functions, convert.Function{
				Name: names.ProtectedSetter(f.Name),
				Body: fmt.Sprintf("this->%s = value;", f.Name),
			})
		}
		a.Functions = append(a.Functions, convert.Function{
			Name: getter,
			Body: fmt.Sprintf("return %%CONVERTTOPYTHON[%s](%%CPPSELF->%s);", f.Type.Entry.QualifiedCppName, member),
		})
		a.Functions = append(a.Functions, convert.Function{
			Name: setter,
			Body: fmt.Sprintf("%%CPPSELF->%s = %%CONVERTTOCPP[%s](value);", member, f.Type.Entry.QualifiedCppName),
		})
		a.GetSet = append(a.GetSet, fmt.Sprintf(`{"%s", %s, %s, nullptr, nullptr},`, f.Name, getter, setter))
	}
}

// emitBases records the single-inheritance tp_base assignment (§4.6).
// CPython's tp_base only ever points at one sub-object, so a class with
// more than one base additionally gets the multiple-inheritance glue
// every later base needs to still work: a byte-offset table from the
// derived object to each additional base sub-object, a specialCast
// function that applies the right offset when code asks for a
// particular base's pointer, and a typeDiscovery function that maps a
// bare C++ pointer arriving from one of those bases back to this,
// the most-derived, Python wrapper type via dynamic_cast.
func (e *Emitter) emitBases(c *model.ClassEntity, a *Artifact) {
	if len(c.BaseClasses) == 0 {
		return
	}
	a.Registration = append(a.Registration,
		fmt.Sprintf("%s.tp_base = &%s;", a.TypeObjectName, names.PyTypeName(c.BaseClasses[0])))
	if len(c.BaseClasses) == 1 {
		return
	}
	e.emitMultipleInheritanceGlue(c, a)
}

// emitMultipleInheritanceGlue emits the offset table, specialCast and
// typeDiscovery functions for every base beyond c.BaseClasses[0], and
// registers them the way Shiboken::ObjectType's own multiple-
// inheritance support expects.
func (e *Emitter) emitMultipleInheritanceGlue(c *model.ClassEntity, a *Artifact) {
	extra := c.BaseClasses[1:]

	offsetsName := a.TypeObjectName + "_mi_offsets"
	var off strings.Builder
	fmt.Fprintf(&off, "int *%s(const void *cptr) {\n", offsetsName)
	fmt.Fprintf(&off, "    static int offsets[%d];\n    static bool computed = false;\n", len(extra))
	off.WriteString("    if (!computed) {\n")
	fmt.Fprintf(&off, "        const %s *self = reinterpret_cast<const %s*>(cptr);\n", c.QualifiedName, c.QualifiedName)
	for i, base := range extra {
		fmt.Fprintf(&off, "        offsets[%d] = int(reinterpret_cast<uintptr_t>(static_cast<const %s*>(self)) - reinterpret_cast<uintptr_t>(self));\n",
			i, base.QualifiedName)
	}
	off.WriteString("        computed = true;\n    }\n    return offsets;\n}\n")
	a.Functions = append(a.Functions, convert.Function{Name: offsetsName, Body: off.String()})
	a.Registration = append(a.Registration,
		fmt.Sprintf("Shiboken::ObjectType::setMultipleInheritanceFunction(&%s, %s);", a.TypeObjectName, offsetsName))

	castName := a.TypeObjectName + "_specialCast"
	var cast strings.Builder
	fmt.Fprintf(&cast, "void *%s(void *cptr, SbkObjectType *desiredType) {\n", castName)
	fmt.Fprintf(&cast, "    %s *self = reinterpret_cast<%s*>(cptr);\n", c.QualifiedName, c.QualifiedName)
	for _, base := range extra {
		fmt.Fprintf(&cast, "    if (desiredType == reinterpret_cast<SbkObjectType*>(&%s))\n        return static_cast<%s*>(self);\n",
			names.PyTypeName(base), base.QualifiedName)
	}
	cast.WriteString("    return cptr;\n}\n")
	a.Functions = append(a.Functions, convert.Function{Name: castName, Body: cast.String()})
	a.Registration = append(a.Registration,
		fmt.Sprintf("%s.d_baseobject.specialCast = %s;", a.TypeObjectName, castName))

	discoveryName := a.TypeObjectName + "_typeDiscovery"
	var disc strings.Builder
	fmt.Fprintf(&disc, "PyTypeObject *%s(void *cptr, SbkObjectType *instanceType) {\n", discoveryName)
	for _, base := range extra {
		fmt.Fprintf(&disc, "    if (dynamic_cast<%s*>(reinterpret_cast<%s*>(cptr)) != nullptr)\n        return reinterpret_cast<PyTypeObject*>(&%s);\n",
			base.QualifiedName, c.QualifiedName, a.TypeObjectName)
	}
	disc.WriteString("    return nullptr;\n}\n")
	a.Functions = append(a.Functions, convert.Function{Name: discoveryName, Body: disc.String()})
	a.Registration = append(a.Registration,
		fmt.Sprintf("Shiboken::ObjectType::setTypeDiscoveryFunctionV2(&%s, %s);", a.TypeObjectName, discoveryName))
}
