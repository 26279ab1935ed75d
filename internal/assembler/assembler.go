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

// Package assembler is the §4.7 Module Assembler: the top-level driver
// that walks an ApiModel, hands every class to internal/class and
// every reachable type to internal/convert, and writes the per-class
// wrapper files plus one module translation unit through internal/emit
// in the class-registration order §3 requires (base classes before
// their subclasses, so PyType_Ready never runs against a not-yet-ready
// tp_base).
//
// Grounded on the teacher's gapil/compiler.Compile, which is exactly
// this shape: one pass over a semantic API resolving and lowering each
// entity to one set of output files via a shared context threaded
// through every sub-step, finishing with a single "resolver.go"-style
// dependency-ordered writeout.
package assembler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shiboken-go/shiboken/internal/class"
	"github.com/shiboken-go/shiboken/internal/convert"
	"github.com/shiboken-go/shiboken/internal/diag"
	"github.com/shiboken-go/shiboken/internal/emit"
	"github.com/shiboken-go/shiboken/internal/model"
	"github.com/shiboken-go/shiboken/internal/names"
	"github.com/shiboken-go/shiboken/internal/wrapper"
)

// Assembler owns one generator run's shared state: the Synthesiser
// every component feeds, the class emitter, and the sink every
// diagnostic converges on.
type Assembler struct {
	opts  model.Options
	sink  *diag.Sink
	synth *convert.Synthesiser
	wrap  *wrapper.Emitter
	cls   *class.Emitter
}

// New wires a full Assembler: a convert.Synthesiser, a wrapper.Emitter
// over it, and a class.Emitter over that, all sharing opts and sink.
func New(opts model.Options, ts model.TypeSystem, sink *diag.Sink) *Assembler {
	synth := convert.New(opts, sink)
	wrap := wrapper.New(synth, ts, opts, sink)
	return &Assembler{opts: opts, sink: sink, synth: synth, wrap: wrap, cls: class.New(wrap, sink)}
}

// Synthesiser returns the Assembler's shared Synthesiser, so a caller
// that already ran Assemble can pass it straight to WriteAll.
func (a *Assembler) Synthesiser() *convert.Synthesiser { return a.synth }

// ModuleFunctionTable is the free-function equivalent of a class's
// method table: the module's own PyMethodDef array.
type ModuleFunctionTable struct {
	Functions []convert.Function
	Entries   []string
}

// Assemble renders every class, global function and container
// converter in api into a Writer-ready file set, and returns the
// ordered class artifacts plus the module-level init sequence
// (§4.7 steps 1-9).
func Assemble(a *Assembler, moduleName string, api model.ApiModel) ([]*class.Artifact, ModuleFunctionTable, []string) {
	var artifacts []*class.Artifact
	for _, c := range api.ClassesTopologicalSorted() {
		artifacts = append(artifacts, a.cls.EmitClass(c))
	}

	moduleFns := a.emitModuleFunctions(moduleName, api.GlobalFunctions())

	for _, inst := range api.AllInstantiatedContainers() {
		a.synth.Synthesize(inst.Entry)
	}
	for _, p := range api.PrimitiveTypes() {
		a.synth.Synthesize(p)
	}
	for _, en := range api.GlobalEnums() {
		a.synth.Synthesize(en)
	}

	init := a.buildInitSequence(moduleName, artifacts)
	return artifacts, moduleFns, init
}

func (a *Assembler) emitModuleFunctions(moduleName string, fns []*model.FunctionEntity) ModuleFunctionTable {
	groups := map[string][]*model.FunctionEntity{}
	var order []string
	for _, f := range fns {
		if _, seen := groups[f.OriginalName]; !seen {
			order = append(order, f.OriginalName)
		}
		groups[f.OriginalName] = append(groups[f.OriginalName], f)
	}
	sort.Strings(order)

	var out ModuleFunctionTable
	for _, name := range order {
		funcs := groups[name]
		wrapperName := fmt.Sprintf("%s_%s_wrapper", strings.ToLower(moduleName), name)
		fn := a.wrap.EmitOverloadGroup(wrapperName, funcs)
		out.Functions = append(out.Functions, fn)

		flags := "METH_VARARGS"
		if maxArity(funcs) > 0 {
			flags += "|METH_KEYWORDS"
		}
		out.Entries = append(out.Entries, fmt.Sprintf(`{"%s", (PyCFunction)%s, %s, nullptr},`, name, fn.Name, flags))
	}
	return out
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

// buildInitSequence emits the §4.7 module-init body: allocate and
// PyType_Ready every class in dependency order, register it with the
// module, then run every converter's registration calls, then every
// cross-module ExtendedConversion.
func (a *Assembler) buildInitSequence(moduleName string, artifacts []*class.Artifact) []string {
	var out []string
	out = append(out, fmt.Sprintf(`PyObject *module = PyModule_Create(&%s_moduledef);`, strings.ToLower(moduleName)))

	for _, art := range artifacts {
		out = append(out, art.Registration...)
		out = append(out, fmt.Sprintf("if (PyType_Ready(&%s) < 0) return nullptr;", art.TypeObjectName))
		out = append(out, fmt.Sprintf(`Py_INCREF(&%s);`, art.TypeObjectName))
		out = append(out, fmt.Sprintf(`PyModule_AddObject(module, "%s", (PyObject*)&%s);`,
			localName(art.Class.QualifiedName), art.TypeObjectName))
	}

	for _, c := range a.synth.Converters() {
		out = append(out, c.Registrations...)
	}
	for _, e := range a.synth.Extended() {
		out = append(out, fmt.Sprintf("Shiboken::Conversions::addPythonToCppValueConversion(%s, /*extended from %s*/ nullptr, nullptr);",
			names.ConverterIndexVar(e.TargetType), e.TargetModule))
	}

	out = append(out, "return module;")
	return out
}

func localName(qualified string) string {
	if i := strings.LastIndex(qualified, "::"); i >= 0 {
		return qualified[i+2:]
	}
	return qualified
}

// WriteAll writes every emitted Function (wrapper bodies, converters,
// accessors) and the module translation unit through w, per §5's
// content-hash-before-write discipline.
func WriteAll(w *emit.Writer, moduleName string, artifacts []*class.Artifact, moduleFns ModuleFunctionTable, synth *convert.Synthesiser, initSeq []string) error {
	for _, art := range artifacts {
		var body strings.Builder
		for _, fn := range art.Functions {
			fmt.Fprintf(&body, "// %s\n%s\n\n", fn.Name, fn.Body)
		}
		if err := w.WriteFile(names.WrapperFileBase(art.Class)+".cpp", body.String()); err != nil {
			return err
		}
	}

	var moduleBody strings.Builder
	for _, c := range synth.Converters() {
		fmt.Fprintf(&moduleBody, "// %s\n%s\n\n%s\n\n%s\n\n",
			c.Type.QualifiedCppName, c.PythonToCpp.Body, c.IsConvertible.Body, c.CppToPython.Body)
	}
	for _, fn := range moduleFns.Functions {
		fmt.Fprintf(&moduleBody, "// %s\n%s\n\n", fn.Name, fn.Body)
	}
	moduleBody.WriteString("PyMODINIT_FUNC PyInit_" + moduleName + "() {\n")
	for _, stmt := range initSeq {
		fmt.Fprintf(&moduleBody, "    %s\n", stmt)
	}
	moduleBody.WriteString("}\n")

	return w.WriteFile(names.ModuleWrapperFileBase(moduleName)+".cpp", moduleBody.String())
}
