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

// Package wrapper is the §4.5 Function Wrapper Emitter: given one
// overload group (every FunctionEntity sharing a Python-visible name),
// it renders the single CPython-callable C function that dispatches to
// the right overload, converts arguments and return value, runs the
// native call with the GIL released, and applies ownership/refcount
// bookkeeping.
//
// Grounded on the teacher's gapil/compiler, which lowers one semantic
// function into one emitted function body by walking a fixed pipeline
// (bind parameters, lower statements, lower the return); the pipeline
// here is argument-dispatch -> per-argument conversion -> native call
// -> ownership bookkeeping -> return conversion, in the same
// single-pass-per-function shape.
package wrapper

import (
	"fmt"
	"strings"

	"github.com/shiboken-go/shiboken/internal/convert"
	"github.com/shiboken-go/shiboken/internal/diag"
	"github.com/shiboken-go/shiboken/internal/model"
	"github.com/shiboken-go/shiboken/internal/names"
	"github.com/shiboken-go/shiboken/internal/overload"
	"github.com/shiboken-go/shiboken/internal/snippet"
	"github.com/shiboken-go/shiboken/internal/typeclass"
)

// Emitter renders overload groups into convert.Function values (the
// same small {Name, Body} shape the Converter Synthesiser uses, so the
// Class Emitter and Module Assembler treat converters and wrapper
// functions identically when writing them out).
type Emitter struct {
	synth *convert.Synthesiser
	ts    model.TypeSystem
	opts  model.Options
	sink  *diag.Sink
}

// New returns an Emitter that synthesizes converters for every type it
// encounters through synth, and resolves type names in injected
// snippets through ts.
func New(synth *convert.Synthesiser, ts model.TypeSystem, opts model.Options, sink *diag.Sink) *Emitter {
	return &Emitter{synth: synth, ts: ts, opts: opts, sink: sink}
}

// EmitOverloadGroup renders wrapperName's dispatcher for funcs (all
// overloads sharing one Python-visible name). The owning class, if any,
// comes from each function's OwnerClass.
//
// Every dispatcher is emitted against the METH_VARARGS|METH_KEYWORDS
// calling convention (§4.5's named-argument resolution is most useful
// exactly where it matters: default-valued trailing arguments), so the
// body always has a `kwds` parameter in scope. When the group takes at
// least one argument, a keyword-argument resolution prologue runs
// first: if the caller passed any keywords, Shiboken::resolveKeywordArgs
// folds args+kwds into one positional tuple by the argument names the
// type-system declares, and the rest of the dispatcher (the trie
// cascade, built for positional access) runs against that tuple instead
// of the raw `args` parameter.
func (e *Emitter) EmitOverloadGroup(wrapperName string, funcs []*model.FunctionEntity) convert.Function {
	root, ok := overload.Build(funcs)
	if !ok {
		d := diag.New(diag.CycleError, wrapperName,
			"overload sibling order for %s contains a cycle; falling back to insertion order", wrapperName)
		d.Dump = overload.DumpSiblingGraph(funcs)
		e.sink.Report(d)
	}

	var body strings.Builder
	argsVar := "args"
	if root.MaxArgs > 0 {
		kwlist := wrapperName + "_kwlist"
		fmt.Fprintf(&body, "static const char *%s[] = {%s, nullptr};\n", kwlist, quotedArgNames(funcs, root.MaxArgs))
		body.WriteString("PyObject *resolvedArgs = args;\n")
		fmt.Fprintf(&body, "if (kwds != nullptr && PyDict_Size(kwds) > 0) {\n")
		fmt.Fprintf(&body, "    resolvedArgs = Shiboken::resolveKeywordArgs(args, kwds, %s, %d);\n", kwlist, root.MaxArgs)
		body.WriteString("    if (resolvedArgs == nullptr) return nullptr;\n}\n")
		argsVar = "resolvedArgs"
	}
	fmt.Fprintf(&body, "Py_ssize_t numArgs = PyTuple_GET_SIZE(%s);\n", argsVar)
	body.WriteString(e.renderNode(root, argsVar))
	body.WriteString("PyErr_SetString(PyExc_TypeError, \"no matching overload found\");\nreturn nullptr;\n")

	return convert.Function{Name: wrapperName, Body: body.String()}
}

// quotedArgNames picks one argument name per position 0..max-1 (the
// first overload that has a non-removed argument there), comma-joined
// as C string literals for a kwlist table. Overloads disagreeing on a
// parameter's name at the same position is a type-system authoring
// concern (§4.4 already requires their types to differ there for the
// trie to dispatch at all); this just needs one stable label to show
// Python callers.
func quotedArgNames(funcs []*model.FunctionEntity, max int) string {
	names := make([]string, max)
	for _, f := range funcs {
		args := f.NonRemovedArgs()
		for i := 0; i < len(args) && i < max; i++ {
			if names[i] == "" && args[i].Name != "" {
				names[i] = args[i].Name
			}
		}
	}
	parts := make([]string, max)
	for i, n := range names {
		if n == "" {
			n = fmt.Sprintf("arg%d", i)
		}
		parts[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(parts, ", ")
}

// renderNode renders one trie level: first any direct final-occurrence
// dispatches whose required argument count is exactly the node's
// position + 1 (or that accept it via a default), then one type-test
// cascade per child, most-specific first (already sorted by
// internal/overload.Build).
func (e *Emitter) renderNode(n *overload.Node, argsVar string) string {
	var b strings.Builder
	for _, f := range n.Overloads {
		if n.FinalOccurrence[f] {
			min, max := f.MinMaxArgs()
			fmt.Fprintf(&b, "if (numArgs >= %d && numArgs <= %d) {\n%s}\n", min, max, indent(e.renderCall(f, argsVar)))
		}
	}
	for i, c := range n.Children {
		check := e.pyCheckFor(c.ArgType)
		cond := fmt.Sprintf("numArgs > %d && %s(PyTuple_GET_ITEM(%s, %d))", c.ArgPosition, check, argsVar, c.ArgPosition)
		kw := "if"
		if i > 0 {
			kw = "} else if"
		}
		fmt.Fprintf(&b, "%s (%s) {\n%s", kw, cond, indent(e.renderNode(c, argsVar)))
	}
	if len(n.Children) > 0 {
		b.WriteString("}\n")
	}
	return b.String()
}

func (e *Emitter) pyCheckFor(t *model.AbstractType) string {
	if t == nil || t.Entry == nil {
		return "Shiboken_AlwaysTrue"
	}
	if typeclass.IsWrapperType(t) {
		return names.PyCheckFn(t)
	}
	c := e.synth.Synthesize(t.Entry)
	return c.IsConvertible.Name
}

// renderCall renders one concrete overload's body: argument extraction,
// the native call (guarded by the GIL release unless the function has
// injected code, which may itself touch the interpreter), ownership
// bookkeeping (explicit type-system rules, then the §6 heuristics), and
// the return conversion.
func (e *Emitter) renderCall(f *model.FunctionEntity, argsVar string) string {
	var b strings.Builder
	args := f.NonRemovedArgs()
	cppArgNames := make([]string, len(args))

	for i, a := range args {
		varName := fmt.Sprintf("cppArg%d", i)
		cppArgNames[i] = varName
		if rule, ok := f.ConversionRuleFor(model.Native, i); ok {
			fmt.Fprintf(&b, "%s %s;\n%s\n", e.cppTypeName(a.EffectiveType()), varName, e.resolveInjected(rule, f))
			continue
		}
		et := a.EffectiveType()
		conv := e.synth.Synthesize(et.Entry)
		fmt.Fprintf(&b, "%s %s;\n%s(PyTuple_GET_ITEM(%s, %d), &%s);\n",
			e.cppTypeName(et), varName, conv.PythonToCpp.Name, argsVar, i, varName)
	}

	guard := ThreadGuard{Disabled: f.HasInjectedCode}
	call := e.nativeCallExpr(f, cppArgNames)

	if f.ReturnType == nil {
		fmt.Fprintf(&b, "%s%s;\n%s", guard.Begin(), call, guard.End())
	} else {
		fmt.Fprintf(&b, "%sauto cppResult = %s;\n%s", guard.Begin(), call, guard.End())
	}

	for i, a := range args {
		for _, stmt := range ownershipStatements(a.Modified, fmt.Sprintf("PyTuple_GET_ITEM(%s, %d)", argsVar, i)) {
			b.WriteString(stmt)
			b.WriteByte('\n')
		}
	}
	for _, stmt := range parentHeuristicStatements(f, args, argsVar, e.opts) {
		b.WriteString(stmt)
		b.WriteByte('\n')
	}

	if f.ReturnType == nil {
		b.WriteString("Py_RETURN_NONE;\n")
		return b.String()
	}
	if rule, ok := f.ConversionRuleFor(model.Target, -1); ok {
		b.WriteString(e.resolveInjected(rule, f))
		return b.String()
	}
	retConv := e.synth.Synthesize(f.ReturnType.Entry)
	if returnValueNeedsParentHeuristic(f, e.opts) {
		fmt.Fprintf(&b, "PyObject *pyResult = %s(&cppResult);\nShiboken::Object::setParent(self, pyResult);\nreturn pyResult;\n", retConv.CppToPython.Name)
		return b.String()
	}
	fmt.Fprintf(&b, "return %s(&cppResult);\n", retConv.CppToPython.Name)
	return b.String()
}

func (e *Emitter) nativeCallExpr(f *model.FunctionEntity, cppArgNames []string) string {
	joined := strings.Join(cppArgNames, ", ")
	switch {
	case f.IsConstructor:
		return fmt.Sprintf("new %s(%s)", f.OwnerClass.QualifiedName, joined)
	case f.IsOperatorOverload:
		return e.operatorCallExpr(f, cppArgNames)
	case f.IsStatic:
		return fmt.Sprintf("%s::%s(%s)", f.OwnerClass.QualifiedName, f.OriginalName, joined)
	case f.OwnerClass != nil:
		return fmt.Sprintf("%%CPPSELF->%s(%s)", f.OriginalName, joined)
	default:
		return fmt.Sprintf("%s(%s)", f.OriginalName, joined)
	}
}

// operatorCallExpr renders the §4.5 C++ spelling of an operator
// overload: call syntax for operator(), prefix syntax for a unary
// operator (with the C++ postfix-increment/decrement idiom's dummy int
// argument distinguishing `++x` from `x++`), compound-assignment syntax
// for an in-place operator, and infix syntax for a binary or comparison
// operator — where IsReverseOperator swaps self and the argument,
// because the Python reflected slot (`__radd__` and friends) is called
// with self and the other operand already in the opposite C++ operand
// order.
func (e *Emitter) operatorCallExpr(f *model.FunctionEntity, cppArgNames []string) string {
	op := f.OperatorKind
	switch {
	case f.IsCallOperator:
		return fmt.Sprintf("(*%%CPPSELF)(%s)", strings.Join(cppArgNames, ", "))
	case f.IsUnaryOperator:
		if (op == "++" || op == "--") && len(cppArgNames) > 0 {
			return fmt.Sprintf("(*%%CPPSELF)%s", op)
		}
		return fmt.Sprintf("%s(*%%CPPSELF)", op)
	case f.IsInplaceOperator:
		return fmt.Sprintf("*%%CPPSELF %s %s", op, firstOrEmpty(cppArgNames))
	case f.IsBinaryOperator, f.IsComparisonOperator:
		lhs, rhs := "(*%CPPSELF)", firstOrEmpty(cppArgNames)
		if f.IsReverseOperator {
			lhs, rhs = rhs, lhs
		}
		return fmt.Sprintf("%s %s %s", lhs, op, rhs)
	default:
		return fmt.Sprintf("%%CPPSELF->operator%s(%s)", op, strings.Join(cppArgNames, ", "))
	}
}

func firstOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func (e *Emitter) cppTypeName(t *model.AbstractType) string {
	if t == nil || t.Entry == nil {
		return "void"
	}
	name := t.Entry.QualifiedCppName
	if t.IsConstant {
		name = "const " + name
	}
	for i := 0; i < t.Indirections; i++ {
		name += "*"
	}
	if t.IsReference {
		name += "&"
	}
	return name
}

// resolveInjected renders a user ConversionRule through the §4.5
// placeholder tokenizer, wiring %CONVERTTOPYTHON/%CONVERTTOCPP/
// %CHECKTYPE/%ISCONVERTIBLE through the same Synthesiser every
// generated converter call uses.
func (e *Emitter) resolveInjected(rule model.ConversionRule, f *model.FunctionEntity) string {
	toPython, toCpp, check, isConvertible := e.synth.ConverterFuncs(e.ts.FindType)
	segs := snippet.Tokenize(rule.Snippet)
	text, errs := snippet.Resolve(segs, snippet.Bindings{
		PySelf:          "self",
		CppSelf:         "%CPPSELF",
		FunctionName:    f.OriginalName,
		ConvertToPython: toPython,
		ConvertToCpp:    toCpp,
		CheckType:       check,
		IsConvertible:   isConvertible,
	})
	for _, err := range errs {
		e.sink.Report(diag.New(diag.EmissionWarning, f.Signature, "%v", err))
	}
	return text
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
