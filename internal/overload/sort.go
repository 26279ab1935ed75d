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

package overload

import (
	"github.com/shiboken-go/shiboken/internal/graph"
	"github.com/shiboken-go/shiboken/internal/model"
	"github.com/shiboken-go/shiboken/internal/typeclass"
)

// sortSiblings orders one node's children per the §4.4 precedence
// table, most-specific (tested first) to most-general (tested last).
// Every pairwise rule below contributes a directed edge to
// internal/graph.TopologicalSort; a cycle means two sibling types
// disagree about precedence (e.g. a user-added implicit conversion
// loop) and is reported up as ok == false.
func sortSiblings(children []*Node) ([]*Node, bool) {
	nodes := make([]graph.Node, len(children))
	for i := range children {
		nodes[i] = graph.Node{ID: i}
	}
	for i := range children {
		for j := range children {
			if i == j {
				continue
			}
			if precedes(children[i], children[j]) {
				// i before j: j depends on i.
				nodes[j].DependsOn = append(nodes[j].DependsOn, i)
			}
		}
	}
	order, ok := graph.TopologicalSort(nodes)
	sorted := make([]*Node, len(order))
	for i, id := range order {
		sorted[i] = children[id]
	}
	return sorted, ok
}

// precedes reports whether a's type test must run before b's, per the
// §4.4 sibling-ordering rules. Evaluated pairwise; the absence of a
// rule leaves the pair unordered (graph.TopologicalSort's stable ID
// tie-break then preserves insertion order between them).
func precedes(a, b *Node) bool {
	ta, tb := a.ArgType, b.ArgType
	if ta == nil || tb == nil {
		return false
	}

	// Rule: an exact, non-replaced type always precedes a type-system
	// replaced type at the same position (the concrete test is more
	// specific than a textual substitution).
	if !a.ArgTypeReplaced && b.ArgTypeReplaced {
		return true
	}

	// Rule: QVariant accepts essentially any convertible Python value,
	// so its type test is tried last among siblings — except against
	// another QVariant, where the rule is vacuous.
	if tb.Entry.QualifiedCppName == "QVariant" && ta.Entry.QualifiedCppName != "QVariant" {
		return true
	}

	// Rule: QString precedes QByteArray, and precedes any other wrapper
	// type that isn't QByteArray, at the same slot — Qt's str/bytes
	// pair, where a Python str must bind to QString before the more
	// permissive byte-buffer constructor gets a chance.
	if ta.Entry.QualifiedCppName == "QString" && tb.Entry.QualifiedCppName != "QString" {
		return true
	}

	// Rule: a class derived from b's class is tested first (the
	// narrower, more-derived check must not be shadowed by its base).
	if isDerivedFrom(ta.Entry, tb.Entry) {
		return true
	}

	// Rule: a concrete (non-implicit) container instantiation precedes
	// one reachable only through the element type's own implicit
	// conversions.
	ca, cb := typeclass.Classify(ta), typeclass.Classify(tb)
	if ca == typeclass.Container && cb == typeclass.Container {
		if instantiationMatchesExactly(ta, tb) && !instantiationMatchesExactly(tb, ta) {
			return true
		}
	}

	// Rule: a type implicitly convertible to the other's C++ type is
	// tested first — the exact/narrow match before the value that would
	// also satisfy the wider constructor. implicitlyConvertible(dst,
	// src) asks whether dst has a converting constructor from src; here
	// a is the candidate source and b the candidate destination, so a
	// (the narrower match) must precede b.
	if implicitlyConvertible(tb.Entry, ta.Entry) {
		return true
	}

	// Rule: PyBuffer before PySequence before a catch-all PyObject/Shiboken
	// type, mirroring the C-API's own increasingly-permissive protocol
	// checks.
	if isBufferLike(ta) && (isSequenceLike(tb) || isCatchAllObject(tb)) {
		return true
	}
	if isSequenceLike(ta) && isCatchAllObject(tb) {
		return true
	}

	// Rule: an enum precedes a numeric primitive at the same slot (an
	// enum value is always also a Python int, but the narrower
	// enum-typed check must run first to preserve its own identity).
	if ca == typeclass.Enum && cb == typeclass.CppPrimitive && typeclass.IsNumber(tb) {
		return true
	}

	// Rule: a signed/unsigned integral primitive precedes float/double
	// and bool at the same slot (PyLong exactness beats PyFloat/PyBool
	// coercion).
	if ca == typeclass.CppPrimitive && cb == typeclass.CppPrimitive {
		if typeclass.IsCppIntegralPrimitive(ta) && ta.Entry.QualifiedCppName != "bool" {
			if tb.Entry.QualifiedCppName == "float" || tb.Entry.QualifiedCppName == "double" || tb.Entry.QualifiedCppName == "bool" {
				return true
			}
		}
	}

	// Rule: any concrete wrapper or primitive precedes a Custom-category
	// type (custom conversions are typically the most permissive,
	// user-supplied checkFunction last).
	if ca != typeclass.Custom && cb == typeclass.Custom {
		return true
	}

	return false
}

// DumpSiblingGraph renders the top-level sibling precedence graph for
// funcs as Graphviz DOT text, for attaching to the CycleError
// diagnostic internal/wrapper.EmitOverloadGroup reports when Build
// finds a cycle — §7 requires "a textual graph dump emitted for
// debugging", matching the teacher's own gapil/resolver and
// gapil/analysis debug-dump convention.
func DumpSiblingGraph(funcs []*model.FunctionEntity) string {
	root := newNode(-1)
	insert(root, funcs)

	nodes := make([]graph.Node, len(root.Children))
	labels := map[int]string{}
	for i, c := range root.Children {
		nodes[i] = graph.Node{ID: i}
		if c.ArgType != nil && c.ArgType.Entry != nil {
			labels[i] = c.ArgType.Entry.QualifiedCppName
		}
	}
	for i := range root.Children {
		for j := range root.Children {
			if i == j {
				continue
			}
			if precedes(root.Children[i], root.Children[j]) {
				nodes[j].DependsOn = append(nodes[j].DependsOn, i)
			}
		}
	}
	return graph.DumpDOT(nodes, labels)
}

func isDerivedFrom(derived, base *model.TypeEntry) bool {
	if derived == nil || base == nil || derived.Class == nil {
		return false
	}
	seen := map[*model.ClassEntity]bool{}
	var walk func(c *model.ClassEntity) bool
	walk = func(c *model.ClassEntity) bool {
		if c == nil || seen[c] {
			return false
		}
		seen[c] = true
		for _, p := range c.BaseClasses {
			if p == base.Class {
				return true
			}
			if walk(p) {
				return true
			}
		}
		return false
	}
	return walk(derived.Class)
}

// instantiationMatchesExactly reports whether every instantiation
// TypeEntry of a matches (by identity) the corresponding instantiation
// of b — i.e. a is the exact instantiation, not merely implicitly
// reachable from it.
func instantiationMatchesExactly(a, b *model.AbstractType) bool {
	ea, eb := a.Entry, b.Entry
	if len(ea.Instantiations) != len(eb.Instantiations) {
		return false
	}
	for i := range ea.Instantiations {
		if ea.Instantiations[i] != eb.Instantiations[i] {
			return false
		}
	}
	return true
}

// implicitlyConvertible reports whether src is the sole argument type
// of a non-explicit one-argument constructor (or an §4.3 extended
// conversion) of dst — the same "implicit conversion" fact the
// Converter Synthesiser uses to register a second accepted Python
// input. Computed independently here (internal/overload does not
// depend on internal/convert's Synthesiser output) straight from the
// model, mirroring gapil/resolver's own purely-structural castable
// checks.
func implicitlyConvertible(dst, src *model.TypeEntry) bool {
	if dst == nil || src == nil || dst == src || dst.Class == nil {
		return false
	}
	for _, f := range dst.Class.Functions {
		if !f.IsConstructor || f.IsExplicit || f.IsCopyConstructor {
			continue
		}
		args := f.NonRemovedArgs()
		if len(args) != 1 {
			continue
		}
		if args[0].EffectiveType().Entry == src {
			return true
		}
	}
	return false
}
