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
	"fmt"

	"github.com/shiboken-go/shiboken/internal/model"
)

// Build constructs the overload trie for a group of FunctionEntity
// sharing one Python-visible name (e.g. all the overloads of a method,
// already grouped by the caller — internal/class or internal/wrapper).
// ok is false when a sibling group's ordering contains a cycle; the
// caller reports a CycleError (§7) and may still emit the trie's
// (partially ordered) Children for a best-effort dispatcher.
func Build(funcs []*model.FunctionEntity) (root *Node, ok bool) {
	root = newNode(-1)
	root.Overloads = append(root.Overloads, funcs...)

	root.MinArgs, root.MaxArgs = 0, 0
	for i, f := range funcs {
		min, max := f.MinMaxArgs()
		if i == 0 || min < root.MinArgs {
			root.MinArgs = min
		}
		if max > root.MaxArgs {
			root.MaxArgs = max
		}
	}

	ok = true
	insert(root, funcs)
	if !sortSubtree(root) {
		ok = false
	}
	return root, ok
}

// insert threads every function's argument list into the trie below n,
// merging functions whose argument at a given position key-match an
// existing child (§4.4: "one child per distinct argument type at that
// position").
func insert(n *Node, funcs []*model.FunctionEntity) {
	byKey := map[string]*Node{}
	order := []string{}

	for _, f := range funcs {
		args := f.NonRemovedArgs()
		pos := n.ArgPosition + 1

		if pos >= len(args) {
			n.FinalOccurrence[f] = true
			continue
		}
		if min, _ := f.MinMaxArgs(); pos >= min {
			n.DefaultDispatch[f] = true
		}

		arg := args[pos]
		et := arg.EffectiveType()
		replaced, replacement := arg.Modified != nil && arg.Modified.ReplacedType != nil, ""
		if replaced {
			replacement = typeKey(et)
		}
		key := fmt.Sprintf("%v|%s", replaced, typeKey(et))

		child, exists := byKey[key]
		if !exists {
			child = newNode(pos)
			child.ArgType = et
			child.ArgTypeReplaced = replaced
			child.ReplacementText = replacement
			byKey[key] = child
			order = append(order, key)
		}
		child.Overloads = append(child.Overloads, f)
	}

	for _, key := range order {
		n.Children = append(n.Children, byKey[key])
	}
	for _, c := range n.Children {
		insert(c, c.Overloads)
	}
}

// typeKey produces a stable string identity for trie-matching an
// argument position's effective type: same TypeEntry, same
// indirection/reference shape, same instantiations recursively. It is
// deliberately coarser than internal/names' mangled names (no need for
// C++-legal characters here, just a comparable key).
func typeKey(t *model.AbstractType) string {
	if t == nil {
		return "void"
	}
	s := fmt.Sprintf("%s*%d&%v", t.Entry.QualifiedCppName, t.Indirections, t.IsReference)
	for _, inst := range t.Instantiations {
		s += "<" + typeKey(inst) + ">"
	}
	return s
}

// sortSubtree recursively orders every node's Children per §4.4 and
// reports false (propagated from a failed TopologicalSort) if any level
// contains a cycle.
func sortSubtree(n *Node) bool {
	ok := true
	if len(n.Children) > 1 {
		n.Children, ok = sortSiblings(n.Children)
	}
	for _, c := range n.Children {
		if !sortSubtree(c) {
			ok = false
		}
	}
	return ok
}

// isSequenceLike, isBufferLike and isCatchAllObject recognise the
// well-known type names the §4.4 rule table singles out by name.
func isSequenceLike(t *model.AbstractType) bool {
	return t != nil && t.Entry != nil && (t.Entry.QualifiedCppName == "PySequence" || t.Entry.Kind == model.KindContainer)
}

func isBufferLike(t *model.AbstractType) bool {
	return t != nil && t.Entry != nil && t.Entry.QualifiedCppName == "PyBuffer"
}

func isCatchAllObject(t *model.AbstractType) bool {
	return t != nil && t.Entry != nil && t.Entry.QualifiedCppName == "PyObject"
}
