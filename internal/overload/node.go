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

// Package overload is the §4.4 Overload Resolver: the heart of the
// generator. It builds an argument-position trie from a set of
// overloaded functions and topologically sorts siblings at every node
// so the emitted dispatcher's type tests run in a correct,
// deterministic, most-specific-first order.
//
// Grounded on the teacher's gapil/resolver package, which already
// walks a signature's arguments position by position deciding
// assignability/castability (rules.go) to pick one overload during
// *its* own (unrelated) generic-function resolution; the trie-building
// and sibling-ordering shape here is new (the teacher has no Python
// dispatcher to emit), built the way gapil/resolver's own pure,
// recursive-descent functions are: small total functions over
// internal/model, with internal/graph doing the actual topological
// sort (Design Notes §9: ordering is computed once, not re-derived
// per call).
package overload

import "github.com/shiboken-go/shiboken/internal/model"

// Node is one vertex of the overload trie (§3 OverloadNode).
type Node struct {
	ArgPosition     int // root == -1
	ArgType         *model.AbstractType
	ArgTypeReplaced bool
	ReplacementText string // non-"" iff ArgTypeReplaced; used for the "textually equal" match rule

	Overloads []*model.FunctionEntity // still viable at this node
	Children  []*Node                 // sorted per §4.4's topological discipline

	// FinalOccurrence records, for every overload whose last
	// (non-removed) argument is at this node's position, that it is a
	// candidate for dispatch here.
	FinalOccurrence map[*model.FunctionEntity]bool

	// DefaultDispatch records overloads for which the number of
	// arguments consumed to reach this node (its position + 1) is >= the
	// function's smallest defaulted-argument position: a
	// candidate for "this many args supplied, fill the rest with
	// defaults" dispatch (§4.4 rule 3).
	DefaultDispatch map[*model.FunctionEntity]bool

	// Root-only.
	MinArgs, MaxArgs int
}

func newNode(pos int) *Node {
	return &Node{
		ArgPosition:     pos,
		FinalOccurrence: map[*model.FunctionEntity]bool{},
		DefaultDispatch: map[*model.FunctionEntity]bool{},
	}
}
