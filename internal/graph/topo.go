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

// Package graph implements the stable topological sort shared by the
// Overload Resolver's sibling ordering (§4.4) and the Module
// Assembler's class registration ordering (§4.7). No example repo or
// dependency in the corpus exposes a reusable directed-graph
// topological sort, so this one package is deliberately built on the
// standard library alone (see DESIGN.md).
package graph

import "sort"

// Node is one vertex. DependsOn lists the IDs of nodes that must
// appear before this one in the returned order (an edge A -> B in the
// spec's "A must be tested/registered before B" sense is expressed
// here as B.DependsOn including A).
type Node struct {
	ID        int
	DependsOn []int
}

// TopologicalSort returns nodes in dependency order: every node
// appears after everything it DependsOn. Ties are broken by ID
// ascending, so the result is stable across runs given identical
// input (§8 index-stability, §4.4 "stable w.r.t. insertion order").
//
// If the graph contains a cycle, the cyclic nodes are appended in ID
// order after everything that could be ordered, and ok is false; the
// caller (internal/diag) is expected to report a CycleError and a
// debug graph dump rather than fail the whole run (§7).
func TopologicalSort(nodes []Node) (order []int, ok bool) {
	byID := make(map[int]Node, len(nodes))
	indegree := make(map[int]int, len(nodes))
	dependents := make(map[int][]int, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
		if _, exists := indegree[n.ID]; !exists {
			indegree[n.ID] = 0
		}
	}
	for _, n := range nodes {
		for _, dep := range n.DependsOn {
			indegree[n.ID]++
			dependents[dep] = append(dependents[dep], n.ID)
		}
	}

	ready := make([]int, 0, len(nodes))
	for _, n := range nodes {
		if indegree[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}
	sort.Ints(ready)

	visited := make(map[int]bool, len(nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		order = append(order, id)

		next := append([]int(nil), dependents[id]...)
		sort.Ints(next)
		for _, dep := range next {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = insertSorted(ready, dep)
			}
		}
	}

	if len(order) == len(nodes) {
		return order, true
	}

	// Cycle: append whatever is left, in ID order, for a deterministic
	// (if arbitrary) tie-break, per §7 CycleError handling.
	var remaining []int
	for _, n := range nodes {
		if !visited[n.ID] {
			remaining = append(remaining, n.ID)
		}
	}
	sort.Ints(remaining)
	order = append(order, remaining...)
	return order, false
}

func insertSorted(s []int, v int) []int {
	i := sort.SearchInts(s, v)
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
