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

package graph

import (
	"fmt"
	"sort"
	"strings"
)

// DumpDOT renders nodes as Graphviz DOT text, labelling each node with
// labels[id] when present. Used by §7's CycleError handling, which
// requires "a textual graph dump emitted for debugging" — mirrors the
// teacher's own convention (gapil/resolver, gapil/analysis) of writing
// a textual dump of an intermediate structure when a -verbose run
// hits something worth inspecting by hand.
func DumpDOT(nodes []Node, labels map[int]string) string {
	var b strings.Builder
	b.WriteString("digraph order {\n")
	ids := make([]int, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	sort.Ints(ids)
	for _, id := range ids {
		label := labels[id]
		if label == "" {
			label = fmt.Sprintf("%d", id)
		}
		fmt.Fprintf(&b, "  n%d [label=%q];\n", id, label)
	}
	for _, n := range nodes {
		deps := append([]int(nil), n.DependsOn...)
		sort.Ints(deps)
		for _, dep := range deps {
			fmt.Fprintf(&b, "  n%d -> n%d;\n", dep, n.ID)
		}
	}
	b.WriteString("}\n")
	return b.String()
}
