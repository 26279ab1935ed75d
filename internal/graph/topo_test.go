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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologicalSortOrdersDependenciesFirst(t *testing.T) {
	// 0 depends on nothing, 1 depends on 0, 2 depends on 1.
	nodes := []Node{
		{ID: 2, DependsOn: []int{1}},
		{ID: 0},
		{ID: 1, DependsOn: []int{0}},
	}
	order, ok := TopologicalSort(nodes)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestTopologicalSortIsStableOnTies(t *testing.T) {
	nodes := []Node{{ID: 3}, {ID: 1}, {ID: 2}}
	order, ok := TopologicalSort(nodes)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestTopologicalSortReportsCycle(t *testing.T) {
	nodes := []Node{
		{ID: 0, DependsOn: []int{1}},
		{ID: 1, DependsOn: []int{0}},
	}
	order, ok := TopologicalSort(nodes)
	assert.False(t, ok)
	assert.ElementsMatch(t, []int{0, 1}, order)
}

func TestDumpDOTIncludesLabelsAndEdges(t *testing.T) {
	nodes := []Node{
		{ID: 0},
		{ID: 1, DependsOn: []int{0}},
	}
	dot := DumpDOT(nodes, map[int]string{0: "Base", 1: "Derived"})
	assert.True(t, strings.Contains(dot, `"Base"`))
	assert.True(t, strings.Contains(dot, `"Derived"`))
	assert.True(t, strings.Contains(dot, "n0 -> n1"))
}
