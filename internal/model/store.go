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

package model

import (
	"fmt"

	"github.com/shiboken-go/shiboken/internal/graph"
)

// Store is an in-memory ApiModel: an arena-and-index model (Design
// Notes §9) replacing the teacher's pointer-chased semantic graph.
// Every entity lives in one of the typed slices below; cross-
// references between components go through the *ClassEntity /
// *FunctionEntity / *TypeEntry pointers themselves (stable for the
// lifetime of one generator run, per §3's single-run lifecycle). The
// index names used in generated code (SBK_<T>_IDX) come from
// internal/names; Store itself assigns no numeric indices.
//
// Store is a test/harness fixture builder, not a C++ parser: building
// one by hand is how cmd/shibokengen and the test suites provide an
// ApiModel without depending on the (out-of-scope) external parser.
type Store struct {
	classes    []*ClassEntity
	globalFns  []*FunctionEntity
	globalEnums []*TypeEntry
	primitives []*TypeEntry
	containers []*TypeEntry

	byName map[string]*ClassEntity
	sorted []*ClassEntity // topological order, computed lazily
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{byName: map[string]*ClassEntity{}}
}

// AddClass registers c. Panics if a class with the same qualified name
// already exists — the arena is append-only and names must be unique.
func (s *Store) AddClass(c *ClassEntity) {
	if _, exists := s.byName[c.QualifiedName]; exists {
		panic(fmt.Sprintf("model.Store: duplicate class %q", c.QualifiedName))
	}
	s.classes = append(s.classes, c)
	s.byName[c.QualifiedName] = c
	s.sorted = nil
}

func (s *Store) AddGlobalFunction(f *FunctionEntity) { s.globalFns = append(s.globalFns, f) }
func (s *Store) AddGlobalEnum(e *TypeEntry)          { s.globalEnums = append(s.globalEnums, e) }
func (s *Store) AddPrimitive(t *TypeEntry)           { s.primitives = append(s.primitives, t) }
func (s *Store) AddContainer(t *TypeEntry)           { s.containers = append(s.containers, t) }

func (s *Store) Classes() []*ClassEntity             { return s.classes }
func (s *Store) GlobalFunctions() []*FunctionEntity  { return s.globalFns }
func (s *Store) GlobalEnums() []*TypeEntry           { return s.globalEnums }
func (s *Store) PrimitiveTypes() []*TypeEntry        { return s.primitives }
func (s *Store) ContainerTypes() []*TypeEntry        { return s.containers }

func (s *Store) FindClass(name string) (*ClassEntity, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// AllInstantiatedContainers walks every function signature (arguments,
// return types, and recursively their instantiations) reachable from
// classes and global functions and returns the set of container uses
// found, each kind+instantiation combination once. Derived, per §3.
func (s *Store) AllInstantiatedContainers() []*AbstractType {
	seen := map[string]bool{}
	var out []*AbstractType
	visitType := func(t *AbstractType) {}
	var walk func(t *AbstractType)
	walk = func(t *AbstractType) {
		if t == nil || t.Entry == nil {
			return
		}
		if t.Entry.Kind == KindContainer {
			key := containerInstantiationKey(t)
			if !seen[key] {
				seen[key] = true
				out = append(out, t)
			}
		}
		for _, inst := range t.Instantiations {
			walk(inst)
		}
	}
	visitFn := func(f *FunctionEntity) {
		for _, a := range f.Arguments {
			walk(a.Type)
		}
		walk(f.ReturnType)
	}
	for _, c := range s.classes {
		for _, f := range c.Functions {
			visitFn(f)
		}
	}
	for _, f := range s.globalFns {
		visitFn(f)
	}
	_ = visitType
	return out
}

func containerInstantiationKey(t *AbstractType) string {
	key := t.Entry.QualifiedCppName
	for _, inst := range t.Instantiations {
		if inst.Entry != nil {
			key += "<" + inst.Entry.QualifiedCppName + ">"
		}
	}
	return key
}

// ClassesTopologicalSorted returns every class in base-before-derived
// order (§3 invariant), computed once via internal/graph and memoised.
// Ties (siblings with no dependency between them) keep their
// insertion order, so the result is stable across runs with the same
// input — the §8 index-stability property depends on this.
func (s *Store) ClassesTopologicalSorted() []*ClassEntity {
	if s.sorted != nil {
		return s.sorted
	}
	nodes := make([]graph.Node, len(s.classes))
	index := make(map[*ClassEntity]int, len(s.classes))
	for i, c := range s.classes {
		index[c] = i
	}
	for i, c := range s.classes {
		var deps []int
		for _, b := range c.BaseClasses {
			if bi, ok := index[b]; ok {
				deps = append(deps, bi)
			}
		}
		nodes[i] = graph.Node{ID: i, DependsOn: deps}
	}
	order, _ := graph.TopologicalSort(nodes)
	out := make([]*ClassEntity, len(order))
	for i, idx := range order {
		out[i] = s.classes[idx]
	}
	s.sorted = out
	return out
}

var _ ApiModel = (*Store)(nil)

// MapTypeSystem is a minimal in-memory TypeSystem, built the same way
// Store is: a harness fixture, not an XML parser.
type MapTypeSystem struct {
	types           map[string]*TypeEntry
	requiredImports []string
	primitives      []*TypeEntry
}

// NewMapTypeSystem returns an empty MapTypeSystem.
func NewMapTypeSystem() *MapTypeSystem {
	return &MapTypeSystem{types: map[string]*TypeEntry{}}
}

func (m *MapTypeSystem) AddType(t *TypeEntry) {
	m.types[t.QualifiedCppName] = t
	if t.Kind == KindPrimitive {
		m.primitives = append(m.primitives, t)
	}
}

func (m *MapTypeSystem) RequireImport(pkg string) { m.requiredImports = append(m.requiredImports, pkg) }

func (m *MapTypeSystem) FindType(name string) (*TypeEntry, bool) {
	t, ok := m.types[name]
	return t, ok
}

func (m *MapTypeSystem) RequiredTargetImports() []string { return m.requiredImports }
func (m *MapTypeSystem) PrimitiveTypes() []*TypeEntry     { return m.primitives }

var _ TypeSystem = (*MapTypeSystem)(nil)
