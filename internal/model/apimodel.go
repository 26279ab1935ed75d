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

// ApiModel is the parsed C++ API (§3, §6). It is handed to the core
// read-only; the core never mutates it. Construction (parsing C++
// headers) is explicitly out of scope (§1) — production callers get
// an ApiModel from the external parser, tests and cmd/shibokengen get
// one from a hand-built Store (see store.go).
type ApiModel interface {
	Classes() []*ClassEntity
	GlobalFunctions() []*FunctionEntity
	GlobalEnums() []*TypeEntry
	PrimitiveTypes() []*TypeEntry
	ContainerTypes() []*TypeEntry
	AllInstantiatedContainers() []*AbstractType
	FindClass(qualifiedName string) (*ClassEntity, bool)
	ClassesTopologicalSorted() []*ClassEntity
}

// TypeSystem is the type-system (.xml) description (§3, §6). Parsing
// it is out of scope; the core only queries it.
type TypeSystem interface {
	FindType(name string) (*TypeEntry, bool)
	RequiredTargetImports() []string
	PrimitiveTypes() []*TypeEntry
}

// Options are the §6 generator configuration flags.
type Options struct {
	AvoidProtectedHack         bool
	EnableParentCtorHeuristic  bool
	EnableReturnValueHeuristic bool
	EnablePySideExtensions     bool
	DisableVerboseErrorMessages bool
	UseIsNullAsNbNonzero       bool
	LicenseFile                string
}
