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

// Package model holds the §3 data model: the read-only ApiModel and
// TypeSystem the core consumes, addressed through an arena-and-index
// Store rather than the teacher's pointer-chased semantic graph (see
// DESIGN.md, Design Notes §9).
package model

// Copyable is the tri-state copy-constructibility of a Complex type.
type Copyable int

const (
	CopyableUnknown Copyable = iota
	CopyableSet
	NonCopyableSet
)

// ContainerKind enumerates the container shapes §3 names.
type ContainerKind int

const (
	List ContainerKind = iota
	StringList
	LinkedList
	Vector
	Stack
	Queue
	Set
	Pair
	Map
	MultiMap
	Hash
	MultiHash
)

func (k ContainerKind) String() string {
	return [...]string{"List", "StringList", "LinkedList", "Vector", "Stack", "Queue", "Set", "Pair", "Map", "MultiMap", "Hash", "MultiHash"}[k]
}

// IsMapLike reports whether the container carries key/value
// instantiations rather than a flat element list.
func (k ContainerKind) IsMapLike() bool {
	switch k {
	case Map, MultiMap, Hash, MultiHash, Pair:
		return true
	}
	return false
}

// TypeEntryKind tags which TypeEntry variant is populated.
type TypeEntryKind int

const (
	KindPrimitive TypeEntryKind = iota
	KindEnum
	KindFlags
	KindComplex
	KindContainer
	KindCustom
)

// TypeEntry is the type-system description of a named type (§3).
// Only the fields relevant to the entry's Kind are populated; callers
// must branch on Kind (see internal/typeclass) rather than guessing
// from field presence.
type TypeEntry struct {
	Kind TypeEntryKind

	// Common to every kind.
	QualifiedCppName string // C++ qualified name
	TargetName       string // package/target-language name
	CodeGeneration   bool   // whether wrappers are emitted for it
	Include          string
	ExtraIncludes    []string
	CustomConversion *CustomConversion

	// Primitive.
	BasicAliasedEntry *TypeEntry // non-nil iff this is a user-primitive alias
	DefaultConstructor string
	IsCppBuiltin       bool
	IsCString          bool // e.g. `char*` style primitive
	IsVoidPointer      bool

	// Enum.
	EnumValues  []EnumValue
	FlagsEntry  *TypeEntry // companion Flags entry, if any

	// Flags.
	OriginatorEnum *TypeEntry

	// Complex (class/namespace).
	Class              *ClassEntity
	IsObjectType       bool
	IsValueType        bool
	BaseContainerType  *TypeEntry // non-nil iff this is a typedef of a container instantiation
	PolymorphicIDValue string
	HashFunction       string
	CodeSnips          []CodeSnip
	DocModifications   []string

	// Container. Instantiations holds this container TypeEntry's own
	// element/key-value type arguments (e.g. the [int] of list<int>),
	// one TypeEntry per instantiated container, per §3.
	ContainerKind   ContainerKind
	Instantiations  []*TypeEntry
}

// EnumValue is one enumerator.
type EnumValue struct {
	Name     string
	Value    int64
	Rejected bool
}

// AbstractType is a use of a type in a signature (§3).
type AbstractType struct {
	Entry                *TypeEntry
	Indirections         int // pointer depth
	IsReference          bool
	IsConstant           bool
	Instantiations       []*AbstractType // template arguments, ordered
	ArrayElementType     *AbstractType
	OriginalTemplateType *AbstractType
}

// IsPointer reports whether the use has at least one level of indirection.
func (t *AbstractType) IsPointer() bool { return t.Indirections > 0 }

// CustomConversion is a user-defined bidirectional conversion (§3).
type CustomConversion struct {
	NativeToTargetSnippet                string
	TargetToNative                       []TargetToNativeEntry
	ReplaceOriginalTargetToNativeConvert bool
}

// TargetToNativeEntry is one "Python value -> C++ value" conversion
// path registered by a CustomConversion.
type TargetToNativeEntry struct {
	CheckedPyType string     // named Python type check, or ""
	Source        *TypeEntry // source TypeEntry, or nil
	Snippet       string
}

// SnippetPosition is where an injected code snippet is emitted.
type SnippetPosition int

const (
	Beginning SnippetPosition = iota
	Middle
	End
	Declaration
	Any
)

// SnippetLanguage is which generated-code language a snippet targets.
type SnippetLanguage int

const (
	Target SnippetLanguage = iota // Python-facing wrapper code
	Native                        // C++-only code
	All
)

// CodeSnip is one user-provided injected code fragment.
type CodeSnip struct {
	Position SnippetPosition
	Language SnippetLanguage
	Text     string
}
