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

// Package typeclass is the §4.2 Type Classifier: it derives, for any
// model.AbstractType, the disjoint Category every other component
// branches on. The teacher dispatches on type category with a virtual
// method (semantic.Type.isType() plus type switches in
// gapil/resolver/rules.go's isNumber/isInteger/castable helpers); per
// Design Notes §9 ("category dispatch by virtual method... replace
// with a sum-typed TypeCategory"), Category here is a plain enum
// produced by one exhaustive, pure Classify function.
package typeclass

import "github.com/shiboken-go/shiboken/internal/model"

// Category is the exhaustive, disjoint classification of an AbstractType.
type Category int

const (
	CString Category = iota
	VoidPointer
	CppPrimitive
	UserPrimitive
	Enum
	Flags
	WrapperValue
	WrapperObject
	PointerToWrapper
	Container
	Custom
)

func (c Category) String() string {
	switch c {
	case CString:
		return "CString"
	case VoidPointer:
		return "VoidPointer"
	case CppPrimitive:
		return "CppPrimitive"
	case UserPrimitive:
		return "UserPrimitive"
	case Enum:
		return "Enum"
	case Flags:
		return "Flags"
	case WrapperValue:
		return "WrapperValue"
	case WrapperObject:
		return "WrapperObject"
	case PointerToWrapper:
		return "PointerToWrapper"
	case Container:
		return "Container"
	case Custom:
		return "Custom"
	}
	return "Unknown"
}

// cppBuiltinNames is the set of names classified CppPrimitive outright
// (built-in numerics, bool, and std::string by the §4.2 rule).
var cppBuiltinNames = map[string]bool{
	"bool": true, "char": true, "signed char": true, "unsigned char": true,
	"short": true, "unsigned short": true, "int": true, "unsigned int": true,
	"long": true, "unsigned long": true, "long long": true, "unsigned long long": true,
	"float": true, "double": true, "std::string": true, "std::wstring": true,
}

// Classify derives t's Category, the single dispatch point every later
// component (converter, overload, wrapper, class, module) uses.
func Classify(t *model.AbstractType) Category {
	if t == nil || t.Entry == nil {
		return VoidPointer
	}
	e := t.Entry

	if t.Indirections == 1 && e.IsVoidPointer {
		return VoidPointer
	}
	if t.Indirections == 1 && e.IsCString {
		return CString
	}

	switch e.Kind {
	case model.KindEnum:
		return Enum
	case model.KindFlags:
		return Flags
	case model.KindContainer:
		return Container
	case model.KindCustom:
		return Custom
	case model.KindPrimitive:
		if e.IsCppBuiltin || cppBuiltinNames[e.QualifiedCppName] {
			return CppPrimitive
		}
		return UserPrimitive
	case model.KindComplex:
		if IsPointerToWrapperType(t) {
			return PointerToWrapper
		}
		if e.IsValueType {
			return WrapperValue
		}
		return WrapperObject
	}
	return Custom
}

// IsWrapperType reports whether t's category stands for a C++ class
// binding (value or object, by pointer or not).
func IsWrapperType(t *model.AbstractType) bool {
	switch Classify(t) {
	case WrapperValue, WrapperObject, PointerToWrapper:
		return true
	}
	return false
}

// IsPointerToWrapperType reports whether t is an object used through
// indirection 1, or an explicit value-pointer (§4.2).
func IsPointerToWrapperType(t *model.AbstractType) bool {
	if t == nil || t.Entry == nil || t.Entry.Kind != model.KindComplex {
		return false
	}
	if t.Entry.IsObjectType && t.Indirections == 1 {
		return true
	}
	if t.Entry.IsValueType && t.Indirections == 1 {
		return true
	}
	return false
}

// IsObjectTypeUsedAsValue reports whether an object type is used by
// value in a signature position (no indirection, no reference) — a
// configuration the wrapper emitter must reject or special-case, since
// object types have no accessible copy constructor by convention.
func IsObjectTypeUsedAsValue(t *model.AbstractType) bool {
	return t != nil && t.Entry != nil && t.Entry.Kind == model.KindComplex &&
		t.Entry.IsObjectType && t.Indirections == 0 && !t.IsReference
}

// IsValueTypeWithCopyConstructorOnly reports a value type whose only
// way to materialise a temporary is its copy constructor (no default
// constructor), the case the container-converter snippet rewrite
// (§4.3 Container rule) targets.
func IsValueTypeWithCopyConstructorOnly(t *model.AbstractType) bool {
	if t == nil || t.Entry == nil || t.Entry.Kind != model.KindComplex || !t.Entry.IsValueType {
		return false
	}
	c := t.Entry.Class
	if c == nil {
		return t.Entry.DefaultConstructor == ""
	}
	hasDefault, hasCopy := false, false
	for _, f := range c.Functions {
		if !f.IsConstructor {
			continue
		}
		switch len(f.NonRemovedArgs()) {
		case 0:
			hasDefault = true
		case 1:
			if f.IsCopyConstructor {
				hasCopy = true
			}
		}
	}
	return hasCopy && !hasDefault
}

// cppIntegralNames are the C++ integral primitive names used by
// IsCppIntegralPrimitive and by the overload sibling-sort rules (§4.4).
var cppIntegralNames = map[string]bool{
	"int": true, "unsigned int": true, "short": true, "unsigned short": true,
	"long": true, "unsigned long": true, "long long": true, "unsigned long long": true,
	"char": true, "signed char": true, "unsigned char": true, "bool": true,
}

// IsCppIntegralPrimitive reports whether t is one of the C++ integral
// primitive types (including bool and char), mirroring the teacher's
// resolver.isInteger.
func IsCppIntegralPrimitive(t *model.AbstractType) bool {
	if Classify(t) != CppPrimitive {
		return false
	}
	return cppIntegralNames[t.Entry.QualifiedCppName]
}

// IsNumber reports whether t is any numeric primitive (integral or
// floating point), mirroring the teacher's resolver.isNumber.
func IsNumber(t *model.AbstractType) bool {
	if Classify(t) != CppPrimitive {
		return false
	}
	if t.Entry.QualifiedCppName == "float" || t.Entry.QualifiedCppName == "double" {
		return true
	}
	return cppIntegralNames[t.Entry.QualifiedCppName] && t.Entry.QualifiedCppName != "bool"
}

// IsPyInt reports whether t converts from Python's int type (any
// integral primitive or an enum, which Python exposes as IntEnum-like).
func IsPyInt(t *model.AbstractType) bool {
	return IsCppIntegralPrimitive(t) || Classify(t) == Enum
}

// ShouldDereferenceWhenPassing reports whether the C++ call expects a
// reference-to-wrapper and the conversion machinery yields a pointer,
// so the call site must dereference the converted value (§4.2).
func ShouldDereferenceWhenPassing(t *model.AbstractType) bool {
	if t == nil {
		return false
	}
	return t.IsReference && IsWrapperType(t) && Classify(t) != PointerToWrapper
}

// ResolveAlias walks a BasicAliasedEntry chain to the underlying
// primitive TypeEntry the type-system says t is an alias of, stopping
// at the first entry with no further alias (§1: "it does not resolve
// typedefs itself... walking a chain the model already provides").
func ResolveAlias(t *model.TypeEntry) *model.TypeEntry {
	seen := map[*model.TypeEntry]bool{}
	cur := t
	for cur != nil && cur.BasicAliasedEntry != nil && !seen[cur] {
		seen[cur] = true
		cur = cur.BasicAliasedEntry
	}
	return cur
}
