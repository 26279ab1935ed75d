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

// ClassEntity is a C++ class or namespace (§3).
type ClassEntity struct {
	QualifiedName string
	Enclosing     *ClassEntity // nil if a top-level entity
	Package       string

	IsNamespace          bool
	IsObjectType         bool
	IsValueType          bool
	IsPolymorphic        bool
	HasVirtualDestructor bool
	HasPrivateDestructor bool
	HasProtectedDestructor bool
	HasProtectedFields   bool
	HasProtectedFunctions bool
	IsQObject            bool // external-framework marker

	BaseClasses []*ClassEntity // zero or more

	Functions   []*FunctionEntity
	Fields      []*Field
	Enums       []*TypeEntry // Kind == KindEnum
	InnerClasses []*ClassEntity

	TypeEntry *TypeEntry // this class's own TypeSystem description
}

// Field is a C++ data member exposed as a Python attribute.
type Field struct {
	Name      string
	Type      *AbstractType
	Protected bool
}

// OwnershipAction is the §4.5 ownership-transfer verb.
type OwnershipAction int

const (
	OwnershipNone OwnershipAction = iota
	OwnershipTransferToTarget    // C++ -> Python
	OwnershipTransferToNative    // Python -> C++ ("release from Python")
	OwnershipInvalidate
)

// RefCountAction is the §4.5 reference-count bookkeeping verb.
type RefCountAction int

const (
	RefCountNone RefCountAction = iota
	RefCountAdd
	RefCountSet
	RefCountRemove
)

// ArgModification is a per-argument modification from the type-system (§3).
type ArgModification struct {
	Removed            bool
	ReplacedType       *AbstractType // non-nil if the type was replaced
	DefaultValueExpr   string        // non-nil (non-empty) if replaced
	OwnershipTarget    OwnershipAction
	OwnershipNative    OwnershipAction
	RefCount           RefCountAction
	RefCountKey        string // argument name the reference is keyed by
}

// Argument is one ordered parameter of a FunctionEntity.
type Argument struct {
	Index         int
	Name          string
	Type          *AbstractType
	DefaultValue  string // original C++ default-value expression, or ""
	Modified      *ArgModification
}

// HasDefault reports whether the (possibly modified) argument carries
// a default-value expression.
func (a *Argument) HasDefault() bool {
	if a.Modified != nil && a.Modified.DefaultValueExpr != "" {
		return true
	}
	return a.DefaultValue != ""
}

// IsRemoved reports whether the argument was removed by the type-system.
func (a *Argument) IsRemoved() bool {
	return a.Modified != nil && a.Modified.Removed
}

// EffectiveType returns the argument's type after type-system replacement.
func (a *Argument) EffectiveType() *AbstractType {
	if a.Modified != nil && a.Modified.ReplacedType != nil {
		return a.Modified.ReplacedType
	}
	return a.Type
}

// ConversionRule is a bespoke conversion snippet that replaces the
// default converter call for one argument or the return value.
type ConversionRule struct {
	Language SnippetLanguage
	ArgIndex int // -1 for the return value
	Snippet  string
}

// FunctionEntity is a method, constructor, operator or free function (§3).
type FunctionEntity struct {
	OriginalName string
	Signature    string // minimal signature, stable identity
	Arity        int

	OwnerClass       *ClassEntity
	ImplementingClass *ClassEntity
	DeclaringClass   *ClassEntity

	Arguments  []*Argument
	ReturnType *AbstractType // nil == void
	ReturnModified *ArgModification

	IsConstructor        bool
	IsCopyConstructor    bool
	IsStatic             bool
	IsVirtual            bool
	IsAbstract           bool
	IsProtected          bool
	IsSignal             bool
	IsSlot               bool
	IsOperatorOverload   bool
	IsReverseOperator    bool
	IsComparisonOperator bool
	IsUnaryOperator      bool
	IsBinaryOperator     bool
	IsCallOperator       bool
	IsCastOperator       bool
	IsConversionOperator bool
	IsInplaceOperator    bool
	IsConstant           bool
	IsDeprecated         bool
	IsUserAdded          bool
	IsModifiedRemoved    bool
	HasInjectedCode      bool
	IsExplicit           bool

	ConversionRules    []ConversionRule
	InjectedCodeSnips  []CodeSnip

	// OperatorKind, when IsOperatorOverload, names the C++ operator
	// token (e.g. "+", "*", "==", "()"), used by internal/wrapper and
	// internal/class to pick the CPython slot.
	OperatorKind string
}

// ConversionRuleFor looks up a bespoke conversion snippet for argIndex (or
// -1 for the return value) in the given language, or returns
// (ConversionRule{}, false).
func (f *FunctionEntity) ConversionRuleFor(lang SnippetLanguage, argIndex int) (ConversionRule, bool) {
	for _, r := range f.ConversionRules {
		if r.ArgIndex == argIndex && (r.Language == lang || r.Language == All) {
			return r, true
		}
	}
	return ConversionRule{}, false
}

// NonRemovedArgs returns the arguments in order, skipping removed ones.
func (f *FunctionEntity) NonRemovedArgs() []*Argument {
	out := make([]*Argument, 0, len(f.Arguments))
	for _, a := range f.Arguments {
		if !a.IsRemoved() {
			out = append(out, a)
		}
	}
	return out
}

// MinMaxArgs returns the minimum (before the first defaulted,
// non-removed argument) and maximum (total non-removed) argument
// counts, per the §3 root-node invariant.
func (f *FunctionEntity) MinMaxArgs() (min, max int) {
	nonRemoved := f.NonRemovedArgs()
	max = len(nonRemoved)
	min = max
	for i, a := range nonRemoved {
		if a.HasDefault() {
			min = i
			break
		}
	}
	return min, max
}
