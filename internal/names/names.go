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

// Package names is the §4.1 Name & Identifier Service: the single
// source of truth for every generated identifier. Every function here
// is pure and total, matching the teacher's gapil/compiler/mangling
// packages, which are themselves a small scoped name-mangling system
// (Itanium ABI in ia64/, a simplified flat scheme in c/) built from a
// handful of pure recursive functions over a Scope/Named/Templated
// entity interface. shiboken's mangling rules are bespoke (Python
// wrapper/converter names, not a C++ ABI), so the entity model is
// replaced by internal/model's ClassEntity/TypeEntry/AbstractType, but
// the "small pure mangler over a scope chain" shape is kept.
package names

import (
	"fmt"
	"strings"

	"github.com/shiboken-go/shiboken/internal/model"
)

// PyTypeName returns the `Sbk_<Name>` Python type-object name for c.
func PyTypeName(c *model.ClassEntity) string {
	return "Sbk_" + flattenedClassName(c)
}

// CppWrapperName returns the `<Name>Wrapper` native subclass name for
// c, with inner classes flattened with `_`.
func CppWrapperName(c *model.ClassEntity) string {
	return flattenedClassName(c) + "Wrapper"
}

// flattenedClassName joins a class and its enclosing scopes with `_`.
func flattenedClassName(c *model.ClassEntity) string {
	var parts []string
	for cur := c; cur != nil; cur = cur.Enclosing {
		parts = append([]string{sanitize(localName(cur.QualifiedName))}, parts...)
	}
	return strings.Join(parts, "_")
}

func localName(qualified string) string {
	if i := strings.LastIndex(qualified, "::"); i >= 0 {
		return qualified[i+2:]
	}
	return qualified
}

// PyCheckFn returns the name of the emitted "check" C function for t.
func PyCheckFn(t *model.AbstractType) string {
	return "Sbk_" + FixedTypeName(t) + "_Check"
}

// PyToCppFn returns `<src>_PythonToCpp_<dst>`.
func PyToCppFn(src, dst *model.TypeEntry) string {
	return fmt.Sprintf("%s_PythonToCpp_%s", fixedTypeEntryName(src), fixedTypeEntryName(dst))
}

// CppToPyFn returns `<src>_CppToPython_<dst>`.
func CppToPyFn(src, dst *model.TypeEntry) string {
	return fmt.Sprintf("%s_CppToPython_%s", fixedTypeEntryName(src), fixedTypeEntryName(dst))
}

// IsConvertibleFn returns `is_<src>_PythonToCpp_<dst>_Convertible`.
func IsConvertibleFn(src, dst *model.TypeEntry) string {
	return fmt.Sprintf("is_%s_PythonToCpp_%s_Convertible", fixedTypeEntryName(src), fixedTypeEntryName(dst))
}

// TypeIndexVar returns `SBK_<FIXED>_IDX` for entity (a TypeEntry or an
// instantiated container AbstractType).
func TypeIndexVar(entity interface{}) string {
	return "SBK_" + fixedNameOf(entity) + "_IDX"
}

// ConverterIndexVar returns the index-into-the-module's-converter-
// array variable name for t.
func ConverterIndexVar(t *model.TypeEntry) string {
	return "SBK_CONVERTER_" + fixedTypeEntryName(t) + "_IDX"
}

// FixedTypeName implements the §4.1 mangling rule table for an
// AbstractType: space removed, `,` and `::` and `<`/`>` become `_`,
// `*` becomes PTR, `&` becomes REF. No package prefix is added here;
// ForeignPrefixed adds one for types from another module.
func FixedTypeName(t *model.AbstractType) string {
	if t == nil || t.Entry == nil {
		return "Void"
	}
	base := fixedTypeEntryName(t.Entry)
	if len(t.Instantiations) > 0 {
		parts := make([]string, len(t.Instantiations))
		for i, inst := range t.Instantiations {
			parts[i] = FixedTypeName(inst)
		}
		base += "_" + strings.Join(parts, "_")
	}
	for i := 0; i < t.Indirections; i++ {
		base += "PTR"
	}
	if t.IsReference {
		base += "REF"
	}
	return base
}

func fixedTypeEntryName(t *model.TypeEntry) string {
	if t == nil {
		return "Void"
	}
	name := t.QualifiedCppName
	if name == "" {
		name = t.TargetName
	}
	return sanitize(mangleScopedName(name))
}

func fixedNameOf(entity interface{}) string {
	switch v := entity.(type) {
	case *model.TypeEntry:
		return fixedTypeEntryName(v)
	case *model.AbstractType:
		return FixedTypeName(v)
	case *model.ClassEntity:
		return fixedNameOfClass(v)
	default:
		return "Unknown"
	}
}

func fixedNameOfClass(c *model.ClassEntity) string {
	return sanitize(mangleScopedName(c.QualifiedName))
}

// mangleScopedName applies the §4.1 rule: spaces removed, `,`/`::`/`<`/`>`
// become `_`, `*` -> PTR, `&` -> REF.
func mangleScopedName(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == ' ':
			// dropped
		case c == ',':
			b.WriteByte('_')
		case c == ':':
			b.WriteByte('_')
			if i+1 < len(s) && s[i+1] == ':' {
				i++
			}
		case c == '<' || c == '>':
			b.WriteByte('_')
		case c == '*':
			b.WriteString("PTR")
		case c == '&':
			b.WriteString("REF")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// sanitize guarantees ASCII, leading-letter, [A-Za-z0-9_]-only output
// (§4.1 "Rules").
func sanitize(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if out[0] >= '0' && out[0] <= '9' {
		return "_" + out
	}
	return out
}

// ForeignPrefixed prefixes name with the originating module's package
// name for cross-module types, per §4.1's collision-avoidance rule.
func ForeignPrefixed(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return sanitize(pkg) + "_" + name
}

// WrapperFileBase returns the base file name (without extension) for a
// class's generated wrapper translation unit: `<qualified>_wrapper`,
// lower-cased with `::` written as `_`, matching §6's output-file naming.
func WrapperFileBase(c *model.ClassEntity) string {
	return strings.ToLower(fixedNameOfClass(c)) + "_wrapper"
}

// ModuleWrapperFileBase returns the module translation unit's base
// file name: `<module-lower>_module_wrapper`.
func ModuleWrapperFileBase(moduleName string) string {
	return strings.ToLower(sanitize(moduleName)) + "_module_wrapper"
}

// ModuleHeaderFileBase returns the module header's base file name:
// `<module-lower>_python`.
func ModuleHeaderFileBase(moduleName string) string {
	return strings.ToLower(sanitize(moduleName)) + "_python"
}

// ProtectedGetter/ProtectedSetter name the §4.6 inline accessors for a
// protected field.
func ProtectedGetter(fieldName string) string { return "protected_" + fieldName + "_getter" }
func ProtectedSetter(fieldName string) string { return "protected_" + fieldName + "_setter" }

// ProtectedThunk names the §4.6 public thunk for a protected method.
func ProtectedThunk(methodName string) string { return methodName + "_protected" }

// InitFunc names the §4.6 per-class registration routine.
func InitFunc(c *model.ClassEntity) string { return "init_" + mangleScopedName(c.QualifiedName) }

// VirtualTrampoline names the generated wrapper subclass's override of
// one of c's virtual methods (§4.6's polymorphic-dispatch trampoline).
func VirtualTrampoline(c *model.ClassEntity, methodName string) string {
	return CppWrapperName(c) + "_" + methodName + "_override"
}

// SbkTypeSpecialization names the §4.6 `SbkType<T>()` template home;
// it is always the literal template name, parameterised in emitted
// C++ by the class's real C++ type, not by a generated identifier.
const SbkTypeSpecialization = "SbkType"
