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

package typeclass

import (
	"fmt"
	"sort"

	"github.com/shiboken-go/shiboken/internal/model"
)

// NeedsMinimalConstructor reports whether the wrapper emitter must
// declare a local of type t before a conversion can fill it in (value,
// enum, or by-value complex types do; pointers and references do not).
func NeedsMinimalConstructor(t *model.AbstractType) bool {
	switch Classify(t) {
	case WrapperValue:
		return t.Indirections == 0 && !t.IsReference
	case Enum, Flags, CppPrimitive, UserPrimitive:
		return true
	}
	return false
}

// MinimalConstructorExpression finds a deterministic default-
// constructor-like expression for t's class: the type entry's declared
// default constructor, or else the non-protected constructor with the fewest
// arguments whose arguments are all primitives/enums/pointers (each
// passed as 0). The search order is arity ascending. A constructor taking
// the class itself by value or reference, such as the copy constructor,
// is never chosen, and arguments of other class types are not searched
// in turn.
//
// Returns ("", false) if no suitable constructor exists; callers must
// then emit an EmissionGuardError (#error directive), per §4.2.
func MinimalConstructorExpression(t *model.AbstractType) (string, bool) {
	if t == nil || t.Entry == nil {
		return "", false
	}
	if t.Entry.DefaultConstructor != "" {
		return t.Entry.DefaultConstructor, true
	}
	c := t.Entry.Class
	if c == nil {
		return "", false
	}
	return searchConstructor(c, map[*model.ClassEntity]bool{})
}

func searchConstructor(c *model.ClassEntity, visiting map[*model.ClassEntity]bool) (string, bool) {
	if visiting[c] {
		return "", false
	}
	visiting[c] = true
	defer delete(visiting, c)

	ctors := make([]*model.FunctionEntity, 0, len(c.Functions))
	for _, f := range c.Functions {
		if f.IsConstructor && !f.IsModifiedRemoved && !f.IsProtected {
			ctors = append(ctors, f)
		}
	}
	sort.SliceStable(ctors, func(i, j int) bool {
		return len(ctors[i].NonRemovedArgs()) < len(ctors[j].NonRemovedArgs())
	})

	for _, ctor := range ctors {
		args := ctor.NonRemovedArgs()
		if len(args) == 0 {
			return fmt.Sprintf("%s()", c.QualifiedName), true
		}
		exprs := make([]string, 0, len(args))
		ok := true
		for _, a := range args {
			at := a.EffectiveType()
			switch {
			case at.Indirections > 0:
				exprs = append(exprs, "0")
			case Classify(at) == Enum || Classify(at) == CppPrimitive || Classify(at) == UserPrimitive:
				exprs = append(exprs, "0")
			case at.Entry != nil && at.Entry.Kind == model.KindComplex && at.Entry.Class == c:
				// Self-type argument (e.g. a copy constructor): avoid looping,
				// only acceptable if it's the class's own copy constructor
				// signature, which we don't try to synthesise an argument for.
				ok = false
			default:
				ok = false
			}
			if !ok {
				break
			}
		}
		if ok {
			expr := c.QualifiedName + "("
			for i, e := range exprs {
				if i > 0 {
					expr += ", "
				}
				expr += e
			}
			expr += ")"
			return expr, true
		}
	}
	return "", false
}
