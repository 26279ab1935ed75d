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

package wrapper

import (
	"fmt"

	"github.com/shiboken-go/shiboken/internal/model"
)

// ownershipStatements renders the §4.5 post-call bookkeeping for one
// argument modification: ownership transfer in either direction,
// invalidation, and reference-count add/set/remove, in that order
// (an invalidated argument must not also be ref-counted).
//
// Grounded on the teacher's gapii/cc/spy_types.cpp-style "after the
// real call returns, walk the declared side effects" shape (here
// expressed in Go/text rather than C++, since the side effects
// themselves are emitted C++ statements, not executed ones).
func ownershipStatements(mod *model.ArgModification, pyExpr string) []string {
	if mod == nil {
		return nil
	}
	var out []string
	switch mod.OwnershipTarget {
	case model.OwnershipTransferToTarget:
		out = append(out, fmt.Sprintf("Shiboken::Object::getOwnership(%s, true);", pyExpr))
	case model.OwnershipInvalidate:
		out = append(out, fmt.Sprintf("Shiboken::Object::invalidate(%s);", pyExpr))
	}
	switch mod.OwnershipNative {
	case model.OwnershipTransferToNative:
		out = append(out, fmt.Sprintf("Shiboken::Object::releaseOwnership(%s);", pyExpr))
	case model.OwnershipInvalidate:
		out = append(out, fmt.Sprintf("Shiboken::Object::invalidate(%s);", pyExpr))
	}
	if mod.OwnershipTarget == model.OwnershipInvalidate || mod.OwnershipNative == model.OwnershipInvalidate {
		return out
	}
	switch mod.RefCount {
	case model.RefCountAdd:
		out = append(out, refCountCall("addParentInfo", mod, pyExpr))
	case model.RefCountSet:
		out = append(out, refCountCall("setParent", mod, pyExpr))
	case model.RefCountRemove:
		out = append(out, fmt.Sprintf("Shiboken::Object::removeParent(%s);", pyExpr))
	}
	return out
}

func refCountCall(fn string, mod *model.ArgModification, pyExpr string) string {
	key := mod.RefCountKey
	if key == "" {
		key = "self"
	}
	return fmt.Sprintf("Shiboken::Object::%s(%s, %s);", fn, key, pyExpr)
}

// parentHeuristicStatements implements the §6 "parent constructor
// heuristic": a constructor argument literally named "parent" parents
// the new instance to it automatically, without requiring an explicit
// type-system OwnershipTarget rule to say so. Gated by
// EnableParentCtorHeuristic, and a no-op for anything but a
// constructor.
func parentHeuristicStatements(f *model.FunctionEntity, args []*model.Argument, argsVar string, opts model.Options) []string {
	if !opts.EnableParentCtorHeuristic || !f.IsConstructor {
		return nil
	}
	var out []string
	for i, a := range args {
		if a.Name == "parent" {
			out = append(out, fmt.Sprintf("Shiboken::Object::setParent(%s, self);",
				fmt.Sprintf("PyTuple_GET_ITEM(%s, %d)", argsVar, i)))
		}
	}
	return out
}

// returnValueNeedsParentHeuristic reports whether f's return value
// should be heuristically parented to self: a member function
// returning an object-type pointer or reference with no explicit
// ReturnModified ownership rule already covering it. Gated by
// EnableReturnValueHeuristic — this is the generator's fallback for
// "function returns a still-owned sub-object" when the type-system
// author never wrote an explicit rule for it.
func returnValueNeedsParentHeuristic(f *model.FunctionEntity, opts model.Options) bool {
	if !opts.EnableReturnValueHeuristic || f.OwnerClass == nil || f.ReturnModified != nil || f.ReturnType == nil {
		return false
	}
	rt := f.ReturnType
	return rt.Entry != nil && rt.Entry.Kind == model.KindComplex && rt.Entry.IsObjectType && (rt.IsPointer() || rt.IsReference)
}
