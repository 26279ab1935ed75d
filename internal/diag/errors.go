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

package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the §7 error taxonomy tag.
type Kind int

const (
	// ConfigurationError is a bad generator option or missing required input. Fatal.
	ConfigurationError Kind = iota
	// ModelError is an inconsistency in the metamodel. Fatal.
	ModelError
	// CycleError is a topological-sort cycle (class registration or
	// overload sibling order). Warning; generation continues with an
	// arbitrary tie-break.
	CycleError
	// EmissionWarning is ambiguous-but-recoverable: reported but does
	// not alter output.
	EmissionWarning
	// EmissionGuardError is a construct that cannot be generated
	// safely; emitted as a #error directive in the generated source.
	// Always accompanied by a Warning from the generator itself.
	EmissionGuardError
)

func (k Kind) String() string {
	switch k {
	case ConfigurationError:
		return "ConfigurationError"
	case ModelError:
		return "ModelError"
	case CycleError:
		return "CycleError"
	case EmissionWarning:
		return "EmissionWarning"
	case EmissionGuardError:
		return "EmissionGuardError"
	}
	return "UnknownError"
}

// Fatal reports whether diagnostics of this kind abort the run.
func (k Kind) Fatal() bool {
	return k == ConfigurationError || k == ModelError
}

// Diagnostic is one reported issue, fatal or not.
type Diagnostic struct {
	Kind    Kind
	Where   string // e.g. a function signature or type name, for actionable messages
	Err     error
	KnownID string // matches an allow-list entry; see Sink.Summary
	Dump    string // optional Graphviz DOT text, attached by CycleError reporters
}

func (d *Diagnostic) Error() string {
	if d.Where != "" {
		return fmt.Sprintf("%s: %s: %v", d.Kind, d.Where, d.Err)
	}
	return fmt.Sprintf("%s: %v", d.Kind, d.Err)
}

func (d *Diagnostic) Unwrap() error { return d.Err }

// New builds a Diagnostic, wrapping msg with pkg/errors so later
// %+v formatting carries a stack trace, matching the teacher's own
// core/app/run.go convention of wrapping with errors.Wrap at the
// point an error is first classified.
func New(kind Kind, where, msg string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Kind: kind, Where: where, Err: errors.Errorf(msg, args...)}
}

// Wrap classifies an existing error as kind, attaching where for
// actionable messages, and records a stack trace if one is not
// already attached.
func Wrap(kind Kind, where string, err error) *Diagnostic {
	if err == nil {
		return nil
	}
	return &Diagnostic{Kind: kind, Where: where, Err: errors.WithStack(err)}
}

// Sink accumulates non-fatal diagnostics for the end-of-run summary
// line required by §7, and immediately surfaces fatal ones.
//
// Grounded on the teacher's core/fault/collect.go pattern of gathering
// multiple causes before reporting, adapted to shiboken's fatal/
// non-fatal split.
type Sink struct {
	allowlist map[string]bool
	warnings  []*Diagnostic
	cycles    []*Diagnostic
	fatal     *Diagnostic
}

// NewSink builds a Sink whose "known issue" allow-list is knownIDs.
func NewSink(knownIDs ...string) *Sink {
	al := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		al[id] = true
	}
	return &Sink{allowlist: al}
}

// Report records d. Fatal diagnostics are latched (the first one
// wins); callers should check Fatal() after every Report and stop
// emission for the enclosing file.
func (s *Sink) Report(d *Diagnostic) {
	if d == nil {
		return
	}
	switch d.Kind {
	case CycleError:
		s.cycles = append(s.cycles, d)
	case EmissionWarning, EmissionGuardError:
		s.warnings = append(s.warnings, d)
	default:
		if d.Kind.Fatal() && s.fatal == nil {
			s.fatal = d
		}
	}
}

// Fatal returns the first fatal diagnostic reported, or nil.
func (s *Sink) Fatal() *Diagnostic { return s.fatal }

// Warnings returns every EmissionWarning/EmissionGuardError reported, in order.
func (s *Sink) Warnings() []*Diagnostic { return s.warnings }

// Cycles returns every CycleError reported, in order.
func (s *Sink) Cycles() []*Diagnostic { return s.cycles }

// Summary formats the §7 "total warnings, how many are known issues" line.
func (s *Sink) Summary() string {
	known := 0
	for _, w := range s.warnings {
		if w.KnownID != "" && s.allowlist[w.KnownID] {
			known++
		}
	}
	for _, c := range s.cycles {
		if c.KnownID != "" && s.allowlist[c.KnownID] {
			known++
		}
	}
	total := len(s.warnings) + len(s.cycles)
	return fmt.Sprintf("%d warning(s), %d known issue(s)", total, known)
}

// ExitCode implements §6's exit-code contract: 0 iff no fatal error
// occurred; warnings never change the exit code.
func (s *Sink) ExitCode() int {
	if s.fatal != nil {
		return 1
	}
	return 0
}
