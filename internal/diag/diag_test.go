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
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkReportSeparatesFatalFromWarnings(t *testing.T) {
	sink := NewSink()
	sink.Report(New(EmissionWarning, "Foo::bar", "ambiguous overload"))
	sink.Report(New(ConfigurationError, "", "missing module_name"))
	sink.Report(New(ModelError, "", "second fatal, should not override the first"))

	require.NotNil(t, sink.Fatal())
	assert.Equal(t, ConfigurationError, sink.Fatal().Kind)
	assert.Equal(t, 1, sink.ExitCode())
	assert.Len(t, sink.Warnings(), 1)
}

func TestSinkExitCodeZeroWithNoFatal(t *testing.T) {
	sink := NewSink()
	sink.Report(New(EmissionWarning, "", "just a warning"))
	assert.Equal(t, 0, sink.ExitCode())
}

func TestSinkSummaryCountsKnownIssues(t *testing.T) {
	sink := NewSink("SHIB-12")
	d := New(EmissionWarning, "Foo::bar", "known ambiguity")
	d.KnownID = "SHIB-12"
	sink.Report(d)
	sink.Report(New(EmissionWarning, "Foo::baz", "unrelated"))

	assert.Equal(t, "2 warning(s), 1 known issue(s)", sink.Summary())
}

func TestSinkCollectsCycleErrorsSeparately(t *testing.T) {
	sink := NewSink()
	sink.Report(New(CycleError, "overload group", "sibling cycle"))
	assert.Len(t, sink.Cycles(), 1)
	assert.Empty(t, sink.Warnings())
	assert.Nil(t, sink.Fatal())
}

func TestWrapNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(ModelError, "x", nil))
}

func TestWrapPreservesUnderlyingError(t *testing.T) {
	base := errors.New("boom")
	d := Wrap(ModelError, "Foo", base)
	assert.ErrorIs(t, d, base)
}

func TestLoggerSuppressesBelowMinimum(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(context.Background(), &buf, Info)
	D(ctx, "debug message, should be suppressed")
	assert.Empty(t, buf.String())

	I(ctx, "info message")
	assert.Contains(t, buf.String(), "info message")
}

func TestLoggerWithAttachesSortedKeyValues(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(context.Background(), &buf, Debug)
	From(ctx).At(Warning).With("b", 2).With("a", 1).Log("msg")
	assert.Contains(t, buf.String(), "a=1 b=2")
}
