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
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

type loggerKey struct{}

// Logger is an immutable, chainable log builder, passed by value and
// allocated on the stack. Build one with At, chain With to attach
// key/value context, finish with Log. Modelled on the teacher's
// core/log.Logger, with the jot/context-stack plumbing collapsed away.
type Logger struct {
	out    io.Writer
	min    Severity
	level  Severity
	values []kv
}

type kv struct {
	key   string
	value interface{}
}

// NewContext returns a context carrying a root logger that writes to w
// and suppresses messages below min.
func NewContext(ctx context.Context, w io.Writer, min Severity) context.Context {
	return context.WithValue(ctx, loggerKey{}, Logger{out: w, min: min})
}

// From extracts the root logger from ctx, or a logger writing to
// os.Stderr at Info level if none was installed.
func From(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return l
	}
	return Logger{out: os.Stderr, min: Info}
}

// At returns a copy of l scoped to severity level s.
func (l Logger) At(s Severity) Logger {
	l.level = s
	return l
}

// With returns a copy of l with an extra key/value pair attached to
// every subsequent Log call.
func (l Logger) With(key string, value interface{}) Logger {
	cp := make([]kv, len(l.values), len(l.values)+1)
	copy(cp, l.values)
	l.values = append(cp, kv{key, value})
	return l
}

// Active reports whether a Log call on l would actually be written.
func (l Logger) Active() bool {
	return l.level >= l.min
}

// Log writes msg, formatted with args as in fmt.Sprintf, if Active.
func (l Logger) Log(msg string, args ...interface{}) {
	if !l.Active() {
		return
	}
	line := fmt.Sprintf(msg, args...)
	if len(l.values) > 0 {
		sorted := make([]kv, len(l.values))
		copy(sorted, l.values)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].key < sorted[j].key })
		for _, p := range sorted {
			line += fmt.Sprintf(" %s=%v", p.key, p.value)
		}
	}
	fmt.Fprintf(l.out, "%s %-7s %s\n", time.Now().UTC().Format(time.RFC3339), l.level, line)
}

// D, I, W, E, F are convenience helpers mirroring core/log's package
// funcs: they fetch the context's logger, scope it to a severity and
// log immediately.
func D(ctx context.Context, msg string, args ...interface{}) { From(ctx).At(Debug).Log(msg, args...) }
func I(ctx context.Context, msg string, args ...interface{}) { From(ctx).At(Info).Log(msg, args...) }
func W(ctx context.Context, msg string, args ...interface{}) {
	From(ctx).At(Warning).Log(msg, args...)
}
func E(ctx context.Context, msg string, args ...interface{}) { From(ctx).At(Error).Log(msg, args...) }
func F(ctx context.Context, msg string, args ...interface{}) { From(ctx).At(Fatal).Log(msg, args...) }
