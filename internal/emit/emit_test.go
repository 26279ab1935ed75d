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

package emit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileCreatesNewFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "")
	require.NoError(t, err)

	require.NoError(t, w.WriteFile("shapes_wrapper.cpp", "// body\n"))
	assert.Equal(t, []string{"shapes_wrapper.cpp"}, w.Written())
	assert.Empty(t, w.Skipped())

	data, err := os.ReadFile(filepath.Join(dir, "shapes_wrapper.cpp"))
	require.NoError(t, err)
	assert.Equal(t, "// body\n", string(data))
}

func TestWriteFileSkipsUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "")
	require.NoError(t, err)

	require.NoError(t, w.WriteFile("a.cpp", "same\n"))
	path := filepath.Join(dir, "a.cpp")
	before, err := os.Stat(path)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, w.WriteFile("a.cpp", "same\n"))
	after, err := os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, before.ModTime(), after.ModTime())
	assert.Equal(t, []string{"a.cpp"}, w.Skipped())
}

func TestWriteFileRewritesChangedContent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "")
	require.NoError(t, err)

	require.NoError(t, w.WriteFile("a.cpp", "one\n"))
	require.NoError(t, w.WriteFile("a.cpp", "two\n"))

	data, err := os.ReadFile(filepath.Join(dir, "a.cpp"))
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(data))
	assert.Equal(t, []string{"a.cpp", "a.cpp"}, w.Written())
}

func TestWriteFilePrependsLicense(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "// Copyright Foo\n\n")
	require.NoError(t, err)
	require.NoError(t, w.WriteFile("a.cpp", "body\n"))

	data, err := os.ReadFile(filepath.Join(dir, "a.cpp"))
	require.NoError(t, err)
	assert.Equal(t, "// Copyright Foo\n\nbody\n", string(data))
}

func TestLoadLicenseEmptyPathYieldsEmptyString(t *testing.T) {
	license, err := LoadLicense("")
	require.NoError(t, err)
	assert.Equal(t, "", license)
}

func TestLoadLicenseAppendsTrailingBlankLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "LICENSE")
	require.NoError(t, os.WriteFile(path, []byte("Copyright Foo\n"), 0o644))

	license, err := LoadLicense(path)
	require.NoError(t, err)
	assert.Equal(t, "Copyright Foo\n\n", license)
}
