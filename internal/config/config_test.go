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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shiboken.yaml")
	require.NoError(t, writeFile(path, `
module_name: shapes
api_headers: ["shapes.h"]
typesystem_file: shapes.xml
output_dir: out
avoid_protected_hack: true
known_issues: ["SHIB-12"]
`))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shapes", f.ModuleName)
	assert.Equal(t, []string{"shapes.h"}, f.APIHeaders)
	assert.True(t, f.AvoidProtectedHack)
	assert.Equal(t, []string{"SHIB-12"}, f.KnownIssues)
	assert.True(t, f.Options().AvoidProtectedHack)
}

func TestLoadMissingModuleNameErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shiboken.yaml")
	require.NoError(t, writeFile(path, `output_dir: out`))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/shiboken.yaml")
	require.Error(t, err)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
