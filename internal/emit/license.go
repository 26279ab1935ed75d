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
	"strings"
)

// LoadLicense reads the §6 license-file and returns its contents with
// a trailing blank line, ready to prepend verbatim to every emitted
// file. An empty path is valid (§6 doesn't require one) and yields "".
// Grounded on the teacher's core/text/copyright.Build, simplified: the
// spec requires a verbatim prepend, not a templated header with
// per-file tool/year substitution.
func LoadLicense(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.TrimRight(string(data), "\n")
	return text + "\n\n", nil
}
