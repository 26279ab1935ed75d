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

// Package config is the §6 generator-configuration layer: a YAML file
// describing one run (input paths, the license file, the boolean
// generator options internal/model.Options carries). The command line
// has no flags that override these options; the file is the only
// source. Grounded on the pack's ailang/sunholo repo, whose own CLI
// config loads a YAML document into a typed struct with
// gopkg.in/yaml.v3.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/shiboken-go/shiboken/internal/diag"
	"github.com/shiboken-go/shiboken/internal/model"
)

// File is the on-disk YAML shape of a run's configuration.
type File struct {
	ModuleName                 string   `yaml:"module_name"`
	APIHeaders                 []string `yaml:"api_headers"`
	TypeSystemFile             string   `yaml:"typesystem_file"`
	OutputDir                  string   `yaml:"output_dir"`
	LicenseFile                string   `yaml:"license_file"`
	AvoidProtectedHack         bool     `yaml:"avoid_protected_hack"`
	EnableParentCtorHeuristic  bool     `yaml:"enable_parent_ctor_heuristic"`
	EnableReturnValueHeuristic bool     `yaml:"enable_return_value_heuristic"`
	EnablePySideExtensions     bool     `yaml:"enable_pyside_extensions"`
	DisableVerboseErrorMessages bool    `yaml:"disable_verbose_error_messages"`
	UseIsNullAsNbNonzero       bool     `yaml:"use_is_null_as_nb_nonzero"`
	KnownIssues                []string `yaml:"known_issues"`
}

// Load reads and parses path into a File. A missing path is a
// ConfigurationError (§7): the generator has nothing to run without it.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diag.Wrap(diag.ConfigurationError, path, errors.Wrap(err, "reading config file"))
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, diag.Wrap(diag.ConfigurationError, path, errors.Wrap(err, "parsing config file"))
	}
	if f.ModuleName == "" {
		return nil, diag.New(diag.ConfigurationError, path, "module_name is required")
	}
	return &f, nil
}

// Options projects the generator-behaviour flags of f into the
// model.Options the core consumes; the I/O-describing fields
// (ModuleName, paths) stay in File since model.Options is a pure
// behaviour-flags struct (§6).
func (f *File) Options() model.Options {
	return model.Options{
		AvoidProtectedHack:          f.AvoidProtectedHack,
		EnableParentCtorHeuristic:   f.EnableParentCtorHeuristic,
		EnableReturnValueHeuristic:  f.EnableReturnValueHeuristic,
		EnablePySideExtensions:      f.EnablePySideExtensions,
		DisableVerboseErrorMessages: f.DisableVerboseErrorMessages,
		UseIsNullAsNbNonzero:        f.UseIsNullAsNbNonzero,
		LicenseFile:                 f.LicenseFile,
	}
}
