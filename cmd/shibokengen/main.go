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

// Command shibokengen is the reference driver for the generator core:
// it loads a run's §6 YAML configuration, builds (or, once an external
// parser is wired in, receives) an ApiModel and TypeSystem, and runs
// the Module Assembler, reporting the §7 exit-code contract.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shiboken-go/shiboken/internal/assembler"
	"github.com/shiboken-go/shiboken/internal/config"
	"github.com/shiboken-go/shiboken/internal/diag"
	"github.com/shiboken-go/shiboken/internal/emit"
	"github.com/shiboken-go/shiboken/internal/model"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "shibokengen",
		Short: "Generate a CPython binding module from a C++ API model and type-system file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, verbose)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "shiboken.yaml", "path to the run's YAML configuration")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	return cmd
}

func run(ctx context.Context, configPath string, verbose bool) error {
	min := diag.Info
	if verbose {
		min = diag.Debug
	}
	ctx = diag.NewContext(ctx, os.Stderr, min)

	f, err := config.Load(configPath)
	if err != nil {
		diag.E(ctx, "configuration error: %v", err)
		return err
	}

	license, err := emit.LoadLicense(f.LicenseFile)
	if err != nil {
		diag.E(ctx, "reading license file: %v", err)
		return err
	}

	sink := diag.NewSink(f.KnownIssues...)

	// Parsing api_headers/typesystem_file into an ApiModel/TypeSystem is
	// the external C++ parser's job (out of scope, §1); the reference
	// driver runs against an empty in-memory Store so `shibokengen
	// --config shiboken.yaml` is a runnable smoke test of the assembly
	// pipeline without that parser.
	store := model.NewStore()
	ts := model.NewMapTypeSystem()

	asm := assembler.New(f.Options(), ts, sink)
	artifacts, moduleFns, initSeq := assembler.Assemble(asm, f.ModuleName, store)

	w, err := emit.NewWriter(f.OutputDir, license)
	if err != nil {
		diag.E(ctx, "creating output writer: %v", err)
		return err
	}

	if err := assembler.WriteAll(w, f.ModuleName, artifacts, moduleFns, asm.Synthesiser(), initSeq); err != nil {
		diag.E(ctx, "writing output: %v", err)
		return err
	}

	if sink.Fatal() != nil {
		diag.F(ctx, "%v", sink.Fatal())
		return sink.Fatal()
	}
	diag.I(ctx, "%s", sink.Summary())
	fmt.Fprintf(os.Stdout, "wrote %d file(s), skipped %d unchanged\n", len(w.Written()), len(w.Skipped()))
	return nil
}
