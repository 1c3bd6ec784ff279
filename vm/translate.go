// Copyright 2026 t9a-dev. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vm implements a translator from Hack VM language to Hack
// assembly. Source units are classified one line at a time and lowered
// immediately; a translation run is single-pass and fail-fast.
package vm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// vmExtension is the file extension of VM language source files.
const vmExtension = ".vm"

// asmExtension is the file extension of generated assembly files.
const asmExtension = ".asm"

// A SourceUnit is one ordered unit of VM commands. Name scopes the unit's
// static-segment symbols and appears in diagnostics.
type SourceUnit struct {
	Name string
	R    io.Reader
}

// Options control a translation run.
type Options struct {
	Bootstrap bool   // emit the stack-pointer init and entry call
	Entry     string // entry function called by the bootstrap sequence
	Comments  bool   // annotate output with the source commands
}

// DefaultOptions returns the options used by the command-line tool unless
// overridden.
func DefaultOptions() Options {
	return Options{Bootstrap: true, Entry: "Sys.init", Comments: false}
}

// Translate lowers the source units, in order, into Hack assembly appended
// to w. Generator state (the uniqueness counter and bootstrap flag) spans
// all units; the static scope prefix is swapped per unit. The first error
// aborts the run, and any partially written output must be discarded.
func Translate(units []SourceUnit, w io.Writer, opts Options) error {
	g := NewGenerator(w, opts.Entry, opts.Comments)

	if opts.Bootstrap {
		if err := g.WriteBootstrap(); err != nil {
			return err
		}
	}

	for _, u := range units {
		logrus.WithField("unit", u.Name).Debug("translating source unit")
		g.SetSourceUnit(u.Name)
		if err := translateUnit(g, u); err != nil {
			return fmt.Errorf("%s: %w", u.Name, err)
		}
	}

	return g.Close()
}

// translateUnit drains one unit's command stream through the classifier
// and the generator.
func translateUnit(g *Generator, u SourceUnit) error {
	scanner := bufio.NewScanner(u.R)
	row := 0
	for scanner.Scan() {
		row++
		line := newFstring(row, scanner.Text()).consumeWhitespace().stripComment()
		if line.isEmpty() {
			continue
		}

		c, err := parseLine(line)
		if err != nil {
			return err
		}
		if err = g.WriteCommand(c); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read error: %w", err)
	}
	return nil
}

// TranslateFile translates a single .vm file into a sibling .asm file and
// returns the output path. The file's stem names the source unit.
func TranslateFile(path string, opts Options) (string, error) {
	if filepath.Ext(path) != vmExtension {
		return "", fmt.Errorf("'%s' is not a %s file", path, vmExtension)
	}

	in, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	units := []SourceUnit{{Name: stem(path), R: in}}
	return writeAssembly(strings.TrimSuffix(path, vmExtension)+asmExtension, units, opts)
}

// TranslateDir translates every .vm file in a directory, in sorted order,
// into a single <dir>/<dirname>.asm file and returns the output path.
func TranslateDir(path string, opts Options) (string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return "", err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == vmExtension {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no %s files in '%s'", vmExtension, path)
	}
	sort.Strings(names)

	var units []SourceUnit
	for _, name := range names {
		f, err := os.Open(filepath.Join(path, name))
		if err != nil {
			return "", err
		}
		defer f.Close()
		units = append(units, SourceUnit{Name: stem(name), R: f})
	}

	dirname := filepath.Base(filepath.Clean(path))
	outPath := filepath.Join(path, dirname+asmExtension)
	return writeAssembly(outPath, units, opts)
}

// TranslatePath translates a file or a directory, whichever path names.
func TranslatePath(path string, opts Options) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return TranslateDir(path, opts)
	}
	return TranslateFile(path, opts)
}

// writeAssembly runs a translation into outPath. On failure the partial
// output file is removed, since a truncated assembly file must not be
// trusted.
func writeAssembly(outPath string, units []SourceUnit, opts Options) (string, error) {
	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", err
	}

	if err = Translate(units, out, opts); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", err
	}
	if err = out.Close(); err != nil {
		return "", err
	}

	logrus.WithField("output", outPath).Debug("translation complete")
	return outPath, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
