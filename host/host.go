// Copyright 2026 t9a-dev. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements an interactive console around the VM translator.
// Within the host it is possible to translate VM files and directories,
// translate VM commands entered at the prompt, and adjust translation
// settings.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/cmd"
	"github.com/sirupsen/logrus"

	"github.com/t9a-dev/VMTranslator/vm"
)

// errQuit stops the command loop.
var errQuit = errors.New("quit")

// A Host reads console commands and runs the translator on their behalf.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	lastCmd     *cmd.Selection
	settings    *settings
}

// New creates a new translator console host.
func New() *Host {
	return &Host{
		settings: newSettings(),
	}
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println("vmtranslator console. Type 'help' for a list of commands.")
	}

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.println("Command not found.")
				continue
			case err == cmd.ErrAmbiguous:
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		handler := c.Command.Data.(func(*Host, cmd.Selection) error)
		err = handler(h, c)
		if err != nil {
			break
		}
	}

	h.flush()
}

// Break interrupts a pending prompt, e.g. on ctrl-C.
func (h *Host) Break() {
	h.println()
	h.prompt()
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
	}
}

// options builds translator options from the current settings.
func (h *Host) options() vm.Options {
	if h.settings.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
	return vm.Options{
		Bootstrap: h.settings.Bootstrap,
		Entry:     h.settings.Entry,
		Comments:  h.settings.Comments,
	}
}

var helpText = []struct {
	name  string
	brief string
}{
	{"help", "Display this help text"},
	{"translate file", "Translate a VM file and save the assembly"},
	{"translate directory", "Translate a directory of VM files"},
	{"translate text", "Translate VM commands entered interactively"},
	{"set", "Set a configuration variable"},
	{"quit", "Quit the program"},
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	h.println("vmtranslator commands:")
	for _, e := range helpText {
		h.printf("    %-20s  %s\n", e.name, e.brief)
	}
	return nil
}

func (h *Host) cmdTranslateFile(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.println("Syntax: translate file <filename>")
		return nil
	}

	out, err := vm.TranslateFile(c.Args[0], h.options())
	if err != nil {
		h.printf("Failed to translate '%s': %v\n", c.Args[0], err)
		return nil
	}

	h.printf("Translated '%s' to '%s'.\n", c.Args[0], out)
	return nil
}

func (h *Host) cmdTranslateDir(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.println("Syntax: translate directory <path>")
		return nil
	}

	out, err := vm.TranslateDir(c.Args[0], h.options())
	if err != nil {
		h.printf("Failed to translate '%s': %v\n", c.Args[0], err)
		return nil
	}

	h.printf("Translated '%s' to '%s'.\n", c.Args[0], out)
	return nil
}

// cmdTranslateText reads VM commands from the console until a lone "." and
// prints the resulting assembly.
func (h *Host) cmdTranslateText(c cmd.Selection) error {
	if h.interactive {
		h.println("Enter VM commands, one per line. Finish with a lone '.'")
	}

	var src strings.Builder
	for {
		if h.interactive {
			h.printf(". ")
		}
		line, err := h.getLine()
		if err != nil || strings.TrimSpace(line) == "." {
			break
		}
		src.WriteString(line)
		src.WriteByte('\n')
	}

	units := []vm.SourceUnit{{Name: "console", R: strings.NewReader(src.String())}}
	if err := vm.Translate(units, h.output, h.options()); err != nil {
		h.printf("Failed to translate: %v\n", err)
		return nil
	}

	h.flush()
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.println("Syntax: set <var> <value>")

	default:
		key, value := c.Args[0], strings.Join(c.Args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.String:
			err = h.settings.Set(key, value)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			err = fmt.Errorf("unknown variable '%s'", key)
		}

		if err != nil {
			h.printf("%v\n", err)
		} else {
			h.printf("Set %s.\n", key)
		}
	}

	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errQuit
}
