// Copyright 2026 t9a-dev. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// vmtranslator translates Hack VM language files into Hack assembly.
//
// Given one or more .vm files or directories, it writes a .asm file for
// each. With no arguments it starts an interactive console.
package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/BurntSushi/toml"
	"github.com/beevik/term"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/t9a-dev/VMTranslator/host"
	"github.com/t9a-dev/VMTranslator/version"
	"github.com/t9a-dev/VMTranslator/vm"
)

var (
	noBootstrap bool
	entry       string
	comments    bool
	verbose     bool
	configPath  string
)

// config mirrors the command-line flags for use in a TOML defaults file.
type config struct {
	Bootstrap *bool  `toml:"bootstrap"`
	Entry     string `toml:"entry"`
	Comments  *bool  `toml:"comments"`
	Verbose   *bool  `toml:"verbose"`
}

func main() {
	root := &cobra.Command{
		Use:     "vmtranslator [path ...]",
		Short:   "Translate Hack VM language into Hack assembly",
		Long:    "vmtranslator lowers Hack VM language files (.vm) into Hack assembly (.asm).\nEach path may be a single file or a directory of files. With no paths, an\ninteractive console is started.",
		Version: version.String(),
		RunE:    run,
	}

	flags := root.Flags()
	flags.BoolVar(&noBootstrap, "no-bootstrap", false, "skip the stack init and entry call")
	flags.StringVar(&entry, "entry", "Sys.init", "function called by the bootstrap code")
	flags.BoolVar(&comments, "comments", false, "annotate output with source commands")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose translation logging")
	flags.StringVar(&configPath, "config", "", "TOML file with flag defaults")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(c *cobra.Command, args []string) error {
	opts := vm.Options{
		Bootstrap: !noBootstrap,
		Entry:     entry,
		Comments:  comments,
	}

	if configPath != "" {
		if err := applyConfig(c, configPath, &opts); err != nil {
			return err
		}
	}

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if len(args) == 0 {
		runConsole()
		return nil
	}

	for _, path := range args {
		out, err := vm.TranslatePath(path, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Translated '%s' to '%s'.\n", path, out)
	}
	return nil
}

// applyConfig overlays a TOML defaults file onto the options. Flags given
// explicitly on the command line win.
func applyConfig(c *cobra.Command, path string, opts *vm.Options) error {
	var cfg config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return fmt.Errorf("config '%s': %w", path, err)
	}

	if cfg.Bootstrap != nil && !c.Flags().Changed("no-bootstrap") {
		opts.Bootstrap = *cfg.Bootstrap
	}
	if cfg.Entry != "" && !c.Flags().Changed("entry") {
		opts.Entry = cfg.Entry
	}
	if cfg.Comments != nil && !c.Flags().Changed("comments") {
		opts.Comments = *cfg.Comments
	}
	if cfg.Verbose != nil && !c.Flags().Changed("verbose") {
		verbose = *cfg.Verbose
	}
	return nil
}

func runConsole() {
	h := host.New()

	// Break on Ctrl-C.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		for {
			<-sig
			h.Break()
		}
	}()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	h.RunCommands(os.Stdin, os.Stdout, interactive)
}
