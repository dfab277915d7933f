package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp"
	"github.com/mattn/go-isatty"

	"github.com/trif-lang/trifc/internal/compile"
	"github.com/trif-lang/trifc/internal/config"
	"github.com/trif-lang/trifc/internal/diag"
	"github.com/trif-lang/trifc/internal/server"
)

type Option struct {
	Target           string `short:"t" long:"target" description:"Target language: python, javascript (js), cpp (c++)" default:"python"`
	Output           string `short:"o" long:"output" description:"[OPTIONAL] Output file path; defaults to standard output"`
	AggressiveErrors bool   `long:"aggressive-errors" description:"Propagate the raw error message instead of prefixing it"`
	Listen           string `short:"l" long:"listen" description:"[OPTIONAL] Listen host and port to serve compilation over HTTP"`
	Config           string `short:"c" long:"config" description:"[OPTIONAL] YAML config file supplying defaults for the flags above"`
	DumpAST          bool   `long:"dump-ast" description:"Dump the parsed module as JSON instead of generating target code"`

	Args struct {
		Input string `positional-arg-name:"INPUT"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	_, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		parser.WriteHelp(os.Stdout)
		return 1
	}

	if opt.Config != "" {
		if err := applyConfig(&opt, args); err != nil {
			return fail(err, opt.AggressiveErrors)
		}
	}

	if opt.Listen != "" {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		if err := server.Serve(ctx, opt.Listen); err != nil {
			return fail(diag.IO("server.Serve: %v", err), opt.AggressiveErrors)
		}
		return 0
	}

	if opt.Args.Input == "" {
		return fail(diag.CLI("missing input file"), opt.AggressiveErrors)
	}

	target, err := compile.ResolveTarget(opt.Target)
	if err != nil {
		return fail(err, opt.AggressiveErrors)
	}

	source, err := os.ReadFile(opt.Args.Input)
	if err != nil {
		return fail(diag.IO("os.ReadFile(%q): %v", opt.Args.Input, err), opt.AggressiveErrors)
	}

	if opt.DumpAST {
		module, err := compile.ToAST(string(source))
		if err != nil {
			return fail(err, opt.AggressiveErrors)
		}
		if err := dumpJSON(os.Stdout, module); err != nil {
			fmt.Fprintf(os.Stderr, "trifc: %v\n", err)
			return 1
		}
		return 0
	}

	output, err := compile.Source(string(source), target)
	if err != nil {
		return fail(err, opt.AggressiveErrors)
	}

	if opt.Output != "" {
		if err := os.WriteFile(opt.Output, []byte(output), 0o644); err != nil {
			return fail(diag.IO("os.WriteFile(%q): %v", opt.Output, err), opt.AggressiveErrors)
		}
		return 0
	}

	fmt.Println(output)
	return 0
}

// applyConfig fills in any flag the user did not pass explicitly from the
// config file, when the file sets that field. An explicitly-passed flag always wins over the file, so the
// config only ever supplies a fallback default, never an override.
func applyConfig(opt *Option, rawArgs []string) error {
	file, err := config.Load(opt.Config)
	if err != nil {
		return err
	}

	explicit := map[string]bool{}
	for _, a := range rawArgs {
		if flagExplicit(a, "-t", "--target") {
			explicit["target"] = true
		}
		if flagExplicit(a, "-o", "--output") {
			explicit["output"] = true
		}
		if flagExplicit(a, "", "--aggressive-errors") {
			explicit["aggressive-errors"] = true
		}
		if flagExplicit(a, "-l", "--listen") {
			explicit["listen"] = true
		}
	}

	if !explicit["target"] && file.Target != "" {
		opt.Target = file.Target
	}
	if !explicit["output"] && file.Output != "" {
		opt.Output = file.Output
	}
	if !explicit["aggressive-errors"] && file.AggressiveErrors {
		opt.AggressiveErrors = true
	}
	if !explicit["listen"] && file.Listen != "" {
		opt.Listen = file.Listen
	}
	return nil
}

// flagExplicit reports whether raw arg a sets the flag identified by short
// and long, in any of go-flags' accepted spellings: the bare long form
// (`--target`), `--target=value`, the bare short form (`-t`), or a short
// form with its value concatenated (`-tjavascript`). short may be "" for a
// flag with no short spelling.
func flagExplicit(a, short, long string) bool {
	if a == long || strings.HasPrefix(a, long+"=") {
		return true
	}
	if short != "" && strings.HasPrefix(a, short) {
		return true
	}
	return false
}

// fail renders err under the default error policy (wrap unless
// --aggressive-errors was passed) and returns the exit code the caller
// should use.
func fail(err error, aggressive bool) int {
	msg := err.Error()
	if !aggressive {
		msg = "Compilation failed: " + msg
	}
	fmt.Fprintf(os.Stderr, "trifc: %s\n", msg)
	return 1
}

func dumpJSON(w io.Writer, v any) error {
	if os.Getenv("TRIFC_PARSER_DEBUG") != "" {
		pp.Println(v)
	}

	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if isatty.IsTerminal(f.Fd()) {
			opts = append(opts, json.Colorize(json.DefaultColorScheme))
		}
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
