// Command dappi resolves package dependencies against a SAT solver and reports the result as
// directive lines, a YAML lockfile, or a diagnostic dependency graph.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/amterp/color"
	mapset "github.com/deckarep/golang-set/v2"

	dappi "github.com/flokart-world/dappi"
	"github.com/flokart-world/dappi/internal/logging"
)

var (
	hicyanf  = color.New(color.FgHiCyan).SprintfFunc()
	hiblackf = color.New(color.FgHiBlack).SprintfFunc()
)

func ver() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "(devel)" {
		return ""
	}
	return bi.Main.Version
}

func choiceFlag[T any](fs *flag.FlagSet, p *T, name string, choices map[string]T, dflt, usage string) {
	cstr := strings.Join(slices.Sorted(maps.Keys(choices)), ", ")
	var ok bool
	if *p, ok = choices[dflt]; !ok {
		panic(fmt.Errorf("invalid default for %v option: %v", dflt, name))
	}
	usage += fmt.Sprintf(" (one of: %v; default: %v)", cstr, dflt)
	fs.Func(name, usage, func(arg string) error {
		if arg == "" {
			arg = dflt
		}
		v, ok := choices[arg]
		if !ok {
			return fmt.Errorf("expected one of: %v", cstr)
		}
		*p = v
		return nil
	})
}

var slogLevel = func() *slog.LevelVar {
	lvl := &slog.LevelVar{}
	lvl.Set(logging.LevelInfo)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return lvl
}()

// globalFlags parses the flags that may precede the subcommand name (-v, -q, --color, --version)
// and returns the remaining, subcommand-and-its-arguments slice.
func globalFlags(args []string) []string {
	fs := flag.NewFlagSet("dappi", flag.ExitOnError)
	fs.BoolFunc("v", "Increase log verbosity.", func(string) error {
		slogLevel.Set(logging.BumpLevel(slogLevel.Level(), true))
		return nil
	})
	fs.BoolFunc("q", "Decrease log verbosity.", func(string) error {
		slogLevel.Set(logging.BumpLevel(slogLevel.Level(), false))
		return nil
	})
	colorChoices := map[string]bool{"auto": color.NoColor, "never": true, "always": false}
	choiceFlag(fs, &color.NoColor, "color", colorChoices, "auto", "Output colors according to `mode`.")
	fs.BoolFunc("version", "Print the version and exit.", func(string) error {
		v := ver()
		if v == "" {
			fmt.Fprintln(os.Stderr, "the Go build information is unavailable; try passing -buildvcs=true")
			os.Exit(1)
		}
		fmt.Println(v)
		os.Exit(0)
		return nil
	})
	fs.Usage = usage
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}
	return fs.Args()
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: dappi [-v] [-q] [-color mode] <subcommand> [flags]

subcommands:
  load -t <da|dal> -i <file> [-strict]   read a manifest or lockfile, emit directives
  save -o <file>                         read a JSON state from stdin, write a YAML lockfile
  run                                    read a JSON state from stdin, resolve, emit directives
  graph [-format tree|dot]               read a JSON state from stdin, resolve, render the graph`)
}

func main() {
	rest := globalFlags(os.Args[1:])
	if len(rest) < 1 {
		usage()
		os.Exit(2)
	}
	var err error
	switch rest[0] {
	case "load":
		err = runLoad(rest[1:])
	case "save":
		err = runSave(rest[1:])
	case "run":
		err = runRun(rest[1:])
	case "graph":
		err = runGraph(rest[1:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "dappi: unknown subcommand %q\n", rest[0])
		os.Exit(2)
	}
	if err != nil {
		slog.Error("failed", "error", err)
		os.Exit(1)
	}
}

func runLoad(args []string) error {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	var typ string
	choiceFlag(fs, &typ, "t", map[string]string{"da": "da", "dal": "dal"}, "da", "Manifest type.")
	input := fs.String("i", "", "Input file `path`.")
	strict := fs.Bool("strict", false, "Fail with a nonzero exit status on malformed input.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("load: -i is required")
	}
	f, err := os.Open(*input)
	if err != nil {
		return err
	}
	defer f.Close()

	versions := map[string]string{}
	malformed := func(err error) error {
		if errors.Is(err, dappi.ErrMalformed) && !*strict {
			slog.WarnContext(context.Background(), "skipping malformed revision", "error", err)
			return nil
		}
		return err
	}
	switch typ {
	case "dal":
		lf, err := dappi.DecodeLockFile(f)
		if err != nil {
			return malformed(err)
		}
		for name, pkg := range lf.Packages {
			versions[name] = pkg.Version
		}
	case "da":
		m, err := dappi.DecodeManifest(f)
		if err != nil {
			return malformed(err)
		}
		for name, pkg := range m.Packages {
			versions[name] = pkg.Version
		}
	}
	return dappi.EmitLoadDirectives(os.Stdout, versions)
}

func runSave(args []string) error {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	output := fs.String("o", "", "Output lockfile `path`.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		return fmt.Errorf("save: -o is required")
	}
	st, p, err := dappi.Resolve(os.Stdin)
	if err != nil {
		return err
	}
	lf := dappi.BuildLockFile(st, p)
	var buf bytes.Buffer
	if err := lf.Encode(&buf); err != nil {
		return err
	}
	if existing, err := os.ReadFile(*output); err == nil && bytes.Equal(existing, buf.Bytes()) {
		slog.Debug("lockfile unchanged", "path", *output)
		return nil
	}
	return os.WriteFile(*output, buf.Bytes(), 0666)
}

func runRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, p, err := dappi.Resolve(os.Stdin)
	if err != nil {
		return err
	}
	return dappi.WriteDirectives(os.Stdout, p)
}

func runGraph(args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	var format string
	choiceFlag(fs, &format, "format", map[string]string{"tree": "tree", "dot": "dot"}, "tree", "Output `format`.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st, p, err := dappi.Resolve(os.Stdin)
	if err != nil {
		return err
	}
	sg := dappi.NewSelectionGraph(st, p)
	switch format {
	case "dot":
		return outputDot(sg)
	default:
		return outputTree(sg)
	}
}

func children(sg dappi.SelectionGraph, sel dappi.Selection) []dappi.Selection {
	return slices.SortedFunc(sg.DirectDeps(sel), dappi.SelectionCompare)
}

func outputTree(sg dappi.SelectionGraph) error {
	root := sg.Root()
	if root == (dappi.Selection{}) {
		fmt.Println("(no entry point selected)")
		return nil
	}
	seen := mapset.NewSet[dappi.Selection]()
	var visit func(sel dappi.Selection, indent int)
	visit = func(sel dappi.Selection, indent int) {
		wasSeen := !seen.Add(sel)
		fmt.Print(strings.Repeat("  ", indent))
		if wasSeen {
			fmt.Printf("%s%s\n", hiblackf("%v", sel), hiblackf(" (repeat)"))
			return
		}
		fmt.Println(hicyanf("%v", sel))
		for _, d := range children(sg, sel) {
			visit(d, indent+1)
		}
	}
	visit(root, 0)
	return nil
}

func outputDot(sg dappi.SelectionGraph) error {
	root := sg.Root()
	visited := mapset.NewSet[dappi.Selection]()
	var visit func(sel dappi.Selection)
	visit = func(sel dappi.Selection) {
		if !visited.Add(sel) {
			return
		}
		attrs := []string{}
		if sel == root {
			attrs = append(attrs, `fillcolor="black"`, `fontcolor="white"`)
		}
		fmt.Printf("  %q [%s];\n", sel, strings.Join(attrs, ","))
		for _, d := range children(sg, sel) {
			fmt.Printf("  %q -> %q;\n", sel, d)
			visit(d)
		}
	}
	fmt.Print("digraph {\n")
	fmt.Print("  node [style=filled,fillcolor=\"white\",shape=box];\n")
	if root != (dappi.Selection{}) {
		visit(root)
	}
	fmt.Print("}\n")
	return nil
}
