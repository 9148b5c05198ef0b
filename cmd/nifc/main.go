// Command nifc is the compiler-core CLI: it assembles a NIF module
// into AMD64 Intel-syntax assembly, looks up symbols through the
// module loader, or drops into an interactive L0 REPL, selected by a
// leading mode argument.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/nifc-lang/nifc/internal/diag"
	"github.com/nifc-lang/nifc/internal/emitter"
	"github.com/nifc-lang/nifc/internal/loader"
	"github.com/nifc-lang/nifc/internal/nif"
	"github.com/nifc-lang/nifc/internal/repl"
)

var t2s = strings.NewReplacer("\t", "  ")

func usage() {
	fmt.Fprint(os.Stderr, t2s.Replace(`
Usage: nifc {-c | -l | -r} [options...] <file>

 -c: COMPILE (default)

	-o <file>          output file name

 -l: LOOKUP

	-module <suffix>   module suffix to resolve
	-sym <name>        symbol name within the module

 -r: REPL

	-no-color          disable colored REPL output

 -h: HELP

`))
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	mode := os.Args[1]
	switch {
	case mode == "-c":
		compile(os.Args[2:])
	case mode == "-l":
		lookup(os.Args[2:])
	case mode == "-r":
		replMode(os.Args[2:])
	case mode == "-h", mode == "-help", mode == "--help":
		usage()
		os.Exit(0)
	default:
		compile(os.Args[1:])
	}
}

const inputLimit = 10 * 1024 * 1024

func compile(args []string) {
	var (
		fs         = newFlagSet("-c")
		outputFile = fs.String("o", "", "")
	)
	parseFlags(fs, args)

	file := fileArg(fs)
	var src []byte
	var err error
	if file == "-" {
		src, err = io.ReadAll(io.LimitReader(os.Stdin, inputLimit))
		file = "<stdin>"
	} else {
		src, err = os.ReadFile(file)
	}
	if err != nil {
		exit(1, err)
	}

	buf, derr := nif.Decode(file, src)
	if derr != nil {
		printDiag(derr)
		os.Exit(1)
	}

	output := os.Stdout
	if *outputFile != "" {
		output, err = os.OpenFile(*outputFile, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
		if err != nil {
			exit(1, err)
		}
		defer output.Close()
	}

	if err := emitter.GenModule(output, buf); err != nil {
		if de, ok := err.(*diag.Error); ok {
			printDiag(de)
		} else {
			color.New(color.FgRed).Fprintf(os.Stdout, "%s\n", err)
		}
		os.Exit(1)
	}
}

func lookup(args []string) {
	var (
		fs     = newFlagSet("-l")
		module = fs.String("module", "", "")
		sym    = fs.String("sym", "", "")
	)
	parseFlags(fs, args)

	file := fileArg(fs)
	if *module == "" || *sym == "" {
		exit(2, fmt.Errorf("need both -module and -sym"))
	}

	wd := filepath.Dir(file)
	ld := loader.New(os.DirFS(wd))
	status, cur := ld.TryLoadSym(loader.SymID{ModuleSuffix: *module, Name: *sym})
	switch status {
	case loader.LacksNothing:
		pos := cur.Pos()
		fmt.Printf("%s found at %s(%d, %d)\n", *sym, pos.File, pos.Line, pos.Col)
	default:
		fmt.Printf("%s: %s\n", *sym, status)
		os.Exit(1)
	}
}

func replMode(args []string) {
	var (
		fs      = newFlagSet("-r")
		noColor = fs.Bool("no-color", false, "")
	)
	parseFlags(fs, args)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "nifc> ",
		HistoryFile:     historyFilePath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		exit(1, err)
	}
	defer rl.Close()

	if err := repl.Run(rl, !*noColor); err != nil {
		exit(1, err)
	}
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nifc_history")
}

func printDiag(de *diag.Error) {
	color.New(color.FgRed).Fprintf(os.Stdout, "%s\n", de)
}

func newFlagSet(mode string) *flag.FlagSet {
	fs := flag.NewFlagSet("nifc "+mode, flag.ContinueOnError)
	fs.Usage = usage
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		exit(2, err)
	}
}

func fileArg(fs *flag.FlagSet) string {
	switch fs.NArg() {
	case 1:
		return fs.Arg(0)
	case 0:
		exit(2, fmt.Errorf("need file name as argument"))
	default:
		exit(2, fmt.Errorf("too many arguments"))
	}
	return ""
}

func exit(code int, err error) {
	if err == nil || err == flag.ErrHelp {
		os.Exit(0)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(code)
}
