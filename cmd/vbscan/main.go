// vbscan - lexical scanner and checker for VisiBoole designs
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/visiboole/Visiboole-sub000/pkg/codegen"
	"github.com/visiboole/Visiboole-sub000/pkg/design"
	"github.com/visiboole/Visiboole-sub000/pkg/lexer"
	"github.com/visiboole/Visiboole-sub000/pkg/namespace"
	"github.com/visiboole/Visiboole-sub000/pkg/session"
)

const versionStr = "0.3.0"

const historyFile = ".vbscan_history"

// multiFlag collects repeated flag values.
type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error { *m = append(*m, v); return nil }

func usage() {
	fmt.Fprintf(os.Stderr, "vbscan - lexical scanner and checker for VisiBoole designs\n\n")
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  vbscan tokens <design.vbi>         print the token stream per statement\n")
	fmt.Fprintf(os.Stderr, "  vbscan check [options] <design.vbi>  scan a design and report diagnostics\n")
	fmt.Fprintf(os.Stderr, "  vbscan expand <design.vbi>         print the scalar-equivalent statements\n")
	fmt.Fprintf(os.Stderr, "  vbscan gen [options] <design.vbi>  generate a Go evaluator for the design\n")
	fmt.Fprintf(os.Stderr, "  vbscan sessions <design>           list recorded scan sessions for a design\n")
	fmt.Fprintf(os.Stderr, "  vbscan repl                        interactive statement scanner\n")
	fmt.Fprintf(os.Stderr, "  vbscan version                     print version and exit\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  -lib <dir>      additional library directory (repeatable)\n")
	fmt.Fprintf(os.Stderr, "  -json           dump statements and tokens as JSON (tokens)\n")
	fmt.Fprintf(os.Stderr, "  -session        record the scan outcome to the session store (check)\n")
	fmt.Fprintf(os.Stderr, "  -pkg <name>     package name for generated code (gen, default: main)\n")
	fmt.Fprintf(os.Stderr, "  -o <file>       output file for generated code (gen, default: stdout)\n")
}

func main() {
	flag.Usage = usage
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var code int
	switch os.Args[1] {
	case "tokens":
		code = cmdTokens(os.Args[2:])
	case "check":
		code = cmdCheck(os.Args[2:])
	case "expand":
		code = cmdExpand(os.Args[2:])
	case "gen":
		code = cmdGen(os.Args[2:])
	case "sessions":
		code = cmdSessions(os.Args[2:])
	case "repl":
		code = cmdRepl()
	case "version":
		fmt.Printf("vbscan version %s\n", versionStr)
	case "help", "-h", "-help", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", os.Args[1])
		usage()
		code = 2
	}
	os.Exit(code)
}

// parseDesign scans the design file named by the first positional
// argument, after applying -lib flags.
func parseDesign(fs *flag.FlagSet, libs *multiFlag, args []string) (*design.Design, *design.Result, int) {
	if err := fs.Parse(args); err != nil {
		return nil, nil, 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one design file\n")
		return nil, nil, 2
	}

	d := design.New(fs.Arg(0), *libs...)
	res, err := d.ParseFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, nil, 1
	}
	return d, res, 0
}

func cmdTokens(args []string) int {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)
	var libs multiFlag
	fs.Var(&libs, "lib", "additional library directory")
	asJSON := fs.Bool("json", false, "dump statements and tokens as JSON")

	_, res, code := parseDesign(fs, &libs, args)
	if code != 0 {
		return code
	}

	if *asJSON {
		data, err := json.MarshalIndent(res.Statements, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		printLog(res)
		if res.Log.Len() > 0 {
			return 1
		}
		return 0
	}

	for _, stmt := range res.Statements {
		fmt.Printf("%d: %s [%s]\n", stmt.Line, strings.TrimSpace(stmt.Text), stmt.Type)
		for _, t := range stmt.Tokens {
			if t.IsWhitespace() {
				continue
			}
			fmt.Printf("    %-14s %q\n", t.Type, t.Value)
		}
	}
	printLog(res)
	if res.Log.Len() > 0 {
		return 1
	}
	return 0
}

func cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var libs multiFlag
	fs.Var(&libs, "lib", "additional library directory")
	record := fs.Bool("session", false, "record the scan outcome to the session store")

	d, res, code := parseDesign(fs, &libs, args)
	if code != 0 {
		return code
	}

	printLog(res)

	if *record {
		if err := recordSession(d, res); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record session: %v\n", err)
		}
	}

	if res.Log.Len() > 0 {
		fmt.Fprintf(os.Stderr, "%s: %d error(s)\n", d.Name, res.Log.Len())
		return 1
	}
	fmt.Printf("%s: ok (%d statements)\n", d.Name, len(res.Statements))
	return 0
}

func cmdExpand(args []string) int {
	fs := flag.NewFlagSet("expand", flag.ExitOnError)
	var libs multiFlag
	fs.Var(&libs, "lib", "additional library directory")

	_, res, code := parseDesign(fs, &libs, args)
	if code != 0 {
		return code
	}

	for _, text := range res.Expanded {
		fmt.Println(text)
	}
	printLog(res)
	if res.Log.Len() > 0 {
		return 1
	}
	return 0
}

func cmdGen(args []string) int {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	var libs multiFlag
	fs.Var(&libs, "lib", "additional library directory")
	pkgName := fs.String("pkg", "main", "package name for generated code")
	outPath := fs.String("o", "", "output file (default: stdout)")

	d, res, code := parseDesign(fs, &libs, args)
	if code != 0 {
		return code
	}

	if res.Log.Len() > 0 {
		printLog(res)
		fmt.Fprintf(os.Stderr, "%s: cannot generate code from a design with errors\n", d.Name)
		return 1
	}

	gen, err := codegen.Generate(*pkgName, res)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	for _, s := range gen.Skipped {
		fmt.Fprintf(os.Stderr, "vbscan: line %d skipped: %s\n", s.Line, s.Reason)
	}
	for _, w := range gen.Warnings {
		fmt.Fprintf(os.Stderr, "vbscan: warning: %s\n", w)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(gen.Code), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Print(gen.Code)
	return 0
}

func cmdSessions(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one design name\n")
		return 2
	}

	store, err := session.Open(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	ids, err := store.FindByDesign(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, id := range ids {
		s, err := store.Load(id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			continue
		}
		fmt.Printf("%s  %s  %d diagnostic(s)\n", s.CreatedAt, id, len(s.Diagnostics))
	}
	return 0
}

func recordSession(d *design.Design, res *design.Result) error {
	store, err := session.Open(nil)
	if err != nil {
		return err
	}
	defer store.Close()

	namespaces := make(map[string][]int)
	for _, name := range d.Registry.Names() {
		namespaces[name] = d.Registry.Bits(name)
	}

	id, err := store.Record(d.Name, res.Log.Lines(), namespaces, d.Subdesigns())
	if err != nil {
		return err
	}
	fmt.Printf("recorded session %s\n", id)
	return nil
}

func printLog(res *design.Result) {
	for _, line := range res.Log.Lines() {
		fmt.Fprintln(os.Stderr, red(line))
	}
}

// ---- REPL ------------------------------------------------------------------

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

const replBanner = `vbscan repl - type statements ending in ';' (":help" for commands)`

func cmdRepl() int {
	fmt.Println(replBanner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	lx := newReplLexer()
	lineNo := 1

	for {
		text, err := ln.Prompt("vb> ")
		if err != nil { // Ctrl+D or Ctrl+C
			fmt.Println()
			break
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		ln.AppendHistory(text)

		if strings.HasPrefix(strings.TrimSpace(text), ":") {
			var done bool
			lx, done = handleReplCommand(lx, text)
			if done {
				break
			}
			continue
		}

		stmt, diags := lx.ScanStatement(text, lineNo)
		lineNo++
		if len(diags) > 0 {
			for _, d := range diags {
				fmt.Println(red(d.String()))
			}
			continue
		}
		fmt.Println(green(string(stmt.Type)))
		for _, t := range stmt.Tokens {
			if t.IsWhitespace() {
				continue
			}
			fmt.Printf("  %-14s %q\n", blue(string(t.Type)), t.Value)
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

func newReplLexer() *lexer.Lexer {
	return lexer.New(lexer.NewContext("repl", namespace.NewRegistry(), nil))
}

// handleReplCommand handles :help, :names, :reset, :quit.
func handleReplCommand(lx *lexer.Lexer, line string) (*lexer.Lexer, bool) {
	switch strings.TrimSpace(line) {
	case ":help":
		fmt.Println("  :names   list declared namespaces and their bits")
		fmt.Println("  :reset   clear all declared namespaces")
		fmt.Println("  :quit    exit")
	case ":names":
		reg := lx.Context().Registry
		for _, name := range reg.Names() {
			if reg.IsScalar(name) {
				fmt.Printf("  %s (scalar)\n", name)
			} else {
				fmt.Printf("  %s %v\n", name, reg.Bits(name))
			}
		}
	case ":reset":
		return newReplLexer(), false
	case ":quit", ":q", ":exit":
		return lx, true
	default:
		fmt.Println(red(fmt.Sprintf("unknown command %q (try :help)", strings.TrimSpace(line))))
	}
	return lx, false
}
