// Command compiscriptc drives the Compiscript pipeline end to end:
// lexing, parsing, semantic analysis, TAC lowering and MIPS-32
// generation, printing whichever stages -emit asks for.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"compiscript/internal/lexer"
	"compiscript/internal/parser"
	"compiscript/internal/replui"
	"compiscript/pkg/cache"
	"compiscript/pkg/mips"
	"compiscript/pkg/semantic"
	"compiscript/pkg/tac"
)

func main() {
	inPath := flag.String("in", "", "input .cps source path (default: read stdin)")
	emit := flag.String("emit", "mips", "pipeline stage to print: tokens, ast, tac, mips")
	fromTAC := flag.Bool("from-tac", false, "treat -in as a textual TAC listing and skip straight to MIPS generation")
	repl := flag.Bool("repl", false, "start an interactive read-eval-print loop instead of compiling a file")
	cachePath := flag.String("cache", "", "sqlite3 path for a source-hash -> MIPS output cache (disabled if empty)")
	flag.Parse()

	if *repl {
		show := replui.ShowMIPS
		if *emit == "tac" {
			show = replui.ShowTAC
		}
		replui.Start(show)
		return
	}

	var src []byte
	var err error
	if *inPath != "" {
		src, err = os.ReadFile(*inPath)
	} else {
		src, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "read error:", err)
		os.Exit(1)
	}

	if *fromTAC {
		asm, err := mips.GenerateText(string(src))
		if err != nil {
			fmt.Fprintln(os.Stderr, "mips error:", err)
			os.Exit(1)
		}
		fmt.Print(asm)
		return
	}

	tokens, err := lexer.Lex(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, "lex error:", err)
		os.Exit(1)
	}
	if *emit == "tokens" {
		for _, t := range tokens {
			fmt.Println(t)
		}
		return
	}

	prog, err := parser.Parse(tokens)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}
	if *emit == "ast" {
		fmt.Println(prog)
		return
	}

	analyzer := semantic.New()
	analyzer.Analyze(prog)
	if analyzer.Diagnostics().Len() > 0 {
		for _, d := range analyzer.Diagnostics().Strings() {
			fmt.Fprintln(os.Stderr, d)
		}
		os.Exit(1)
	}

	generator := tac.New(analyzer.Table())
	instrs, text := generator.Generate(prog)
	if *emit == "tac" {
		fmt.Print(text)
		return
	}

	if *cachePath != "" {
		store, err := cache.Open(*cachePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cache error:", err)
			os.Exit(1)
		}
		defer store.Close()

		hash := cache.Hash(string(src))
		if hit, ok, err := store.Lookup(hash); err == nil && ok {
			fmt.Print(hit)
			return
		}
		asm := mips.Generate(instrs)
		if err := store.Store(hash, asm); err != nil {
			fmt.Fprintln(os.Stderr, "cache error:", err)
		}
		fmt.Print(asm)
		return
	}

	fmt.Print(mips.Generate(instrs))
}
