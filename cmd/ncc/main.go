package main

import (
	"fmt"
	"log"
	"os"

	"flag"

	ncc "github.com/nartov/ncc"
)

var isTerminal = func() bool {
	fi, err := os.Stderr.Stat()
	return err == nil && (fi.Mode()&os.ModeCharDevice) != 0
}()

const defaultWritePermission = 0644 // -rw-r--r--

type args struct {
	inputPath  *string
	outputPath *string

	scanOnly  *bool
	parseOnly *bool

	parserLinear *bool
	symbolsDump  *bool

	optimize *bool
}

func readArgs() *args {
	a := &args{
		inputPath:  flag.String("input", "", "Path to the C source file"),
		outputPath: flag.String("output", "/dev/stdout", "Path to the output file"),

		scanOnly:  flag.Bool("scan-only", false, "Stop after lexing and dump the token stream"),
		parseOnly: flag.Bool("parse-only", false, "Stop after parsing and dump the translation unit"),

		parserLinear: flag.Bool("parse-linear", false, "Dump the parse tree in linear form instead of as a tree"),
		symbolsDump:  flag.Bool("symbols", false, "Dump the symbol table instead of the parse tree"),

		optimize: flag.Bool("O", false, "Run constant folding, unreachable code elimination, loop-invariant hoisting and peephole optimization"),
	}
	flag.Parse()
	return a
}

func main() {
	a := readArgs()

	if *a.inputPath == "" {
		log.Fatal("Input file not informed")
	}

	src, err := os.ReadFile(*a.inputPath)
	if err != nil {
		log.Fatalf("Can't read input file: %s", err.Error())
	}

	cfg := ncc.NewConfig()
	switch {
	case *a.scanOnly:
		cfg.SetInt("mode", int(ncc.ModeScan))
	case *a.parseOnly:
		cfg.SetInt("mode", int(ncc.ModeParse))
	default:
		cfg.SetInt("mode", int(ncc.ModeGenerate))
	}
	if *a.parserLinear {
		cfg.SetInt("parser.output_mode", int(ncc.ParserOutputLinear))
	}
	cfg.SetBool("symbols.dump", *a.symbolsDump)
	cfg.SetBool("optimize", *a.optimize)

	driver := ncc.NewDriver(cfg)
	output, errs := driver.Compile(src)
	if len(errs) > 0 {
		for _, e := range errs {
			if isTerminal {
				fmt.Fprintln(os.Stderr, e.Colored())
			} else {
				fmt.Fprintln(os.Stderr, e.Error())
			}
		}
		os.Exit(int(ncc.ExitCompileError))
	}

	if err := os.WriteFile(*a.outputPath, []byte(output), defaultWritePermission); err != nil {
		log.Fatalf("Can't write output: %s", err.Error())
	}
}
