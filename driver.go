package ncc

// Driver wires the compiler's stages together: scan, parse, check,
// optionally optimize, generate, optionally peephole-optimize, and
// render whatever Config.Mode asks for. ModeScan and ModeParse stop
// early and return a dump instead of assembly, for debugging a
// translation unit without running it all the way through.
type Driver struct {
	cfg    *Config
	logger *Logger
}

func NewDriver(cfg *Config) *Driver {
	return &Driver{cfg: cfg, logger: defaultLogger}
}

// Compile runs src through the configured pipeline and returns either
// the requested text output or the diagnostics collected along the
// way. It stops at the first stage that reports an error: a malformed
// scan makes parsing meaningless, and a parse (which performs type and
// lvalue checking as it reduces each declaration, statement and
// expression) that reports any lexical, syntactic or semantic error
// makes everything past it meaningless.
func (d *Driver) Compile(src []byte) (string, []*CompileError) {
	lexer := NewLexer(src)

	if d.cfg.Mode() == ModeScan {
		var tokens []Token
		for {
			tok := lexer.AdvanceToNextToken()
			tokens = append(tokens, tok)
			if tok.IsEOF() {
				break
			}
		}
		if errs := lexer.Errors(); len(errs) > 0 {
			return "", errs
		}
		return DumpTokens(tokens), nil
	}

	ts := NewTokenStream(lexer)
	parser := NewParser(ts, d.cfg)
	tu := parser.ParseTranslationUnit()
	if errs := lexer.Errors(); len(errs) > 0 {
		return "", errs
	}
	if errs := parser.Errors(); len(errs) > 0 {
		return "", errs
	}

	if d.cfg.Mode() == ModeParse {
		if d.cfg.SymbolsDump() {
			return DumpSymbols(tu), nil
		}
		return DumpParseTree(tu, d.cfg.ParserOutputMode()), nil
	}

	if d.cfg.Optimize() {
		for _, fn := range tu.Globals.Functions() {
			if fn.Body == nil {
				continue
			}
			FoldConstants(fn.Body)
			EliminateUnreachable(fn.Body)
			HoistLoopInvariants(fn)
		}
	}

	gen := NewCodeGenerator(tu.Types, d.logger, d.cfg.Optimize())
	asm := gen.GenerateProgram(tu)
	if errs := gen.Errors(); len(errs) > 0 {
		return "", errs
	}

	if d.cfg.Optimize() {
		RunPeepholeOptimizer(asm)
	}

	return asm.String(), nil
}
