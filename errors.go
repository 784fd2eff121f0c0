package ncc

import (
	"fmt"

	"github.com/nartov/ncc/ascii"
)

// ErrorKind classifies a CompileError by the taxonomy the diagnostic
// channel reports: lexical, syntactic, or semantic.
type ErrorKind int

const (
	ErrLexical ErrorKind = iota
	ErrSyntactic
	ErrSemantic
)

func (k ErrorKind) String() string {
	switch k {
	case ErrLexical:
		return "lexical"
	case ErrSyntactic:
		return "syntactic"
	case ErrSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// Severity is the severity of a diagnostic line.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// CompileError is the single error type raised by the lexer, parser
// and semantic analyzer. It carries everything the diagnostic line
// format (`<line>, <column>: <severity>: <text>`) needs.
type CompileError struct {
	Kind     ErrorKind
	Pos      Position
	Severity Severity
	Message  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Severity, e.Message)
}

// Colored renders the same line as Error, with the severity word
// wrapped in the terminal color the driver's diagnostic theme assigns
// to it.
func (e *CompileError) Colored() string {
	color := ascii.DefaultTheme.Info
	switch e.Severity {
	case SeverityError:
		color = ascii.DefaultTheme.Error
	case SeverityWarning:
		color = ascii.DefaultTheme.Warning
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, ascii.Color(color, e.Severity.String()), e.Message)
}

func newError(kind ErrorKind, pos Position, format string, args ...interface{}) *CompileError {
	return &CompileError{
		Kind:     kind,
		Pos:      pos,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
}

func lexError(pos Position, format string, args ...interface{}) *CompileError {
	return newError(ErrLexical, pos, format, args...)
}

func syntaxError(pos Position, format string, args ...interface{}) *CompileError {
	return newError(ErrSyntactic, pos, format, args...)
}

func semanticError(pos Position, format string, args ...interface{}) *CompileError {
	return newError(ErrSemantic, pos, format, args...)
}

func warning(pos Position, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: ErrSemantic, Pos: pos, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// CLIExitCode enumerates the non-zero exit codes the driver returns.
type CLIExitCode int

const (
	ExitOK CLIExitCode = iota
	ExitTooFewArgs
	ExitInvalidArgs
	ExitNoInput
	ExitTooManyInputs
	ExitCompileError
	ExitIOError
)

// CLIError describes an argument-parsing failure and carries its own
// exit code rather than a {kind, position} pair. cmd/ncc does not
// construct one: it reports argument and file errors through
// log.Fatal.
type CLIError struct {
	Code    CLIExitCode
	Message string
}

func (e *CLIError) Error() string {
	return e.Message
}

func cliError(code CLIExitCode, format string, args ...interface{}) *CLIError {
	return &CLIError{Code: code, Message: fmt.Sprintf(format, args...)}
}
