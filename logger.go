package ncc

import (
	"io"
	"log"
	"os"
)

// Logger carries non-fatal driver messages. No compiler stage calls
// Info or Warn; unreachable-code elimination drops statements without
// logging a warning. Hard errors travel through the diagnostic channel
// (CompileError), never through here.
type Logger struct {
	infoLog *log.Logger
	warnLog *log.Logger
}

// NewLogger builds a Logger writing to w with the teacher's plain,
// prefix-only `log` idiom rather than a structured logging library.
func NewLogger(w io.Writer) *Logger {
	return &Logger{
		infoLog: log.New(w, "ncc: info: ", 0),
		warnLog: log.New(w, "ncc: warning: ", 0),
	}
}

var defaultLogger = NewLogger(os.Stderr)

func (l *Logger) Info(format string, args ...interface{}) {
	l.infoLog.Printf(format, args...)
}

func (l *Logger) Warn(pos Position, format string, args ...interface{}) {
	l.warnLog.Printf("%s: "+format, append([]interface{}{pos}, args...)...)
}
