package yarngpt

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
)

// Logger is the minimal structured logging interface used for debug output.
// Pair it with DebugConfig flags to control what gets logged.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// DebugConfig selects which client events are logged when a Logger is set.
type DebugConfig struct {
	Enabled      bool
	LogRequests  bool
	LogRetries   bool
	LogRateLimit bool
	RequestIDGen func() string
}

// DefaultDebugConfig returns a config with all event classes enabled but the
// master switch off.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogRetries:   true,
		LogRateLimit: true,
		RequestIDGen: defaultRequestIDGen,
	}
}

func defaultRequestIDGen() string {
	return fmt.Sprintf("req_%08x", rand.Uint32())
}

// SimpleLogger writes leveled key=value lines to stderr via the standard log
// package. Adequate for examples and debugging; production callers usually
// plug in NewZapLogger instead.
type SimpleLogger struct {
	logger *log.Logger
}

// NewSimpleLogger creates a stderr-backed SimpleLogger.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{logger: log.New(os.Stderr, "yarngpt: ", log.LstdFlags)}
}

func (l *SimpleLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.print("DEBUG", msg, keysAndValues)
}

func (l *SimpleLogger) Info(msg string, keysAndValues ...interface{}) {
	l.print("INFO", msg, keysAndValues)
}

func (l *SimpleLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.print("WARN", msg, keysAndValues)
}

func (l *SimpleLogger) Error(msg string, keysAndValues ...interface{}) {
	l.print("ERROR", msg, keysAndValues)
}

func (l *SimpleLogger) print(level, msg string, keysAndValues []interface{}) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	l.logger.Println(b.String())
}
