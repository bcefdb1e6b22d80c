package logging

import (
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"
)

const flags = log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile

var (
	InfoLogger  = log.New(os.Stdout, "\033[32m[INFO]\033[0m ", flags)
	ErrorLogger = log.New(os.Stderr, "\033[31m[ERROR]\033[0m ", flags)
	DebugLogger = log.New(io.Discard, "\033[36m[DEBUG]\033[0m ", flags)

	debugEnabled atomic.Bool
)

// Init points every logger at the terminal. Debug output is dropped unless
// debug is set.
func Init(debug bool) {
	InfoLogger = log.New(os.Stdout, "\033[32m[INFO]\033[0m ", flags)
	ErrorLogger = log.New(os.Stderr, "\033[31m[ERROR]\033[0m ", flags)
	setDebug(os.Stdout, "\033[36m[DEBUG]\033[0m ", debug)
}

// InitWriter sends all output to w without color codes. Used by the TUI,
// which owns the terminal, and by tests.
func InitWriter(w io.Writer, debug bool) {
	InfoLogger = log.New(w, "[INFO] ", flags)
	ErrorLogger = log.New(w, "[ERROR] ", flags)
	setDebug(w, "[DEBUG] ", debug)
}

func setDebug(w io.Writer, prefix string, debug bool) {
	debugEnabled.Store(debug)
	if !debug {
		w = io.Discard
	}
	DebugLogger = log.New(w, prefix, flags)
}

// DebugEnabled reports whether debug output is being written
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// LogRequest records one served HTTP request
func LogRequest(method, path, remoteAddr string, status int, duration time.Duration) {
	InfoLogger.Printf("%s %s %s %d %v", method, path, remoteAddr, status, duration)
}

// LogError records err with the operation that produced it
func LogError(err error, context string) {
	ErrorLogger.Printf("%s: %v", context, err)
}

// LogDebug records diagnostic detail
func LogDebug(format string, v ...interface{}) {
	DebugLogger.Printf(format, v...)
}

// LogInfo records general progress
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Printf(format, v...)
}
