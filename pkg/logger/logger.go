// Package logger is a small leveled printf logger shared by the CLI,
// server and agent.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu           sync.Mutex
	debugEnabled bool
	quiet        bool
	out          io.Writer = os.Stdout
	errOut       io.Writer = os.Stderr
)

// SetOutput redirects standard and error output, mostly for tests.
func SetOutput(stdout, stderr io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = stdout
	errOut = stderr
}

// SetDebug turns Debugf output on or off and returns the previous setting.
func SetDebug(on bool) bool {
	mu.Lock()
	defer mu.Unlock()
	prev := debugEnabled
	debugEnabled = on
	return prev
}

func DebugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return debugEnabled
}

// SetQuiet suppresses Infof and returns the previous setting. Warnings and
// errors still print.
func SetQuiet(on bool) bool {
	mu.Lock()
	defer mu.Unlock()
	prev := quiet
	quiet = on
	return prev
}

func Quiet() bool {
	mu.Lock()
	defer mu.Unlock()
	return quiet
}

// write prints when enabled reports true for the current settings.
func write(enabled func() bool, w func() io.Writer, prefix, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if enabled != nil && !enabled() {
		return
	}
	fmt.Fprintf(w(), prefix+format+"\n", args...)
}

func stdout() io.Writer { return out }
func stderr() io.Writer { return errOut }

// Debugf prints messages only if debug output is enabled
func Debugf(format string, args ...interface{}) {
	write(func() bool { return debugEnabled }, stdout, "[DEBUG] ", format, args...)
}

// Infof prints messages unless quiet
func Infof(format string, args ...interface{}) {
	write(func() bool { return !quiet }, stdout, "", format, args...)
}

func Warnf(format string, args ...interface{}) {
	write(nil, stderr, "Warning: ", format, args...)
}

func Errorf(format string, args ...interface{}) {
	write(nil, stderr, "Error: ", format, args...)
}
