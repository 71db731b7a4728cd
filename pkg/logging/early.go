package logging

import (
	"fmt"
	"os"
)

// EarlyLog reports startup failures to stderr before the structured
// logger is configured. Callers return the error afterwards so the
// process exits through the normal command path.
type EarlyLog struct{}

func NewEarlyLog() *EarlyLog {
	return &EarlyLog{}
}

func (l *EarlyLog) Error(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ERROR: "+msg+"\n", args...)
}
