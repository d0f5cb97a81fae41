package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/dailyspark/internal/logger"
)

// stderr is swapped in tests
var stderr io.Writer = os.Stderr

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// FormatWarning formats a non-fatal problem with a "Warning: " prefix
func FormatWarning(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Warning: %v", err)
}

// Warn reports a non-fatal error to the user and the log without interrupting the command
func Warn(msg string, err error) {
	if err == nil {
		return
	}
	logger.Warn(msg, "error", err)
	fmt.Fprintf(stderr, "%s\n", FormatWarning(fmt.Errorf("%s: %w", msg, err)))
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
