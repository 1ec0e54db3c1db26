package siteerr

import (
	"fmt"
	"log/slog"
	"os"
)

// CLIAdapter handles error presentation and exit code determination for the
// command line entry point.
type CLIAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIAdapter creates a new CLI error adapter.
func NewCLIAdapter(verbose bool, logger *slog.Logger) *CLIAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	se, ok := err.(*Error)
	if !ok {
		return 1
	}
	switch se.Category {
	case CategoryConfig:
		return 2
	case CategoryData:
		return 3
	case CategoryPlugin:
		return 4
	case CategoryCopy, CategoryFrontMatter, CategoryPageData, CategoryRender:
		return 5
	case CategoryWatch:
		return 6
	default:
		return 1
	}
}

// FormatError formats an error for user-facing display.
func (a *CLIAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	se, ok := err.(*Error)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return se.Error()
	}
	switch se.Category {
	case CategoryConfig:
		return se.Message
	default:
		return fmt.Sprintf("%s: %s", se.Category, se.Message)
	}
}

// HandleError reports an error and exits with the mapped code.
func (a *CLIAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	if a.verbose {
		a.logger.Error("command failed", "error", err)
	}
	fmt.Fprintf(os.Stderr, "%s\n", a.FormatError(err))
	os.Exit(a.ExitCodeFor(err))
}
