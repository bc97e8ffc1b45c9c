package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		stderr:  os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if stdErrors.Is(err, context.Canceled) {
		return 130
	}

	if te, ok := As(err); ok {
		return a.exitCodeFromTopsoil(te)
	}

	return 1
}

// exitCodeFromTopsoil maps TopsoilError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromTopsoil(err *TopsoilError) int {
	switch err.Category {
	case CategoryValidation, CategoryData, CategoryTemplate:
		return 2 // Invalid site input
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryBuild, CategoryFileSystem:
		return 11 // Build error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if a.verbose {
		return fmt.Sprintf("Error: %v", err)
	}

	if te, ok := As(err); ok {
		return a.formatTopsoil(te)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatTopsoil formats a TopsoilError for display.
func (a *CLIErrorAdapter) formatTopsoil(err *TopsoilError) string {
	msg := err.Message
	if file, ok := err.Context["file"]; ok {
		msg = fmt.Sprintf("%s (%v)", msg, file)
	} else if path, ok := err.Context["path"]; ok {
		msg = fmt.Sprintf("%s (%v)", msg, path)
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation:
		return msg
	default:
		return fmt.Sprintf("%s: %s", err.Category, msg)
	}
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	a.logError(err)

	_, _ = fmt.Fprintf(a.stderr, "%s\n", a.FormatError(err))
	a.exit(exitCode)
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if te, ok := As(err); ok {
		attrs := []slog.Attr{
			slog.String("category", string(te.Category)),
			slog.String("error", err.Error()),
		}
		for k, v := range te.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		a.logger.LogAttrs(context.Background(), a.slogLevelFromSeverity(te.Severity), "Build failed", attrs...)
		return
	}

	a.logger.Error("Build failed", "error", err)
}

// slogLevelFromSeverity converts TopsoilError severity to slog level.
func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
