package cmd

import (
	"fmt"
	"os"

	apperrors "bankbook-reconciliation-service/pkg/errors"
	"bankbook-reconciliation-service/pkg/logger"

	"github.com/spf13/viper"
)

// HandleError prints a user-friendly message for a failed command and
// returns the process exit code.
func HandleError(err error) int {
	if err == nil {
		return 0
	}

	log := logger.GetGlobalLogger().WithComponent("cli")
	log.WithError(err).Error("Command failed")

	if appErr, ok := apperrors.AsReconcileError(err); ok {
		return handleReconcileError(appErr)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

// handleReconcileError renders a ReconcileError with its suggestion and
// context, and maps its category to an exit code.
func handleReconcileError(err *apperrors.ReconcileError) int {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Message)

	if err.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "\nSuggestion: %s\n", err.Suggestion)
	}

	if viper.GetBool("verbose") {
		if len(err.Context) > 0 {
			fmt.Fprintf(os.Stderr, "\nContext:\n")
			for key, value := range err.Context {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", key, value)
			}
		}
		if err.Cause != nil {
			fmt.Fprintf(os.Stderr, "\nUnderlying error: %v\n", err.Cause)
		}
	}

	return err.GetExitCode()
}
