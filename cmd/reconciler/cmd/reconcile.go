package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"bankbook-reconciliation-service/cmd/reconciler/config"
	"bankbook-reconciliation-service/internal/reconciler"
	"bankbook-reconciliation-service/internal/reporter"
	apperrors "bankbook-reconciliation-service/pkg/errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the reconcile command
var (
	bankFile       string
	bookFile       string
	outputFormat   string
	outputFile     string
	includeMatched bool
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a bank statement feed with the bookkeeping ledger",
	Long: `Reconcile compares bank statement records with internal book entries
to identify matches, amount variances, probable fuzzy pairs, and records
missing from either side.

This command requires:
- A bank statement file (CSV format)
- A bookkeeping ledger file (CSV format)

Examples:
  # Basic reconciliation with console output
  reconciler reconcile --bank-file statement.csv --book-file ledger.csv

  # JSON output to a file
  reconciler reconcile --bank-file statement.csv --book-file ledger.csv \
    --output-format json --output-file result.json

  # Include clean matches in the console listing
  reconciler reconcile --bank-file statement.csv --book-file ledger.csv --include-matched`,

	PreRunE: validateReconcileFlags,
	RunE:    runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVarP(&bankFile, "bank-file", "b", "", "path to bank statement CSV file (required)")
	reconcileCmd.Flags().StringVarP(&bookFile, "book-file", "k", "", "path to bookkeeping ledger CSV file (required)")

	reconcileCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json")
	reconcileCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")
	reconcileCmd.Flags().BoolVar(&includeMatched, "include-matched", false, "list clean matches in console output")

	reconcileCmd.MarkFlagRequired("bank-file")
	reconcileCmd.MarkFlagRequired("book-file")

	viper.BindPFlag("bank-file", reconcileCmd.Flags().Lookup("bank-file"))
	viper.BindPFlag("book-file", reconcileCmd.Flags().Lookup("book-file"))
	viper.BindPFlag("output-format", reconcileCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", reconcileCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("include-matched", reconcileCmd.Flags().Lookup("include-matched"))
}

func validateReconcileFlags(cmd *cobra.Command, args []string) error {
	// Viper values allow overrides from config file and environment.
	bankFile = viper.GetString("bank-file")
	bookFile = viper.GetString("book-file")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	includeMatched = viper.GetBool("include-matched")

	if bankFile == "" {
		return fmt.Errorf("bank-file is required")
	}
	if bookFile == "" {
		return fmt.Errorf("book-file is required")
	}

	if err := validateFileExists(bankFile, "bank statement file"); err != nil {
		return err
	}
	if err := validateFileExists(bookFile, "bookkeeping ledger file"); err != nil {
		return err
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json", outputFormat)
	}

	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return apperrors.FileError(apperrors.CodeFileNotFound, filePath, err)
	}
	if err != nil {
		return apperrors.FileError(apperrors.CodeFileUnreadable, filePath, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting reconciliation...\n")
		fmt.Fprintf(os.Stderr, "Bank file: %s\n", bankFile)
		fmt.Fprintf(os.Stderr, "Book file: %s\n", bookFile)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
	}

	bankContent, err := readInputFile(bankFile)
	if err != nil {
		return err
	}
	bookContent, err := readInputFile(bookFile)
	if err != nil {
		return err
	}

	serviceConfig := config.CreateServiceConfig()
	service, err := reconciler.NewService(serviceConfig)
	if err != nil {
		return fmt.Errorf("failed to create reconciliation service: %w", err)
	}

	result, err := service.Reconcile(ctx, bankContent, bookContent)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	reportConfig := config.CreateReportConfig(outputFormat, includeMatched)
	generator, err := reporter.NewReportGenerator(reportConfig)
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	var output *os.File
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	if err := generator.Generate(result, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nReconciliation completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Processed %d bank records and %d book records.\n",
			result.Stats.TotalBank, result.Stats.TotalBook)
		fmt.Fprintf(os.Stderr, "Found %d matches and %d items requiring review.\n",
			result.Stats.MatchedCount, result.Stats.FlaggedForReview())
	}

	return nil
}

// readInputFile loads one ledger file into memory. The engine itself
// performs no I/O; unreadable files surface here as file-category errors.
func readInputFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.FileError(apperrors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return "", apperrors.FileError(apperrors.CodeFilePermission, path, err)
		}
		return "", apperrors.FileError(apperrors.CodeFileUnreadable, path, err)
	}
	return string(data), nil
}
