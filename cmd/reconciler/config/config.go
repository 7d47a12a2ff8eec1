// Package config assembles engine and reporting configurations from CLI
// flags and viper-bound settings.
package config

import (
	"bankbook-reconciliation-service/internal/reconciler"
	"bankbook-reconciliation-service/internal/reporter"
)

// CreateServiceConfig creates the reconciliation service configuration. The
// matching thresholds are fixed by the reconciliation contract; only the
// defaults are used here.
func CreateServiceConfig() *reconciler.Config {
	return reconciler.DefaultConfig()
}

// CreateReportConfig creates a report configuration for the specified output
// format.
func CreateReportConfig(format string, includeMatched bool) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()
	config.IncludeMatched = includeMatched

	switch format {
	case "json":
		config.Format = reporter.FormatJSON
	default:
		config.Format = reporter.FormatConsole
	}

	return config
}
