// Package cli holds the cobra commands of the cpfvalidator binary.
package cli

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "cpfvalidator",
	Short: "Validate Brazilian CPF numbers",
	Long: `cpfvalidator checks the structure and check digits of Brazilian
individual taxpayer numbers (CPF), either over HTTP (serve) or from the
command line (check).

A valid CPF is not proof that the number was issued to anyone.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
