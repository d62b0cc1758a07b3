package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/deppfellow/cpf-validator/internal/cpf"
	"github.com/spf13/cobra"
)

// ErrInvalidCPF is returned by check when at least one argument is invalid.
var ErrInvalidCPF = errors.New("invalid CPF")

var checkCmd = &cobra.Command{
	Use:   "check <cpf>...",
	Short: "Validate CPFs without starting the server",
	Long: `Validate each argument and print one line per CPF.

Formatting characters are ignored, so 529.982.247-25 and 52998224725 are
equivalent. The command exits non-zero if any argument is invalid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		invalid := check(cmd.OutOrStdout(), args)
		if invalid > 0 {
			return fmt.Errorf("%w: %d of %d", ErrInvalidCPF, invalid, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// check writes a verdict line per input and returns how many were invalid.
func check(w io.Writer, inputs []string) int {
	invalid := 0
	for _, in := range inputs {
		reason := cpf.Check(in)
		if reason == cpf.ReasonNone {
			formatted, _ := cpf.Format(in)
			fmt.Fprintf(w, "%s\tvalid\t%s\n", in, formatted)
			continue
		}

		invalid++
		fmt.Fprintf(w, "%s\tinvalid\t%s", in, reason)

		// For a checksum mismatch, show what the check digits should be.
		if reason == cpf.ReasonFirstCheckDigit || reason == cpf.ReasonSecondCheckDigit {
			if digits, ok := cpf.CheckDigits(cpf.Normalize(in)[:9]); ok {
				fmt.Fprintf(w, " (expected %s)", digits)
			}
		}
		fmt.Fprintln(w)
	}
	return invalid
}
