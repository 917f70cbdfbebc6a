// Command ucum is a thin CLI wrapper around the validator façade; it
// calls nothing but the library's public API.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ludetc/go-ucum"
)

// exitError carries the intended process exit code through cobra's RunE
// without main needing to re-inspect the command it came from.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(3)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ucum",
		Short:         "Parse, validate, and convert UCUM unit expressions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCmd(), newConvertCmd(), newCommensurablesCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	var caseInsensitive bool
	cmd := &cobra.Command{
		Use:   "validate <expression>",
		Short: "Validate a UCUM expression and print its diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ucum.Default()
			if err != nil {
				return &exitError{3, err}
			}
			result := ucum.Validate(cat, args[0], !caseInsensitive)
			for _, m := range result.Messages {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", m.Offset, m.Text)
			}
			if !result.Valid {
				for _, s := range result.Suggestions {
					fmt.Fprintf(cmd.OutOrStdout(), "did you mean %q?\n", s)
				}
				return &exitError{1, fmt.Errorf("invalid UCUM expression %q", args[0])}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid: %s (dimension %s)\n", result.Unit, result.Unit.Dimension)
			return nil
		},
	}
	cmd.Flags().BoolVar(&caseInsensitive, "case-insensitive", false, "resolve atoms and prefixes case-insensitively")
	return cmd
}

func newConvertCmd() *cobra.Command {
	var caseInsensitive bool
	cmd := &cobra.Command{
		Use:   "convert <from-unit> <magnitude> <to-unit>",
		Short: "Convert a magnitude from one UCUM unit to another",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ucum.Default()
			if err != nil {
				return &exitError{3, err}
			}
			mag, convErr := decimal.NewFromString(args[1])
			if convErr != nil {
				return &exitError{2, fmt.Errorf("invalid magnitude %q: %w", args[1], convErr)}
			}
			result, cErr := ucum.ConvertExpr(cat, args[0], mag, args[2], !caseInsensitive)
			if cErr != nil {
				return &exitError{2, cErr}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%g\n", result.Magnitude)
			return nil
		},
	}
	cmd.Flags().BoolVar(&caseInsensitive, "case-insensitive", false, "resolve atoms and prefixes case-insensitively")
	return cmd
}

func newCommensurablesCmd() *cobra.Command {
	var caseInsensitive bool
	cmd := &cobra.Command{
		Use:   "commensurables <expression>",
		Short: "List catalog atoms sharing the expression's dimension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ucum.Default()
			if err != nil {
				return &exitError{3, err}
			}
			codes, gErr := ucum.GetCommensurables(cat, args[0], !caseInsensitive)
			if gErr != nil {
				return &exitError{1, gErr}
			}
			for _, c := range codes {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&caseInsensitive, "case-insensitive", false, "resolve atoms and prefixes case-insensitively")
	return cmd
}
