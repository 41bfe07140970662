package cli

import (
	"fmt"
	"io"

	"github.com/amanthanvi/userdb/internal/user"
	"github.com/spf13/cobra"
)

func newValidateCommand(deps commandDeps) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a user record against the persistence rules",
		Example: "  userdb validate --name 'John Doe' --email john@example.com\n" +
			"  userdb --json validate --name '' --email invalid",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("validate does not accept positional arguments")
			}

			result := flags.record(cmd).Validate()
			if err := writeValidation(deps.out, deps.globals.JSON, result); err != nil {
				return mapCommandError(err)
			}
			return mapCommandError(result.Err())
		},
	}
	flags.register(cmd)
	return cmd
}

func writeValidation(w io.Writer, asJSON bool, result user.ValidationResult) error {
	if asJSON {
		return printJSON(w, result)
	}
	if result.IsValid {
		_, err := fmt.Fprintln(w, "valid")
		return err
	}
	for _, msg := range result.Errors {
		if _, err := fmt.Fprintf(w, "invalid: %s\n", msg); err != nil {
			return err
		}
	}
	return nil
}
