package cli

import (
	"database/sql"
	"fmt"

	"github.com/amanthanvi/userdb/internal/storage"
	"github.com/spf13/cobra"
)

func newAddCommand(deps commandDeps) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   "add [target]",
		Short: "Validate a user record and insert it",
		Long: "Validate the record and insert it into an initialized store. The\n" +
			":memory: target is initialized first, because it starts empty.",
		Example: "  userdb add --name 'John Doe' --email john@example.com\n" +
			"  userdb add ./data/users.db --name Jane --email jane@example.com --bio 'Developer'",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageErrorf("add accepts at most one target, got %d", len(args))
			}

			rec := flags.record(cmd)
			result := rec.Validate()
			if !result.IsValid {
				if err := writeValidation(deps.out, deps.globals.JSON, result); err != nil {
					return mapCommandError(err)
				}
				return mapCommandError(result.Err())
			}

			rt, err := loadRuntime(deps)
			if err != nil {
				return mapCommandError(err)
			}
			defer func() { _ = rt.Close() }()

			target, err := resolveTarget(rt.cfg, args)
			if err != nil {
				return mapCommandError(err)
			}

			ctx := cmd.Context()
			var db *sql.DB
			if target.IsTransient() {
				res, err := initializeFn(ctx, target, rt.logger)
				if err != nil {
					return mapCommandError(fmt.Errorf("add: %w", err))
				}
				db = res.DB
			} else {
				db, err = openStoreFn(ctx, target)
				if err != nil {
					return mapCommandError(fmt.Errorf("add: %w", err))
				}
			}
			defer func() { _ = db.Close() }()

			if err := storage.NewUserRepository(db, target.Kind).Create(ctx, rec); err != nil {
				return mapCommandError(fmt.Errorf("add: %w", err))
			}
			rt.logger.Info("user record inserted", "target", target.String(), "id", *rec.ID, "email", rec.Email)

			if deps.globals.JSON {
				return mapCommandError(printJSON(deps.out, rec.ToPlainRecord()))
			}
			_, err = fmt.Fprintf(deps.out, "inserted user id=%d name=%q\n", *rec.ID, rec.Name)
			return mapCommandError(err)
		},
	}
	flags.register(cmd)
	return cmd
}
