package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [target]",
		Short: "Create the users schema on a store",
		Long: "Create the users table on target. Target is a SQLite file path, the\n" +
			"in-memory sentinel :memory:, or a postgres:// URL. Without a target the\n" +
			"configured database.path is used.",
		Example: "  userdb migrate\n" +
			"  userdb migrate ./data/users.db\n" +
			"  userdb migrate :memory:",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageErrorf("migrate accepts at most one target, got %d", len(args))
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

			res, err := initializeFn(cmd.Context(), target, rt.logger)
			if err != nil {
				rt.logger.Error("database migration failed", "target", target.String(), "error", err)
				return mapCommandError(fmt.Errorf("migration failed: %w", err))
			}
			// Nothing outlives the process, so a transient store is released here.
			if res.DB != nil {
				if err := res.DB.Close(); err != nil {
					return mapCommandError(fmt.Errorf("close %s: %w", target, err))
				}
			}

			if deps.globals.JSON {
				return mapCommandError(printJSON(deps.out, map[string]any{
					"migrated": true,
					"target":   target.String(),
					"kind":     target.Kind.String(),
				}))
			}
			_, err = fmt.Fprintf(deps.out, "database migration completed: %s\n", target)
			return mapCommandError(err)
		},
	}
}
