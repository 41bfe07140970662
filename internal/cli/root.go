package cli

import (
	"io"

	"github.com/spf13/cobra"
)

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

type GlobalOptions struct {
	ConfigPath string
	JSON       bool
	LogLevel   string
}

type commandDeps struct {
	out     io.Writer
	errOut  io.Writer
	globals *GlobalOptions
	build   BuildInfo
}

// NewRootCommand builds the userdb command tree. Command output goes to out;
// logs go to errOut unless a log file is configured.
func NewRootCommand(out, errOut io.Writer, build BuildInfo) *cobra.Command {
	globals := &GlobalOptions{}
	deps := commandDeps{
		out:     out,
		errOut:  errOut,
		globals: globals,
		build:   build,
	}

	cmd := &cobra.Command{
		Use:           "userdb",
		Short:         "Provision and populate the users store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})

	cmd.PersistentFlags().StringVar(&globals.ConfigPath, "config", "", "Path to config file (TOML or YAML)")
	cmd.PersistentFlags().BoolVar(&globals.JSON, "json", false, "Print machine-readable JSON output")
	cmd.PersistentFlags().StringVar(&globals.LogLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(newMigrateCommand(deps))
	cmd.AddCommand(newValidateCommand(deps))
	cmd.AddCommand(newAddCommand(deps))
	cmd.AddCommand(newVersionCommand(deps))
	return cmd
}
