package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/amanthanvi/userdb/internal/cli"
	"github.com/amanthanvi/userdb/internal/version"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()

	cmd := cli.NewRootCommand(os.Stdout, os.Stderr, cli.BuildInfo{
		Version:   version.Version,
		Commit:    version.Commit,
		BuildTime: version.BuildTime,
	})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "userdb: %v\n", err)
		var withExitCode interface{ ExitCode() int }
		if errors.As(err, &withExitCode) {
			os.Exit(withExitCode.ExitCode())
		}
		os.Exit(1)
	}
}
