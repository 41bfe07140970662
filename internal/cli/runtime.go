package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/amanthanvi/userdb/internal/config"
	applog "github.com/amanthanvi/userdb/internal/log"
	"github.com/amanthanvi/userdb/internal/storage"
	"github.com/amanthanvi/userdb/internal/user"
	"github.com/google/uuid"
)

var (
	loadConfigFn = config.Load
	initializeFn = storage.Initialize
	openStoreFn  = storage.Open
	recordClock  = user.SystemClock
)

type runtimeEnv struct {
	cfg    config.Config
	logger *slog.Logger
	closer io.Closer
}

func (r *runtimeEnv) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func loadRuntime(deps commandDeps) (*runtimeEnv, error) {
	opts := config.LoadOptions{}
	if deps.globals != nil {
		opts.ConfigPath = strings.TrimSpace(deps.globals.ConfigPath)
		if level := strings.TrimSpace(deps.globals.LogLevel); level != "" {
			opts.Flags.LogLevel = &level
		}
	}

	cfg, err := loadConfigFn(opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := applog.New(cfg.Logging, deps.errOut)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return &runtimeEnv{
		cfg:    cfg,
		logger: logger.With("run_id", uuid.NewString()),
		closer: closer,
	}, nil
}

// resolveTarget picks the positional target or, when absent, the configured
// durable path.
func resolveTarget(cfg config.Config, args []string) (storage.Target, error) {
	raw := cfg.Database.Path
	if len(args) == 1 {
		raw = args[0]
	}
	return storage.ParseTarget(raw)
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
