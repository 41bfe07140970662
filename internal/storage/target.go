package storage

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// MemoryTarget selects a transient in-process SQLite database.
const MemoryTarget = ":memory:"

// ParseTarget classifies raw. Surrounding whitespace is ignored when matching
// the sentinel and URLs, but a file path is kept as given apart from
// filepath.Clean.
func ParseTarget(raw string) (Target, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return Target{}, fmt.Errorf("parse target: empty target")
	case trimmed == MemoryTarget:
		return Target{Kind: KindMemory, Location: MemoryTarget}, nil
	case strings.HasPrefix(trimmed, "postgres://"), strings.HasPrefix(trimmed, "postgresql://"):
		if _, err := url.Parse(trimmed); err != nil {
			return Target{}, fmt.Errorf("parse target: %w", err)
		}
		return Target{Kind: KindPostgres, Location: trimmed}, nil
	default:
		return Target{Kind: KindFile, Location: filepath.Clean(raw)}, nil
	}
}

// IsTransient reports whether the store disappears with its last handle.
func (t Target) IsTransient() bool {
	return t.Kind == KindMemory
}

// String is safe to log: PostgreSQL passwords are masked.
func (t Target) String() string {
	if t.Kind != KindPostgres {
		return t.Location
	}
	u, err := url.Parse(t.Location)
	if err != nil {
		return "postgres://"
	}
	return u.Redacted()
}

func (t Target) dataSourceName() string {
	switch t.Kind {
	case KindFile:
		return t.Location + "?" + dsnForeignKeys + "&" + dsnBusyTimeout
	case KindMemory:
		return t.Location + "?" + dsnForeignKeys
	default:
		return t.Location
	}
}

func (t Target) driverName() string {
	if t.Kind == KindPostgres {
		return "pgx"
	}
	return "sqlite"
}
