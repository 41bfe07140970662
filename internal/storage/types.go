package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/amanthanvi/userdb/internal/user"
)

var (
	ErrStoreOpen           = errors.New("storage: open store")
	ErrSchemaApply         = errors.New("storage: apply schema")
	ErrConstraintViolation = errors.New("storage: constraint violation")
	ErrNotFound            = errors.New("storage: not found")
)

type Kind int

const (
	KindFile Kind = iota
	KindMemory
	KindPostgres
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindMemory:
		return "memory"
	case KindPostgres:
		return "postgres"
	default:
		return "unknown"
	}
}

// Target names where the schema is provisioned.
type Target struct {
	Kind     Kind
	Location string
}

// Result is the outcome of Initialize. DB is set only for transient targets;
// the caller owns it and must close it. Durable targets leave DB nil.
type Result struct {
	Target Target
	DB     *sql.DB
}

type UserRepository interface {
	Create(ctx context.Context, rec *user.Record) error
	Get(ctx context.Context, id int64) (*user.Record, error)
}
