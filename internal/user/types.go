package user

import (
	"errors"
	"time"
)

// MaxBioLength is the bio limit in characters. The storage CHECK constraint is
// rendered from this value.
const MaxBioLength = 500

// TimestampLayout is the ISO-8601 form used for created_at and updated_at.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

const (
	MsgNameRequired = "Name is required"
	MsgInvalidEmail = "Invalid email format"
	MsgBioTooLong   = "Bio must not exceed 500 characters"
)

var ErrInvalidRecord = errors.New("user: invalid record")

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock reads wall-clock time.
var SystemClock Clock = systemClock{}

// Options carries construction input. Zero values mean "not supplied".
type Options struct {
	ID        *int64
	Name      string
	Email     string
	Bio       *string
	AvatarURL *string
	CreatedAt string
	UpdatedAt string
}

type Record struct {
	ID        *int64  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}
