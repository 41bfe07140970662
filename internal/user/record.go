// Package user defines the user record and the rules a record must satisfy
// before it is handed to storage.
package user

import (
	"time"
)

const (
	FieldID        = "id"
	FieldName      = "name"
	FieldEmail     = "email"
	FieldBio       = "bio"
	FieldAvatarURL = "avatar_url"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// New builds a record using wall-clock time for missing timestamps.
func New(opts Options) *Record {
	return NewWithClock(opts, SystemClock)
}

// NewWithClock builds a record from opts. Name and email are copied verbatim;
// empty bio and avatar URL become nil and empty timestamps default to clock's
// current time. Construction never fails: invalid input is reported by Validate.
func NewWithClock(opts Options, clock Clock) *Record {
	if clock == nil {
		clock = SystemClock
	}

	var now string
	stamp := func(raw string) string {
		if raw != "" {
			return raw
		}
		if now == "" {
			now = FormatTimestamp(clock.Now())
		}
		return now
	}

	return &Record{
		ID:        copyID(opts.ID),
		Name:      opts.Name,
		Email:     opts.Email,
		Bio:       nonEmpty(opts.Bio),
		AvatarURL: nonEmpty(opts.AvatarURL),
		CreatedAt: stamp(opts.CreatedAt),
		UpdatedAt: stamp(opts.UpdatedAt),
	}
}

// ToPlainRecord returns all seven columns keyed by name. Unset optional fields
// are present with a nil value.
func (r *Record) ToPlainRecord() map[string]any {
	return map[string]any{
		FieldID:        nullableInt(r.ID),
		FieldName:      r.Name,
		FieldEmail:     r.Email,
		FieldBio:       nullableString(r.Bio),
		FieldAvatarURL: nullableString(r.AvatarURL),
		FieldCreatedAt: r.CreatedAt,
		FieldUpdatedAt: r.UpdatedAt,
	}
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func copyID(id *int64) *int64 {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
