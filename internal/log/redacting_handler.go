package log

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
)

// Keys whose values never reach log output: personal data from user records
// and credentials that can appear in connection strings.
var sensitiveFields = map[string]struct{}{
	"email":    {},
	"password": {},
	"dsn":      {},
	"token":    {},
	"secret":   {},
}

const redacted = "[REDACTED]"

type RedactingHandler struct {
	inner slog.Handler
}

func NewRedactingHandler(inner slog.Handler) *RedactingHandler {
	return &RedactingHandler{inner: inner}
}

func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fallback := slog.NewRecord(record.Time, slog.LevelError, "redaction handler panic recovered", record.PC)
			fallback.AddAttrs(slog.String("panic", redacted))
			err = h.inner.Handle(ctx, fallback)
		}
	}()

	clean := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clean.AddAttrs(redactAttr(attr))
		return true
	})
	return h.inner.Handle(ctx, clean)
}

func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		clean = append(clean, redactAttr(attr))
	}
	return &RedactingHandler{inner: h.inner.WithAttrs(clean)}
}

func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{inner: h.inner.WithGroup(name)}
}

func redactAttr(attr slog.Attr) slog.Attr {
	key := strings.ToLower(attr.Key)
	if _, ok := sensitiveFields[key]; ok {
		return slog.String(attr.Key, redacted)
	}

	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		nested := make([]slog.Attr, 0, len(group))
		for _, inner := range group {
			nested = append(nested, redactAttr(inner))
		}
		return slog.Attr{
			Key:   attr.Key,
			Value: slog.GroupValue(nested...),
		}
	}

	if attr.Value.Kind() == slog.KindString {
		if masked, ok := maskURLPassword(attr.Value.String()); ok {
			return slog.String(attr.Key, masked)
		}
	}

	return attr
}

// maskURLPassword hides the password of connection URLs logged under keys
// that are not themselves sensitive.
func maskURLPassword(raw string) (string, bool) {
	if !strings.Contains(raw, "://") || !strings.Contains(raw, "@") {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return "", false
	}
	if _, hasPassword := u.User.Password(); !hasPassword {
		return "", false
	}
	return u.Redacted(), true
}
