package auth

import (
	"context"
)

type ctxKey string

const userKey ctxKey = "userClaims"

// Claims identifies the session's user.
type Claims struct {
	Subject string
	Name    string
	Email   string
}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, userKey, c)
}

func FromContext(ctx context.Context) Claims {
	if v, ok := ctx.Value(userKey).(Claims); ok {
		return v
	}
	return Claims{}
}

// Subject returns the current session's user id, or "" outside a session.
func Subject(ctx context.Context) string {
	return FromContext(ctx).Subject
}
