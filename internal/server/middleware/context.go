package middleware

import "context"

type contextKey struct{ name string }

var identityKey = contextKey{"identity"}

// Identity is the authenticated caller decoded from a verified token.
type Identity struct {
	UserID    string
	FirstName string
}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity stored by RequireAuth and true, or a zero Identity and false.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}
