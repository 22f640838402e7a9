// Package auth provides the mocked identity layer: a fixed set of accounts,
// HS256 session tokens, and middleware that attaches the caller's identity
// to the request context.
package auth

import "context"

// Role gates access to the admin surface. Every authenticated caller holds
// exactly one role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity represents the authenticated user making a request.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the identity may use admin operations.
func (id Identity) IsAdmin() bool { return id.Role == RoleAdmin }

// identityCtxKey is an unexported type used as the context key for Identity.
type identityCtxKey struct{}

// WithIdentity returns a new context with the given Identity attached.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext retrieves the Identity from the context.
// Returns the zero value and false if no identity is set.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}
