package common

import "context"

// Identity holds the authenticated caller resolved from a bearer token.
// A nil Identity on a request context means the caller is anonymous.
type Identity struct {
	UserID string
	Email  string
	Roles  []string
}

// HasRole reports whether the identity carries the given role.
func (id *Identity) HasRole(role string) bool {
	if id == nil {
		return false
	}
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type contextKey int

const identityKey contextKey = iota

// WithIdentity stores an Identity in the request context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the Identity from context, or nil if absent.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}
