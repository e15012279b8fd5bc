package auth

import "context"

// Identity carries the resolved subject of a request. An empty Subject
// means the request is anonymous. Set exactly once by the authenticator
// stage and immutable afterwards.
type Identity struct {
	Subject string
}

// Anonymous reports whether no verified subject is present.
func (id *Identity) Anonymous() bool {
	return id == nil || id.Subject == ""
}

// identityKey is a private type for the identity context key.
type identityKey struct{}

// SetIdentity stores the resolved identity in the context.
func SetIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the resolved identity. Returns nil when
// the authenticator stage has not run.
func IdentityFromContext(ctx context.Context) *Identity {
	if v, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return v
	}
	return nil
}
