package auth

import (
	"context"

	"carclub/paddock/internal/constants"
)

type contextKey string

var (
	principalKey contextKey = "principal"
	requestIDKey contextKey = "request_id"
)

// Principal is the authenticated caller resolved to a user row.
type Principal struct {
	UserID     string
	ExternalID string
	SiteRole   constants.SiteRole
}

func SetPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal returns nil on unauthenticated requests.
func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey).(*Principal); ok {
		return p
	}
	return nil
}

func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
