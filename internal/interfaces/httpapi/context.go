package httpapi

import (
	"context"
	"fmt"

	"github.com/riskibarqy/challenge-league/internal/domain/user"
	"github.com/riskibarqy/challenge-league/internal/usecase"
)

type principalKey struct{}

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// actorFromContext returns the authenticated user id set by RequireAuth.
func actorFromContext(ctx context.Context) (string, error) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	if !ok || p.UserID == "" {
		return "", fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return p.UserID, nil
}
