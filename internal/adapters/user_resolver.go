// Package adapters contains adapters that bridge different bounded contexts.
// These adapters implement interfaces defined by consuming domains while
// wrapping services from providing domains.
package adapters

import (
	"context"

	"coursehub_backend/internal/accounts/repository"
	"coursehub_backend/platform/httpkit"

	"github.com/google/uuid"
)

// AccountUserResolver adapts the accounts repository to the auth
// middleware's UserResolver interface. Roles come from the account row, so
// a role change or deletion takes effect on the next request.
type AccountUserResolver struct {
	repo repository.Repository
}

// NewAccountUserResolver creates a new adapter wrapping the accounts repository.
func NewAccountUserResolver(repo repository.Repository) *AccountUserResolver {
	return &AccountUserResolver{repo: repo}
}

// ResolveUser returns the identity snapshot for the given account id.
func (p *AccountUserResolver) ResolveUser(ctx context.Context, id uuid.UUID) (httpkit.ResolvedUser, error) {
	user, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return httpkit.ResolvedUser{}, err
	}

	return httpkit.ResolvedUser{
		ID:   user.ID,
		Role: user.Role,
	}, nil
}

// Compile-time check that AccountUserResolver implements httpkit.UserResolver
var _ httpkit.UserResolver = (*AccountUserResolver)(nil)
