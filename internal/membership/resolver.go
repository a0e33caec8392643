// Package membership resolves a user's standing in a club and owns the club
// and membership lifecycle.
package membership

import (
	"context"

	"github.com/shrimpsizemoose/olympiad/internal/apperr"
	"github.com/shrimpsizemoose/olympiad/internal/models"
)

// Lookup is the single read the resolver needs. Both the store and a
// transaction satisfy it.
type Lookup interface {
	GetMembership(ctx context.Context, userID, clubID string) (*models.Membership, error)
}

type Resolver struct {
	lookup Lookup
}

func NewResolver(l Lookup) *Resolver {
	return &Resolver{lookup: l}
}

// GetMembership returns nil, nil when the user is not in the club.
func (r *Resolver) GetMembership(ctx context.Context, userID, clubID string) (*models.Membership, error) {
	if userID == "" {
		return nil, nil
	}
	return r.lookup.GetMembership(ctx, userID, clubID)
}

func (r *Resolver) IsAdmin(ctx context.Context, userID, clubID string) (bool, error) {
	m, err := r.GetMembership(ctx, userID, clubID)
	if err != nil {
		return false, err
	}
	return m.IsAdmin(), nil
}

func (r *Resolver) RequireMember(ctx context.Context, userID, clubID string) (*models.Membership, error) {
	if userID == "" {
		return nil, apperr.Unauthorized("authentication required")
	}
	m, err := r.GetMembership(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.Unauthorized("not a member of this club")
	}
	return m, nil
}

func (r *Resolver) RequireAdmin(ctx context.Context, userID, clubID string) (*models.Membership, error) {
	m, err := r.RequireMember(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	if !m.IsAdmin() {
		return nil, apperr.Unauthorized("club admin role required")
	}
	return m, nil
}

// RequireIdentity fails before anything is read when there is no caller.
func RequireIdentity(userID string) error {
	if userID == "" {
		return apperr.Unauthorized("authentication required")
	}
	return nil
}

// Inaccessible is the single answer for an id-addressed row that is missing
// or that the caller may not act on, so the two cannot be told apart.
func Inaccessible(what string) *apperr.Error {
	return apperr.Unauthorized(what + " not found or not accessible")
}

// Hide replaces an authorization failure on an id-addressed row with
// Inaccessible. Other errors pass through.
func Hide(what string, err error) error {
	if apperr.IsCode(err, apperr.CodeUnauthorized) {
		return Inaccessible(what)
	}
	return err
}
