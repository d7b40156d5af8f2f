package storage

import (
	"context"
	"strings"

	"github.com/example/table-booker/internal/domain/user"
)

// SessionRepo persists the current user for callers that have no cookie jar.
type SessionRepo struct{ store *Adapter }

func NewSessionRepo(a *Adapter) *SessionRepo { return &SessionRepo{store: a} }

func (r *SessionRepo) Current(ctx context.Context) (user.Session, error) {
	email, err := r.store.LoadString(ctx, KeyUser)
	if err != nil {
		return user.Session{}, err
	}
	return user.Session{Email: strings.TrimSpace(email)}, nil
}

func (r *SessionRepo) Remember(ctx context.Context, s user.Session) error {
	if !s.Known() {
		return nil
	}
	return r.store.SaveString(ctx, KeyUser, s.Email)
}
