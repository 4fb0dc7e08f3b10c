package identity

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"olstar_backend/internal/stores"
)

// LocalProvider checks bcrypt password hashes kept in users/{uid}. It is
// meant for development and for deployments without a hosted provider;
// accounts are created with olstarctl.
type LocalProvider struct {
	users *stores.UserStore
}

var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("olstar-unknown-account"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
})

func NewLocalProvider(users *stores.UserStore) *LocalProvider {
	return &LocalProvider{users: users}
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	uid, user, ok, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !ok || user.PasswordHash == "" {
		// Spend the same bcrypt work as a wrong password.
		bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	return uid, nil
}

func (p *LocalProvider) EmailVerified(ctx context.Context, uid string) (bool, error) {
	user, ok, err := p.users.Get(ctx, uid)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrInvalidCredentials
	}
	return user.EmailVerified, nil
}

// HashPassword returns the bcrypt hash stored for local accounts.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
