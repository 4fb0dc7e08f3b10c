// Package identity verifies staff credentials against an identity provider.
package identity

import (
	"context"
	"errors"
)

// ErrInvalidCredentials means the provider rejected the email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Provider is the identity provider used by the login flow.
type Provider interface {
	// SignIn verifies the credentials and returns the subject ID.
	SignIn(ctx context.Context, email, password string) (string, error)
	// EmailVerified reports whether the subject confirmed its email.
	EmailVerified(ctx context.Context, uid string) (bool, error)
}
