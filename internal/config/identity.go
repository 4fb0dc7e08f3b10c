package config

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"

	"olstar_backend/internal/identity"
	"olstar_backend/internal/stores"
)

// OpenIdentity builds the configured login provider.
func OpenIdentity(ctx context.Context, c *Config, app *firebase.App, users *stores.UserStore) (identity.Provider, error) {
	switch c.IdentityDriver {
	case IdentityLocal:
		return identity.NewLocalProvider(users), nil
	case IdentityFirebase:
		if app == nil {
			return nil, fmt.Errorf("firebase identity requires an initialized app")
		}
		client, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase auth: %w", err)
		}
		return identity.NewFirebaseProvider(c.FirebaseAPIKey, client), nil
	}
	return nil, fmt.Errorf("unknown IDENTITY_DRIVER %q", c.IdentityDriver)
}
