// Command olstarctl administers staff accounts in the document store.
package main

import (
	"context"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/sirupsen/logrus"

	"olstar_backend/internal/config"
	"olstar_backend/internal/stores"
)

func main() {
	if err := newRootCmd(openUsers).Execute(); err != nil {
		os.Exit(1)
	}
}

// openUsers connects the store named by the environment, exactly as the
// server would.
func openUsers(ctx context.Context) (*stores.UserStore, func(context.Context) error, error) {
	cfg := config.Load()
	logrus.SetLevel(logrus.WarnLevel)

	var app *firebase.App
	if cfg.StoreDriver == config.StoreFirebase {
		var err error
		if app, err = config.NewFirebaseApp(ctx, cfg); err != nil {
			return nil, nil, err
		}
	}
	store, closeFn, err := config.OpenStore(ctx, cfg, app)
	if err != nil {
		return nil, nil, err
	}
	return stores.NewUserStore(store), closeFn, nil
}
