package config

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/api/option"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "github.com/lib/pq"

	"olstar_backend/internal/docstore"
)

// NewFirebaseApp initializes the Admin SDK app. Without a credentials file
// the application default credentials are used.
func NewFirebaseApp(ctx context.Context, c *Config) (*firebase.App, error) {
	var opts []option.ClientOption
	if c.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.FirebaseCredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{
		DatabaseURL: c.FirebaseDatabaseURL,
		ProjectID:   c.FirebaseProjectID,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase init: %w", err)
	}
	return app, nil
}

// OpenStore connects the configured document store. The returned close
// func releases the connection; it is never nil.
func OpenStore(ctx context.Context, c *Config, app *firebase.App) (docstore.Store, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch c.StoreDriver {
	case StoreMemory:
		logrus.Warn("using in-memory document store, data is lost on restart")
		return docstore.NewMemory(), noop, nil

	case StorePostgres:
		db, err := gorm.Open(postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        c.PostgresDSN(),
		}), &gorm.Config{Logger: GormLogger()})
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
		}
		store, err := docstore.NewPostgres(db)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return store, closeFn, nil

	case StoreMongo:
		client, err := NewMongoClient(ctx, c.MongoURI)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		return docstore.NewMongo(client.Database(c.MongoDB)), client.Disconnect, nil

	case StoreFirebase:
		if app == nil {
			return nil, noop, fmt.Errorf("firebase store requires an initialized app")
		}
		client, err := app.Database(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("firebase database: %w", err)
		}
		return docstore.NewFirebase(client), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
}

// NewMongoClient connects and pings within ten seconds.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// GormLogger routes GORM warnings and slow queries through logrus.
func GormLogger() gormlogger.Interface {
	return gormlogger.New(logrus.StandardLogger(), gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
