package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// document is one record of the postgres backend. Data holds the JSON tree
// of the record as jsonb.
type document struct {
	Collection string `gorm:"primaryKey;size:128"`
	Key        string `gorm:"primaryKey;size:768"`
	Data       string `gorm:"type:jsonb;not null"`
	UpdatedAt  time.Time
}

func (document) TableName() string { return "documents" }

// NewPostgres migrates the documents table and returns a store over db.
func NewPostgres(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, fmt.Errorf("migrate documents: %w", pgError(err))
	}
	return &tree{b: &postgresBackend{db: db}}, nil
}

type postgresBackend struct {
	db *gorm.DB
}

func (p *postgresBackend) collection(ctx context.Context, coll string) (map[string]any, error) {
	var docs []document
	if err := p.db.WithContext(ctx).Where("collection = ?", coll).Find(&docs).Error; err != nil {
		return nil, pgError(err)
	}
	out := make(map[string]any, len(docs))
	for _, d := range docs {
		v, err := decodeData(d.Data)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", coll, d.Key, err)
		}
		out[d.Key] = v
	}
	return out, nil
}

func (p *postgresBackend) document(ctx context.Context, coll, key string) (any, error) {
	var d document
	err := p.db.WithContext(ctx).Where("collection = ? AND key = ?", coll, key).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pgError(err)
	}
	return decodeData(d.Data)
}

func (p *postgresBackend) mutate(ctx context.Context, coll, key string, fn func(cur any) any) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d document
		var cur any
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection = ? AND key = ?", coll, key).
			First(&d).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		default:
			if cur, err = decodeData(d.Data); err != nil {
				return err
			}
		}

		next := prune(fn(cur))
		if next == nil {
			return tx.Where("collection = ? AND key = ?", coll, key).Delete(&document{}).Error
		}
		b, err := json.Marshal(next)
		if err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&document{
			Collection: coll,
			Key:        key,
			Data:       string(b),
			UpdatedAt:  time.Now().UTC(),
		}).Error
	})
	return pgError(err)
}

func (p *postgresBackend) dropCollection(ctx context.Context, coll string) error {
	return pgError(p.db.WithContext(ctx).Where("collection = ?", coll).Delete(&document{}).Error)
}

func decodeData(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// pgError annotates driver errors with the postgres condition name.
func pgError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("postgres %s (%s): %w", pqErr.Code.Name(), pqErr.Code, err)
	}
	return err
}
