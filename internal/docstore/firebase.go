package docstore

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/db"
)

// NewFirebase wraps a Realtime Database client. The database implements
// the path semantics natively, so calls pass straight through after the
// path is validated.
func NewFirebase(client *db.Client) Store {
	return &firebaseStore{client: client}
}

type firebaseStore struct {
	client *db.Client
}

func (f *firebaseStore) ref(path string) (*db.Ref, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	return f.client.NewRef(Join(segs...)), nil
}

func (f *firebaseStore) Get(ctx context.Context, path string) (any, error) {
	ref, err := f.ref(path)
	if err != nil {
		return nil, err
	}
	var v any
	if err := ref.Get(ctx, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (f *firebaseStore) Set(ctx context.Context, path string, value any) error {
	ref, err := f.ref(path)
	if err != nil {
		return err
	}
	return ref.Set(ctx, value)
}

func (f *firebaseStore) Update(ctx context.Context, path string, fields map[string]any) error {
	ref, err := f.ref(path)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	for k := range fields {
		if _, err := SplitPath(k); err != nil {
			return fmt.Errorf("update %s: %w", path, err)
		}
	}
	return ref.Update(ctx, fields)
}

func (f *firebaseStore) Delete(ctx context.Context, path string) error {
	ref, err := f.ref(path)
	if err != nil {
		return err
	}
	return ref.Delete(ctx)
}
