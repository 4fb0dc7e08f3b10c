package docstore

import (
	"context"
	"time"
)

// Observer receives the duration and result of every store call.
type Observer func(op string, took time.Duration, err error)

// Instrument reports each call on s to observe.
func Instrument(s Store, observe Observer) Store {
	return &instrumented{next: s, observe: observe}
}

type instrumented struct {
	next    Store
	observe Observer
}

func (i *instrumented) Get(ctx context.Context, path string) (any, error) {
	start := time.Now()
	v, err := i.next.Get(ctx, path)
	i.observe("get", time.Since(start), err)
	return v, err
}

func (i *instrumented) Set(ctx context.Context, path string, value any) error {
	start := time.Now()
	err := i.next.Set(ctx, path, value)
	i.observe("set", time.Since(start), err)
	return err
}

func (i *instrumented) Update(ctx context.Context, path string, fields map[string]any) error {
	start := time.Now()
	err := i.next.Update(ctx, path, fields)
	i.observe("update", time.Since(start), err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, path string) error {
	start := time.Now()
	err := i.next.Delete(ctx, path)
	i.observe("delete", time.Since(start), err)
	return err
}
