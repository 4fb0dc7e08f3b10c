package docstore

import (
	"context"
	"fmt"
)

// backend stores whole documents addressed by (collection, key). The tree
// type layers path semantics on top of it.
type backend interface {
	collection(ctx context.Context, coll string) (map[string]any, error)
	document(ctx context.Context, coll, key string) (any, error)
	// mutate atomically replaces the document with fn(current). A nil
	// result removes the document.
	mutate(ctx context.Context, coll, key string, fn func(cur any) any) error
	dropCollection(ctx context.Context, coll string) error
}

type tree struct {
	b backend
}

func (t *tree) Get(ctx context.Context, path string) (any, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	if len(segs) == 1 {
		docs, err := t.b.collection(ctx, segs[0])
		if err != nil || len(docs) == 0 {
			return nil, err
		}
		out := make(map[string]any, len(docs))
		for k, v := range docs {
			out[k] = v
		}
		return out, nil
	}
	doc, err := t.b.document(ctx, segs[0], segs[1])
	if err != nil {
		return nil, err
	}
	return getIn(doc, segs[2:]), nil
}

func (t *tree) Set(ctx context.Context, path string, value any) error {
	segs, err := SplitPath(path)
	if err != nil {
		return err
	}
	v, err := normalize(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if len(segs) == 1 {
		if v != nil {
			return fmt.Errorf("%w: cannot replace collection %q", ErrInvalidPath, segs[0])
		}
		return t.b.dropCollection(ctx, segs[0])
	}
	return t.b.mutate(ctx, segs[0], segs[1], func(cur any) any {
		return setIn(cur, segs[2:], v)
	})
}

func (t *tree) Update(ctx context.Context, path string, fields map[string]any) error {
	segs, err := SplitPath(path)
	if err != nil {
		return err
	}
	type change struct {
		segs  []string
		value any
	}
	changes := make([]change, 0, len(fields))
	for k, raw := range fields {
		rel, err := SplitPath(k)
		if err != nil {
			return err
		}
		v, err := normalize(raw)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", path, k, err)
		}
		changes = append(changes, change{segs: rel, value: v})
	}

	if len(segs) == 1 {
		// Children of a collection are whole documents, one write each.
		for _, c := range changes {
			rest := c.segs[1:]
			value := c.value
			if err := t.b.mutate(ctx, segs[0], c.segs[0], func(cur any) any {
				return setIn(cur, rest, value)
			}); err != nil {
				return err
			}
		}
		return nil
	}

	return t.b.mutate(ctx, segs[0], segs[1], func(cur any) any {
		for _, c := range changes {
			full := append(append([]string{}, segs[2:]...), c.segs...)
			cur = setIn(cur, full, c.value)
		}
		return cur
	})
}

func (t *tree) Delete(ctx context.Context, path string) error {
	segs, err := SplitPath(path)
	if err != nil {
		return err
	}
	if len(segs) == 1 {
		return t.b.dropCollection(ctx, segs[0])
	}
	return t.b.mutate(ctx, segs[0], segs[1], func(cur any) any {
		return setIn(cur, segs[2:], nil)
	})
}

