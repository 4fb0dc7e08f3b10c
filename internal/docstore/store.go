// Package docstore is a key-path document store with Realtime-Database
// semantics: records live at "collection/key[/field...]", writing nil removes
// a child, and parents left empty disappear. Single-key operations are atomic;
// nothing spans keys.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrInvalidPath = errors.New("docstore: invalid path")

// Store is implemented by every backend.
type Store interface {
	// Get returns the JSON tree at path (maps, slices, strings, float64,
	// bools) or nil when nothing is stored there.
	Get(ctx context.Context, path string) (any, error)
	// Set replaces whatever is at path.
	Set(ctx context.Context, path string, value any) error
	// Update merges fields into the node at path. Keys may be relative
	// paths; nil values delete.
	Update(ctx context.Context, path string, fields map[string]any) error
	// Delete removes path. Deleting an absent path is not an error.
	Delete(ctx context.Context, path string) error
}

// Join builds a path from segments.
func Join(segs ...string) string { return strings.Join(segs, "/") }

// SplitPath validates path and returns its segments.
func SplitPath(path string) ([]string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	segs := strings.Split(path, "/")
	for _, s := range segs {
		if !ValidKey(s) {
			return nil, fmt.Errorf("%w: bad segment %q in %q", ErrInvalidPath, s, path)
		}
	}
	return segs, nil
}

// ValidKey reports whether k can be used as a single path segment.
func ValidKey(k string) bool {
	if k == "" || len(k) > 768 {
		return false
	}
	for _, r := range k {
		if unicode.IsControl(r) || strings.ContainsRune(".$#[]/", r) {
			return false
		}
	}
	return true
}

// GetInto decodes the node at path into dst. It reports false when the
// node is absent.
func GetInto(ctx context.Context, s Store, path string, dst any) (bool, error) {
	v, err := s.Get(ctx, path)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// normalize turns any JSON-marshallable value into a fresh JSON tree.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return prune(out), nil
}

// prune drops empty objects, which the store treats as absent.
func prune(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, child := range m {
		if c := prune(child); c == nil {
			delete(m, k)
		} else {
			m[k] = c
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func getIn(root any, segs []string) any {
	cur := root
	for _, s := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[s]
	}
	return cur
}

// setIn writes value at segs below root, creating intermediate objects.
// A nil value deletes. The returned tree replaces root.
func setIn(root any, segs []string, value any) any {
	if len(segs) == 0 {
		return value
	}
	m, ok := root.(map[string]any)
	if !ok {
		if value == nil {
			return root
		}
		m = map[string]any{}
	}
	child := setIn(m[segs[0]], segs[1:], value)
	if child == nil {
		delete(m, segs[0])
	} else {
		m[segs[0]] = child
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
