package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	segs, err := SplitPath("/schedules/T1/current/")
	require.NoError(t, err)
	assert.Equal(t, []string{"schedules", "T1", "current"}, segs)

	for _, bad := range []string{"", "/", "schedules//T1", "schedules/a.b", "schedules/$x", "users/#1", "a/[b]"} {
		_, err := SplitPath(bad)
		assert.ErrorIs(t, err, ErrInvalidPath, "path %q", bad)
	}
}

func TestMemorySetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.Set(ctx, "schedules/T1", map[string]any{"pickup": "NAIA T3", "pax": "2"}))
	require.NoError(t, s.Set(ctx, "schedules/T1", map[string]any{"pickup": "Makati"}))

	v, err := s.Get(ctx, "schedules/T1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"pickup": "Makati"}, v)

	all, err := s.Get(ctx, "schedules")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryUpdateMergesAndNilDeletes(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, "transportUnits/001ABC", map[string]any{
		"unitType": "Van", "color": "white", "plateNumber": "ABC123",
	}))

	require.NoError(t, s.Update(ctx, "transportUnits/001ABC", map[string]any{
		"color":       "black",
		"plateNumber": nil,
		"meta/source": "import",
	}))

	v, err := s.Get(ctx, "transportUnits/001ABC")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"unitType": "Van",
		"color":    "black",
		"meta":     map[string]any{"source": "import"},
	}, v)
}

func TestMemoryNestedPaths(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.Set(ctx, "users/u1/role", "admin"))
	role, err := s.Get(ctx, "users/u1/role")
	require.NoError(t, err)
	assert.Equal(t, "admin", role)

	missing, err := s.Get(ctx, "users/u2/role")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Removing the only child removes the record.
	require.NoError(t, s.Delete(ctx, "users/u1/role"))
	v, err := s.Get(ctx, "users/u1")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, "schedules/T1", map[string]any{"pickup": "A"}))

	v, err := s.Get(ctx, "schedules/T1")
	require.NoError(t, err)
	v.(map[string]any)["pickup"] = "mutated"

	again, err := s.Get(ctx, "schedules/T1")
	require.NoError(t, err)
	assert.Equal(t, "A", again.(map[string]any)["pickup"])
}

func TestMemoryCollectionUpdateAndDrop(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Update(ctx, "schedules", map[string]any{
		"T1": map[string]any{"pickup": "A"},
		"T2": map[string]any{"pickup": "B"},
	}))
	all, err := s.Get(ctx, "schedules")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.ErrorIs(t, s.Set(ctx, "schedules", map[string]any{"x": 1}), ErrInvalidPath)

	require.NoError(t, s.Delete(ctx, "schedules"))
	all, err = s.Get(ctx, "schedules")
	require.NoError(t, err)
	assert.Nil(t, all)
}

func TestGetInto(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, "transportUnits/001ABC", map[string]any{"color": "red"}))

	var dst struct {
		Color string `json:"color"`
	}
	ok, err := GetInto(ctx, s, "transportUnits/001ABC", &dst)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "red", dst.Color)

	ok, err = GetInto(ctx, s, "transportUnits/999ZZZ", &dst)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInstrument(t *testing.T) {
	ctx := context.Background()
	var ops []string
	s := Instrument(NewMemory(), func(op string, _ time.Duration, err error) {
		if err != nil {
			op += ":err"
		}
		ops = append(ops, op)
	})

	require.NoError(t, s.Set(ctx, "a/b", 1))
	_, _ = s.Get(ctx, "a/b")
	require.NoError(t, s.Update(ctx, "a/b", map[string]any{"c": 2}))
	err := s.Delete(ctx, "a/.")
	assert.True(t, errors.Is(err, ErrInvalidPath))

	assert.Equal(t, []string{"set", "get", "update", "delete:err"}, ops)
}
