package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olstar_backend/internal/docstore"
	"olstar_backend/internal/identity"
	"olstar_backend/internal/stores"
)

func memoryOpener(users *stores.UserStore) opener {
	return func(context.Context) (*stores.UserStore, func(context.Context) error, error) {
		return users, func(context.Context) error { return nil }, nil
	}
}

func run(t *testing.T, users *stores.UserStore, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(memoryOpener(users))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCreateUserThenLogin(t *testing.T) {
	users := stores.NewUserStore(docstore.NewMemory())

	out, err := run(t, users, "create-user", "--email", "ops@olstar.test", "--password", "hunter2", "--verified")
	require.NoError(t, err)
	uid := strings.TrimSpace(out)
	require.NotEmpty(t, uid)

	idp := identity.NewLocalProvider(users)
	got, err := idp.SignIn(context.Background(), "OPS@olstar.test", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	verified, err := idp.EmailVerified(context.Background(), uid)
	require.NoError(t, err)
	assert.True(t, verified)

	role, err := users.Role(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "admin", role)

	_, err = run(t, users, "create-user", "--email", "ops@olstar.test", "--password", "x")
	assert.ErrorContains(t, err, "already exists")
}

func TestSetRole(t *testing.T) {
	users := stores.NewUserStore(docstore.NewMemory())

	out, err := run(t, users, "set-role", "uid-7", "Admin")
	require.NoError(t, err)
	assert.Contains(t, out, "uid-7 is now admin")

	role, err := users.Role(context.Background(), "uid-7")
	require.NoError(t, err)
	assert.Equal(t, "admin", role)

	_, err = run(t, users, "set-role", "uid-7")
	assert.Error(t, err)

	_, err = run(t, users, "set-role", "bad.uid", "admin")
	assert.Error(t, err)
}
