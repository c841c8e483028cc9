package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentory/scentory/internal/common/cnst"
)

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func TestInitSuperAdmin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := InitSuperAdmin(ctx, s, plainHasher{}, "root", "root@example.com", "changeme")
	require.NoError(t, err)
	assert.True(t, created)

	u, err := s.GetUserByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, cnst.RoleAdmin, u.Role)
	assert.True(t, u.IsActive)
	assert.Equal(t, "hashed:changeme", u.Password)

	created, err = InitSuperAdmin(ctx, s, plainHasher{}, "root", "root@example.com", "changeme")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = InitSuperAdmin(ctx, s, plainHasher{}, "", "", "")
	require.NoError(t, err)
	assert.False(t, created)
}
