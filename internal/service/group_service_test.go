package service

import (
	"context"
	"testing"

	"Lee_Chat/internal/model"
	"Lee_Chat/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupCreateBootstrapsCreatorAsAdmin(t *testing.T) {
	e := newEnv(0)
	e.store.addUser(1, "alice", "alice@example.com")

	group, err := e.groups.Create(context.Background(), 1, "  dev team  ", " weekly sync ")
	require.NoError(t, err)
	assert.Equal(t, "dev team", group.Name)
	assert.Equal(t, "weekly sync", group.Description)
	assert.Equal(t, uint64(1), group.CreatorID)
	assert.NotZero(t, group.ID)

	m, err := e.gate.CheckMembership(context.Background(), group.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, m.Role)

	n, err := e.members.CountAdmins(context.Background(), group.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGroupCreateValidation(t *testing.T) {
	e := newEnv(0)
	e.store.addUser(1, "alice", "alice@example.com")

	tests := []struct {
		name      string
		creatorID uint64
		groupName string
		wantErr   error
	}{
		{"empty name", 1, "", pkg.ErrValidation},
		{"blank name", 1, "   ", pkg.ErrValidation},
		{"unknown creator", 99, "dev team", pkg.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.groups.Create(context.Background(), tt.creatorID, tt.groupName, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGroupEdit(t *testing.T) {
	e := newEnv(0)
	e.store.addUser(1, "alice", "alice@example.com")
	e.store.addUser(2, "bob", "bob@example.com")
	e.store.addUser(3, "carol", "carol@example.com")

	group, err := e.groups.Create(context.Background(), 1, "dev team", "old desc")
	require.NoError(t, err)
	_, _, err = e.members.AddMembers(context.Background(), group.ID, 1, []uint64{2})
	require.NoError(t, err)

	newName := "platform team"
	t.Run("admin can rename", func(t *testing.T) {
		got, err := e.groups.Edit(context.Background(), group.ID, 1, &newName, nil)
		require.NoError(t, err)
		assert.Equal(t, "platform team", got.Name)
		assert.Equal(t, "old desc", got.Description)
	})

	t.Run("member forbidden", func(t *testing.T) {
		_, err := e.groups.Edit(context.Background(), group.ID, 2, &newName, nil)
		assert.ErrorIs(t, err, pkg.ErrForbidden)
	})

	t.Run("non member forbidden", func(t *testing.T) {
		_, err := e.groups.Edit(context.Background(), group.ID, 3, &newName, nil)
		assert.ErrorIs(t, err, pkg.ErrForbidden)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := e.groups.Edit(context.Background(), 999, 1, &newName, nil)
		assert.ErrorIs(t, err, pkg.ErrNotFound)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		blank := "   "
		_, err := e.groups.Edit(context.Background(), group.ID, 1, &blank, nil)
		assert.ErrorIs(t, err, pkg.ErrValidation)
	})

	t.Run("description only", func(t *testing.T) {
		desc := "  new desc  "
		got, err := e.groups.Edit(context.Background(), group.ID, 1, nil, &desc)
		require.NoError(t, err)
		assert.Equal(t, "platform team", got.Name)
		assert.Equal(t, "new desc", got.Description)
	})
}

func TestGroupListForUser(t *testing.T) {
	e := newEnv(0)
	e.store.addUser(1, "alice", "alice@example.com")
	e.store.addUser(2, "bob", "bob@example.com")

	g1, err := e.groups.Create(context.Background(), 1, "alpha", "")
	require.NoError(t, err)
	g2, err := e.groups.Create(context.Background(), 2, "beta", "")
	require.NoError(t, err)
	_, _, err = e.members.AddMembers(context.Background(), g2.ID, 2, []uint64{1})
	require.NoError(t, err)

	out, err := e.groups.ListForUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, g1.ID, out[0].ID)
	assert.Equal(t, model.RoleAdmin, out[0].Role)
	assert.True(t, out[0].IsCreator)
	assert.Equal(t, "alice", out[0].CreatedBy.Name)

	assert.Equal(t, g2.ID, out[1].ID)
	assert.Equal(t, model.RoleMember, out[1].Role)
	assert.False(t, out[1].IsCreator)
	assert.Equal(t, "bob", out[1].CreatedBy.Name)

	empty, err := e.groups.ListForUser(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGroupMembersVisibility(t *testing.T) {
	e := newEnv(0)
	e.store.addUser(1, "alice", "alice@example.com")
	e.store.addUser(2, "bob", "bob@example.com")
	e.store.addUser(3, "carol", "carol@example.com")

	group, err := e.groups.Create(context.Background(), 1, "dev team", "")
	require.NoError(t, err)
	_, _, err = e.members.AddMembers(context.Background(), group.ID, 1, []uint64{2})
	require.NoError(t, err)

	t.Run("member sees roster", func(t *testing.T) {
		out, err := e.groups.Members(context.Background(), group.ID, 2)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "alice", out[0].Name)
		assert.Equal(t, model.RoleAdmin, out[0].Role)
		assert.Equal(t, "bob", out[1].Name)
		assert.Equal(t, model.RoleMember, out[1].Role)
	})

	t.Run("non member rejected", func(t *testing.T) {
		_, err := e.groups.Members(context.Background(), group.ID, 3)
		assert.ErrorIs(t, err, pkg.ErrNotMember)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := e.groups.Members(context.Background(), 999, 1)
		assert.ErrorIs(t, err, pkg.ErrNotFound)
	})
}
