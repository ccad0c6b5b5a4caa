package main

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_DevFixture(t *testing.T) {
	f, err := readFixture("../../seed/dev_seed.yaml")
	require.NoError(t, err)
	require.Len(t, f.Companies, 1)

	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, seed(ctx, memory.NewRepositoryProvider(store), f, time.Now()))

	alice, err := store.FindUserByID(ctx, "0b7f6a1e-3c1d-4f7a-9a52-6d3f2c9e0103")
	require.NoError(t, err)
	require.NotNil(t, alice.ManagerID)
	assert.Equal(t, "0b7f6a1e-3c1d-4f7a-9a52-6d3f2c9e0102", *alice.ManagerID)
	assert.Equal(t, domain.RoleEmployee, alice.Role)

	wfs, err := store.ListWorkflowsByCompany(ctx, f.Companies[0].ID)
	require.NoError(t, err)
	assert.Len(t, wfs, 2)

	committee, err := store.FindWorkflowByID(ctx, "0b7f6a1e-3c1d-4f7a-9a52-6d3f2c9e0202")
	require.NoError(t, err)
	assert.False(t, committee.IsManagerFirstApprover)
	assert.True(t, committee.HasThreshold())
	assert.Len(t, committee.Stages(), 1)
}

func TestManagersFirst(t *testing.T) {
	users := []seedUser{
		{ID: "c", ManagerID: "b"},
		{ID: "b", ManagerID: "a"},
		{ID: "a"},
		{ID: "x", ManagerID: "outside-the-file"},
	}
	ordered, err := managersFirst(users)
	require.NoError(t, err)

	pos := make(map[string]int, len(ordered))
	for i, u := range ordered {
		pos[u.ID] = i
	}
	assert.Less(t, pos["a"], pos["b"])
	assert.Less(t, pos["b"], pos["c"])
	assert.Len(t, ordered, 4)

	_, err = managersFirst([]seedUser{{ID: "p", ManagerID: "q"}, {ID: "q", ManagerID: "p"}})
	assert.Error(t, err)
}
