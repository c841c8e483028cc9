package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentory/scentory/internal/i18n"
)

func TestStatsService_SpendingSummary(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	alice := env.register(t, "alice")
	p := env.perfume(t, alice.ID, "Sauvage", "Dior")

	empty, err := env.stats.SpendingSummary(ctx, alice.ID, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalSpent)
	assert.Zero(t, empty.TotalPurchases)
	assert.Zero(t, empty.AveragePrice)

	env.purchase(t, alice.ID, p.ID, "2024-01-01", 10)
	env.purchase(t, alice.ID, p.ID, "2024-02-01", 10)
	env.purchase(t, alice.ID, p.ID, "2024-03-01", 20.01)

	all, err := env.stats.SpendingSummary(ctx, alice.ID, nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 40.01, all.TotalSpent, 1e-9)
	assert.EqualValues(t, 3, all.TotalPurchases)
	assert.Equal(t, 13.34, all.AveragePrice)

	window, err := env.stats.SpendingSummary(ctx, alice.ID, ptr(day("2024-02-01")), ptr(day("2024-03-01")))
	require.NoError(t, err)
	assert.EqualValues(t, 2, window.TotalPurchases)

	_, err = env.stats.SpendingSummary(ctx, alice.ID, ptr(day("2024-03-01")), ptr(day("2024-02-01")))
	assert.ErrorIs(t, err, i18n.ErrInvalidDateRange)
}

func TestStatsService_MostExpensive(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	alice := env.register(t, "alice")
	dior := env.perfume(t, alice.ID, "Sauvage", "Dior")
	creed := env.perfume(t, alice.ID, "Aventus", "Creed")

	env.purchase(t, alice.ID, dior.ID, "2024-01-01", 90)
	env.purchase(t, alice.ID, creed.ID, "2024-01-02", 300)
	env.purchase(t, alice.ID, dior.ID, "2024-01-03", 120)

	ranked, err := env.stats.MostExpensive(ctx, alice.ID, 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "Aventus", ranked[0].PerfumeName)
	assert.Equal(t, "Creed", ranked[0].Brand)
	assert.Equal(t, 300.0, ranked[0].Price)
	assert.Equal(t, day("2024-01-02"), ranked[0].Date)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, 120.0, ranked[1].Price)

	none, err := env.stats.MostExpensive(ctx, 999, 5)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = env.stats.MostExpensive(ctx, alice.ID, 0)
	assert.ErrorIs(t, err, i18n.ErrValidationFailed)
}

func TestStatsService_AdminDashboard(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	_, err := env.accounts.UpdateUser(ctx, bob.ID, UserPatch{IsActive: ptr(false)})
	require.NoError(t, err)

	p := env.perfume(t, alice.ID, "Sauvage", "Dior")
	env.purchase(t, alice.ID, p.ID, "2024-01-01", 10.005)
	env.purchase(t, alice.ID, p.ID, "2024-01-02", 20)

	d, err := env.stats.AdminDashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.TotalUsers)
	assert.EqualValues(t, 1, d.ActiveUsers)
	assert.EqualValues(t, 1, d.TotalPerfumes)
	assert.EqualValues(t, 2, d.TotalPurchases)
	assert.InDelta(t, 30.01, d.TotalAmount, 0.011)
}

func TestStatsService_TopUsers(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	empty, err := env.stats.TopUsers(ctx, DefaultTopUsers)
	require.NoError(t, err)
	assert.Nil(t, empty.MostPerfumes)
	assert.Nil(t, empty.MostExpensivePurchase)
	assert.Nil(t, empty.MostExpensiveCollection)

	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	a1 := env.perfume(t, alice.ID, "A1", "X")
	env.perfume(t, alice.ID, "A2", "X")
	b1 := env.perfume(t, bob.ID, "B1", "Y")
	env.purchase(t, alice.ID, a1.ID, "2024-01-01", 50)
	env.purchase(t, alice.ID, a1.ID, "2024-01-02", 60)
	env.purchase(t, bob.ID, b1.ID, "2024-01-03", 100)

	top, err := env.stats.TopUsers(ctx, 3)
	require.NoError(t, err)

	require.Len(t, top.MostPerfumes, 2)
	assert.Equal(t, "alice", top.MostPerfumes[0].User.Username)
	assert.EqualValues(t, 2, top.MostPerfumes[0].Count)

	require.Len(t, top.MostExpensivePurchase, 3)
	assert.Equal(t, "bob", top.MostExpensivePurchase[0].User.Username)
	assert.Equal(t, "B1", top.MostExpensivePurchase[0].Perfume.Name)

	require.Len(t, top.MostExpensiveCollection, 2)
	assert.Equal(t, "alice", top.MostExpensiveCollection[0].User.Username)
	assert.Equal(t, 110.0, top.MostExpensiveCollection[0].Total)

	_, err = env.stats.TopUsers(ctx, 0)
	assert.ErrorIs(t, err, i18n.ErrInvalidRange)
	_, err = env.stats.TopUsers(ctx, 11)
	assert.ErrorIs(t, err, i18n.ErrInvalidRange)
}
