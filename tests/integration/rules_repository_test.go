package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tally/internal/rules"
	pkgerrors "tally/pkg/errors"
)

func TestRulesRepository_CreateScreeningRule(t *testing.T) {
	infra := SetupTestInfra(t)

	repo := rules.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	rule := createTestScreeningRule("max_stake", "amount <= 1000.0", 10, true)

	err := repo.CreateScreeningRule(ctx, rule)
	require.NoError(t, err)
	assert.NotEmpty(t, rule.ID)
	assert.False(t, rule.CreatedAt.IsZero())
	assert.False(t, rule.UpdatedAt.IsZero())
}

func TestRulesRepository_CreateScreeningRule_DuplicateName(t *testing.T) {
	infra := SetupTestInfra(t)

	repo := rules.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	rule := createTestScreeningRule("max_stake", "amount <= 1000.0", 10, true)
	err := repo.CreateScreeningRule(ctx, rule)
	require.NoError(t, err)

	dup := createTestScreeningRule("max_stake", "amount <= 500.0", 20, true)
	err = repo.CreateScreeningRule(ctx, dup)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestRulesRepository_GetScreeningRule(t *testing.T) {
	infra := SetupTestInfra(t)

	repo := rules.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	rule := createTestScreeningRule("max_stake", "amount <= 1000.0", 10, true)
	err := repo.CreateScreeningRule(ctx, rule)
	require.NoError(t, err)

	retrieved, err := repo.GetScreeningRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, rule.ID, retrieved.ID)
	assert.Equal(t, rule.Name, retrieved.Name)
	assert.Equal(t, rule.Expression, retrieved.Expression)
	assert.Equal(t, rule.Priority, retrieved.Priority)
	assert.Equal(t, rule.Enabled, retrieved.Enabled)
}

func TestRulesRepository_GetScreeningRule_NotFound(t *testing.T) {
	infra := SetupTestInfra(t)

	repo := rules.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	_, err := repo.GetScreeningRule(ctx, "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRulesRepository_ListScreeningRules(t *testing.T) {
	infra := SetupTestInfra(t)

	repo := rules.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	seeded := []*rules.ScreeningRule{
		createTestScreeningRule("max_stake", "amount <= 1000.0", 10, true),
		createTestScreeningRule("known_source", "source == 'chat-a'", 20, true),
		createTestScreeningRule("big_spender", "amount > 100.0", 5, false),
	}

	for _, rule := range seeded {
		err := repo.CreateScreeningRule(ctx, rule)
		require.NoError(t, err)
		time.Sleep(timestampDelay)
	}

	list, err := repo.ListScreeningRules(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	assert.Equal(t, "known_source", list[0].Name) // Priority 20
	assert.Equal(t, "max_stake", list[1].Name)    // Priority 10
	assert.Equal(t, "big_spender", list[2].Name)  // Priority 5
}

func TestRulesRepository_UpdateScreeningRule(t *testing.T) {
	infra := SetupTestInfra(t)

	repo := rules.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	rule := createTestScreeningRule("max_stake", "amount <= 1000.0", 10, true)
	err := repo.CreateScreeningRule(ctx, rule)
	require.NoError(t, err)

	originalUpdatedAt := rule.UpdatedAt

	time.Sleep(timestampDelay)
	rule.Name = "max_stake_tightened"
	rule.Expression = "amount <= 500.0"
	rule.Priority = 15
	rule.Enabled = false

	err = repo.UpdateScreeningRule(ctx, rule)
	require.NoError(t, err)

	retrieved, err := repo.GetScreeningRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "max_stake_tightened", retrieved.Name)
	assert.Equal(t, "amount <= 500.0", retrieved.Expression)
	assert.Equal(t, 15, retrieved.Priority)
	assert.False(t, retrieved.Enabled)
	assert.True(t, retrieved.UpdatedAt.After(originalUpdatedAt))
}

func TestRulesRepository_DeleteScreeningRule(t *testing.T) {
	infra := SetupTestInfra(t)

	repo := rules.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	rule := createTestScreeningRule("max_stake", "amount <= 1000.0", 10, true)
	err := repo.CreateScreeningRule(ctx, rule)
	require.NoError(t, err)
	err = repo.DeleteScreeningRule(ctx, rule.ID)
	require.NoError(t, err)

	_, err = repo.GetScreeningRule(ctx, rule.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
