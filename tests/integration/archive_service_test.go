package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tally/internal/archive"
)

func TestArchiveService_ListRejections_DefaultLimit(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true, false)

	ctx := context.Background()
	repo := archive.NewRepository(infra.MongoDB)
	svc := archive.NewService(repo)

	for _, id := range []string{"msg-1", "msg-2"} {
		rejection := archive.NewMalformedRejection(createTestMessage(id, "chat-a", "hello"), "no amount token")
		require.NoError(t, repo.SaveRejection(ctx, rejection))
	}

	// A zero limit falls back to the default page size
	rejections, err := svc.ListRejections(ctx, archive.RejectionFilter{})
	require.NoError(t, err)
	assert.Len(t, rejections, 2)
}

func TestArchiveService_RejectionStats(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true, false)

	ctx := context.Background()
	repo := archive.NewRepository(infra.MongoDB)
	svc := archive.NewService(repo)

	require.NoError(t, repo.SaveRejection(ctx, archive.NewMalformedRejection(createTestMessage("msg-1", "chat-a", "hello"), "no amount token")))
	require.NoError(t, repo.SaveRejection(ctx, archive.NewMalformedRejection(createTestMessage("msg-2", "chat-a", "hello"), "no amount token")))
	require.NoError(t, repo.SaveRejection(ctx, archive.NewScreenedOutRejection(createTestMessage("msg-3", "chat-a", "msg_3: AccountA bets 5000 on TeamX"), "screening rule rejected bet", []string{"rule-1"})))

	stats, err := svc.RejectionStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Malformed)
	assert.Equal(t, int64(1), stats.ScreenedOut)
}

func TestArchiveService_RejectionStats_Empty(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true, false)

	ctx := context.Background()
	repo := archive.NewRepository(infra.MongoDB)
	svc := archive.NewService(repo)

	stats, err := svc.RejectionStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.Equal(t, int64(0), stats.Malformed)
	assert.Equal(t, int64(0), stats.ScreenedOut)
}
