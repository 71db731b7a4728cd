package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tally/internal/archive"
)

func TestArchiveRepository_SaveRejection(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true, false)

	ctx := context.Background()
	repo := archive.NewRepository(infra.MongoDB)

	msg := createTestMessage("msg-1", "chat-a", "hello there")
	rejection := archive.NewMalformedRejection(msg, "no amount token")

	err := repo.SaveRejection(ctx, rejection)
	require.NoError(t, err)

	rejections, err := repo.ListRejections(ctx, archive.RejectionFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rejections, 1)
	assert.Equal(t, "msg-1", rejections[0].SourceMessageID)
	assert.Equal(t, "chat-a", rejections[0].Source)
	assert.Equal(t, archive.ReasonMalformed, rejections[0].ReasonKind)
	assert.Equal(t, "no amount token", rejections[0].Reason)
	assert.False(t, rejections[0].RejectedAt.IsZero())
}

func TestArchiveRepository_SaveRejection_ScreenedOut(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true, false)

	ctx := context.Background()
	repo := archive.NewRepository(infra.MongoDB)

	msg := createTestMessage("msg-1", "chat-a", "msg_1: AccountA bets 5000 on TeamX")
	rejection := archive.NewScreenedOutRejection(msg, "screening rule rejected bet", []string{"rule-1"})

	err := repo.SaveRejection(ctx, rejection)
	require.NoError(t, err)

	rejections, err := repo.ListRejections(ctx, archive.RejectionFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rejections, 1)
	assert.Equal(t, archive.ReasonScreenedOut, rejections[0].ReasonKind)
	assert.Equal(t, []string{"rule-1"}, rejections[0].RuleIDs)
}

func TestArchiveRepository_ListRejections_FilterByReasonKind(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true, false)

	ctx := context.Background()
	repo := archive.NewRepository(infra.MongoDB)

	malformed := archive.NewMalformedRejection(createTestMessage("msg-1", "chat-a", "hello"), "no amount token")
	screened := archive.NewScreenedOutRejection(createTestMessage("msg-2", "chat-a", "msg_2: AccountA bets 5000 on TeamX"), "screening rule rejected bet", []string{"rule-1"})

	require.NoError(t, repo.SaveRejection(ctx, malformed))
	require.NoError(t, repo.SaveRejection(ctx, screened))

	rejections, err := repo.ListRejections(ctx, archive.RejectionFilter{ReasonKind: archive.ReasonMalformed, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rejections, 1)
	assert.Equal(t, "msg-1", rejections[0].SourceMessageID)
}

func TestArchiveRepository_ListRejections_FilterBySource(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true, false)

	ctx := context.Background()
	repo := archive.NewRepository(infra.MongoDB)

	require.NoError(t, repo.SaveRejection(ctx, archive.NewMalformedRejection(createTestMessage("msg-1", "chat-a", "hello"), "no amount token")))
	require.NoError(t, repo.SaveRejection(ctx, archive.NewMalformedRejection(createTestMessage("msg-2", "chat-b", "hello"), "no amount token")))

	rejections, err := repo.ListRejections(ctx, archive.RejectionFilter{Source: "chat-b", Limit: 10})
	require.NoError(t, err)
	require.Len(t, rejections, 1)
	assert.Equal(t, "msg-2", rejections[0].SourceMessageID)
}

func TestArchiveRepository_ListRejections_NewestFirst(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true, false)

	ctx := context.Background()
	repo := archive.NewRepository(infra.MongoDB)

	for _, id := range []string{"msg-1", "msg-2", "msg-3"} {
		rejection := archive.NewMalformedRejection(createTestMessage(id, "chat-a", "hello"), "no amount token")
		require.NoError(t, repo.SaveRejection(ctx, rejection))
		time.Sleep(timestampDelay)
	}

	rejections, err := repo.ListRejections(ctx, archive.RejectionFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rejections, 3)
	assert.Equal(t, "msg-3", rejections[0].SourceMessageID)
	assert.Equal(t, "msg-1", rejections[2].SourceMessageID)
}

func TestArchiveRepository_CountRejections(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true, false)

	ctx := context.Background()
	repo := archive.NewRepository(infra.MongoDB)

	require.NoError(t, repo.SaveRejection(ctx, archive.NewMalformedRejection(createTestMessage("msg-1", "chat-a", "hello"), "no amount token")))
	require.NoError(t, repo.SaveRejection(ctx, archive.NewMalformedRejection(createTestMessage("msg-2", "chat-a", "hello"), "no amount token")))
	require.NoError(t, repo.SaveRejection(ctx, archive.NewScreenedOutRejection(createTestMessage("msg-3", "chat-a", "msg_3: AccountA bets 5000 on TeamX"), "screening rule rejected bet", nil)))

	malformed, err := repo.CountRejections(ctx, archive.ReasonMalformed)
	require.NoError(t, err)
	assert.Equal(t, int64(2), malformed)

	screened, err := repo.CountRejections(ctx, archive.ReasonScreenedOut)
	require.NoError(t, err)
	assert.Equal(t, int64(1), screened)

	all, err := repo.CountRejections(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), all)
}
