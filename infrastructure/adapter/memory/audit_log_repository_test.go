package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securematch/securematch/domain/entity"
)

func TestAuditLogRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditLogRepository()
	now := time.Now()

	t.Run("empty summary is zero", func(t *testing.T) {
		s, err := repo.Summarize(ctx, now.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Zero(t, s.Total)
		assert.Zero(t, s.Failed)
		assert.Zero(t, s.AvgDurationMs)
		assert.Empty(t, s.RejectionsByReason)
	})

	records := []*entity.SearchAuditRecord{
		entity.NewSearchAuditRecord("old", 1, 1, "h", "s", entity.OutcomeSignatureInvalid, 10*time.Millisecond, now.Add(-48*time.Hour)),
		entity.NewSearchAuditRecord("a", 1, 1, "h", "s", entity.OutcomeVerified, 2*time.Millisecond, now.Add(-time.Hour)),
		entity.NewSearchAuditRecord("b", 1, 1, "h", "s", entity.OutcomeSignatureInvalid, 4*time.Millisecond, now.Add(-30*time.Minute)),
		entity.NewSearchAuditRecord("c", 2, 0, "h", "s", entity.OutcomeAuditorNotFound, 6*time.Millisecond, now),
	}
	for _, r := range records {
		require.NoError(t, repo.Append(ctx, r))
	}

	t.Run("summary respects window", func(t *testing.T) {
		s, err := repo.Summarize(ctx, now.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 3, s.Total)
		assert.Equal(t, 2, s.Failed)
		assert.InDelta(t, 4.0, s.AvgDurationMs, 0.001)
		assert.Equal(t, 1, s.RejectionsByReason[entity.OutcomeSignatureInvalid])
		assert.Equal(t, 1, s.RejectionsByReason[entity.OutcomeAuditorNotFound])
	})

	t.Run("list newest first with limit", func(t *testing.T) {
		list, err := repo.ListByAuditor(ctx, 1, 2)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "b", list[0].ID)
		assert.Equal(t, "a", list[1].ID)

		all, err := repo.ListByAuditor(ctx, 1, 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("stored records are immutable", func(t *testing.T) {
		records[1].Verified = false
		list, err := repo.ListByAuditor(ctx, 1, 0)
		require.NoError(t, err)
		assert.True(t, list[1].Verified)

		list[1].Outcome = entity.OutcomeNoActiveKey
		again, _ := repo.ListByAuditor(ctx, 1, 0)
		assert.Equal(t, entity.OutcomeVerified, again[1].Outcome)
	})
}

func TestSearchIndex(t *testing.T) {
	ctx := context.Background()
	idx := NewSearchIndex()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	idx.AddDocument(1, t0, []string{"h1", "h2"}, true)
	idx.AddDocument(2, t0.Add(time.Hour), []string{"h1"}, true)
	idx.AddDocument(3, t0.Add(2*time.Hour), []string{"h1", "h3"}, false)

	results, err := idx.Search(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(2), results[0].DocumentID)
	assert.Equal(t, int64(1), results[1].DocumentID)

	internalOnly, err := idx.Search(ctx, "h3")
	require.NoError(t, err)
	assert.Empty(t, internalOnly)

	none, err := idx.Search(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalDocuments)
	assert.Equal(t, 5, stats.TotalTokens)
	assert.Equal(t, 3, stats.ExternalTokens)
	require.NotNil(t, stats.LastIndexUpdate)
	assert.Equal(t, t0.Add(2*time.Hour), *stats.LastIndexUpdate)
}
