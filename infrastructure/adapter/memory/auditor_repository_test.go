package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/domain/entity"
)

func nonRevoked(t *testing.T, repo *AuditorRepository, id int64) []*entity.KeyVersion {
	t.Helper()
	versions, err := repo.ListKeyVersions(context.Background(), id)
	require.NoError(t, err)
	var out []*entity.KeyVersion
	for _, k := range versions {
		if !k.IsRevoked() {
			out = append(out, k)
		}
	}
	return out
}

func newAuditor(t *testing.T, repo *AuditorRepository, name string) *entity.Auditor {
	t.Helper()
	now := time.Now()
	a := entity.NewAuditor(name, now)
	require.NoError(t, repo.CreateWithKey(context.Background(), a, entity.NewKeyVersion(0, 1, "pub-1", "fp-1", now)))
	return a
}

func TestAuditorRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditorRepository()

	alice := newAuditor(t, repo, "alice")
	bob := newAuditor(t, repo, "bob")

	t.Run("ids are assigned in order", func(t *testing.T) {
		assert.Equal(t, int64(1), alice.ID)
		assert.Equal(t, int64(2), bob.ID)
		assert.Len(t, nonRevoked(t, repo, alice.ID), 1)
	})

	t.Run("rotate moves the active pointer", func(t *testing.T) {
		next := entity.NewKeyVersion(alice.ID, 2, "pub-2", "fp-2", time.Now())
		require.NoError(t, repo.RotateKey(ctx, alice.ID, 1, next))

		a, key, err := repo.FindActiveKey(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, a.ActiveKeyVersion)
		assert.Equal(t, "pub-2", key.PublicKey)

		active := nonRevoked(t, repo, alice.ID)
		require.Len(t, active, 1)
		assert.Equal(t, 2, active[0].Version)
	})

	t.Run("stale expected version conflicts", func(t *testing.T) {
		next := entity.NewKeyVersion(alice.ID, 2, "pub-x", "fp-x", time.Now())
		err := repo.RotateKey(ctx, alice.ID, 1, next)
		assert.ErrorIs(t, err, outbound.ErrKeyVersionConflict)

		versions, _ := repo.ListKeyVersions(ctx, alice.ID)
		assert.Len(t, versions, 2)
	})

	t.Run("delete revokes everything and is idempotent", func(t *testing.T) {
		already, err := repo.Delete(ctx, alice.ID, time.Now())
		require.NoError(t, err)
		assert.False(t, already)
		assert.Empty(t, nonRevoked(t, repo, alice.ID))

		already, err = repo.Delete(ctx, alice.ID, time.Now())
		require.NoError(t, err)
		assert.True(t, already)

		_, _, err = repo.FindActiveKey(ctx, alice.ID)
		assert.ErrorIs(t, err, outbound.ErrAuditorNotFound)

		got, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.True(t, got.IsDeleted())
		assert.NotNil(t, got.DeletedAt)
	})

	t.Run("list skips deleted auditors", func(t *testing.T) {
		list, err := repo.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "bob", list[0].Name)
	})

	t.Run("unknown auditor", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 99)
		assert.ErrorIs(t, err, outbound.ErrAuditorNotFound)
		_, err = repo.Delete(ctx, 99, time.Now())
		assert.ErrorIs(t, err, outbound.ErrAuditorNotFound)
		err = repo.RotateKey(ctx, 99, 1, entity.NewKeyVersion(99, 2, "", "", time.Now()))
		assert.ErrorIs(t, err, outbound.ErrAuditorNotFound)
	})
}

func TestAuditorRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditorRepository()
	a := newAuditor(t, repo, "carol")

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	got.Status = entity.AuditorStatusDeleted

	again, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, again.IsActive())
}

func TestAuditorRepository_ConcurrentRotation(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditorRepository()
	a := newAuditor(t, repo, "dave")

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next := entity.NewKeyVersion(a.ID, 2, "pub-2", "fp-2", time.Now())
			err := repo.RotateKey(ctx, a.ID, 1, next)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if assert.ErrorIs(t, err, outbound.ErrKeyVersionConflict) {
				conflicts++
			}
		}()
	}

	// readers must never observe zero or two active keys
	stop := make(chan struct{})
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			select {
			case <-stop:
				return
			default:
				_, key, err := repo.FindActiveKey(ctx, a.ID)
				if assert.NoError(t, err) {
					assert.False(t, key.IsRevoked())
				}
			}
		}
	}()

	wg.Wait()
	close(stop)
	<-readerDone

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, nonRevoked(t, repo, a.ID), 1)
}
