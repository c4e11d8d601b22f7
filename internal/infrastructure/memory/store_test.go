package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/otp-login/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeStore_GetMissing(t *testing.T) {
	s := NewCodeStore()
	_, err := s.Get(context.Background(), "a@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCodeStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewCodeStore()
	require.NoError(t, s.Set(ctx, "a@b.com", "1111"))
	require.NoError(t, s.Set(ctx, "a@b.com", "2222"))
	code, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "2222", code)
}

func TestCodeStore_ConsumeOnce(t *testing.T) {
	ctx := context.Background()
	s := NewCodeStore()
	require.NoError(t, s.Set(ctx, "a@b.com", "1234"))

	ok, err := s.Consume(ctx, "a@b.com", "9999")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Consume(ctx, "a@b.com", "1234")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Consume(ctx, "a@b.com", "1234")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCodeStore_KeysAreCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s := NewCodeStore()
	require.NoError(t, s.Set(ctx, "A@b.com", "1234"))
	ok, err := s.Consume(ctx, "a@b.com", "1234")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCodeStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewCodeStore()
	require.NoError(t, s.Delete(ctx, "nobody@b.com"))
	require.NoError(t, s.Set(ctx, "a@b.com", "1234"))
	require.NoError(t, s.Delete(ctx, "a@b.com"))
	_, err := s.Get(ctx, "a@b.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCodeStore_ConcurrentConsumeSucceedsOnce(t *testing.T) {
	ctx := context.Background()
	s := NewCodeStore()
	require.NoError(t, s.Set(ctx, "a@b.com", "4321"))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.Consume(ctx, "a@b.com", "4321"); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}
