package future

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stgerrors "github.com/arthur-debert/stagehand/pkg/errors"
)

func TestResolvedAwaitsToItself(t *testing.T) {
	f := Resolved(42)

	got, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	// Settlement is permanent.
	got, err = f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestFailedAwaitsToError(t *testing.T) {
	boom := errors.New("boom")
	f := Failed[string](boom)

	_, err := f.Await(context.Background())
	assert.Equal(t, boom, err)
}

func TestGoResolves(t *testing.T) {
	f := Go(func() (string, error) {
		return "done", nil
	})

	got, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", got)
}

func TestGoPropagatesFirstFailure(t *testing.T) {
	// A sequence that fails at its first suspension point settles as a
	// failure carrying that exact error.
	boom := errors.New("boom")
	f := Go(func() (int, error) {
		return 0, boom
	})

	_, err := f.Await(context.Background())
	assert.Equal(t, boom, err)
}

func TestGoRecoversPanic(t *testing.T) {
	f := Go(func() (int, error) {
		panic("kaput")
	})

	_, err := f.Await(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaput")
}

func TestAwaitContextExpiryKeepsSettlement(t *testing.T) {
	release := make(chan struct{})
	f := Go(func() (int, error) {
		<-release
		return 7, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	got, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestMustFailMatchingMessage(t *testing.T) {
	f := Failed[int](errors.New("boom"))

	assert.NoError(t, MustFail(context.Background(), f, "boom"))
}

func TestMustFailOnNormalResolution(t *testing.T) {
	f := Resolved(42)

	err := MustFail(context.Background(), f, "boom")
	require.Error(t, err)
	assert.True(t, stgerrors.IsErrorCode(err, stgerrors.ErrAssertFailed))
	assert.Contains(t, err.Error(), "resolved normally")
	assert.Contains(t, err.Error(), "42")
}

func TestMustFailOnWrongMessage(t *testing.T) {
	f := Failed[int](errors.New("bang"))

	err := MustFail(context.Background(), f, "boom")
	require.Error(t, err)
	assert.True(t, stgerrors.IsErrorCode(err, stgerrors.ErrAssertFailed))
	assert.Contains(t, err.Error(), `"boom"`)
	assert.Contains(t, err.Error(), `"bang"`)
}
