package lock

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TryAcquire_CreatesLockFileAndParents(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "nested", "nav.db.lock")

	fl, err := TryAcquire(lockPath)
	require.NoError(t, err)
	require.NotNil(t, fl)
	defer fl.Release()

	_, err = os.Stat(lockPath)
	assert.NoError(t, err)
}

func Test_TryAcquire_ReturnsNil_WhenHeld(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "nav.db.lock")

	first, err := TryAcquire(lockPath)
	require.NoError(t, err)
	require.NotNil(t, first)
	defer first.Release()

	second, err := TryAcquire(lockPath)
	require.NoError(t, err)
	assert.Nil(t, second)
}

func Test_AcquireContext_WaitsForRelease(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "nav.db.lock")

	first, err := TryAcquire(lockPath)
	require.NoError(t, err)

	acquired := make(chan *FileLock, 1)
	go func() {
		fl, err := AcquireContext(context.Background(), lockPath)
		if err != nil {
			t.Errorf("AcquireContext failed: %v", err)
			acquired <- nil
			return
		}
		acquired <- fl
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire should block while first holds lock")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, first.Release())

	select {
	case fl := <-acquired:
		require.NotNil(t, fl)
		fl.Release()
	case <-time.After(time.Second):
		t.Fatal("second acquire should succeed after first release")
	}
}

func Test_AcquireContext_HonorsCancellation(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "nav.db.lock")

	first, err := TryAcquire(lockPath)
	require.NoError(t, err)
	defer first.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	fl, err := AcquireContext(ctx, lockPath)
	assert.Nil(t, fl)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func Test_Release_Idempotent(t *testing.T) {
	fl, err := TryAcquire(filepath.Join(t.TempDir(), "nav.db.lock"))
	require.NoError(t, err)

	assert.NoError(t, fl.Release())
	assert.NoError(t, fl.Release())
}
