package snapshot

import (
	"testing"

	"github.com/kcmaxwell/flux/log"
	"github.com/kcmaxwell/flux/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bump struct{}

func (bump) Kind() string { return "bump" }

func counterReducer(state int, action store.Action) (int, error) {
	switch action.(type) {
	case bump:
		return state + 1, nil
	default:
		return state, nil
	}
}

func TestNewRecorder_BadInterval(t *testing.T) {
	s, err := store.New(counterReducer, nil)
	require.NoError(t, err)
	recorder, err := NewRecorder(log.Nop(), s, NewMemoryBackend(), "counter", 0)
	assert.Nil(t, recorder)
	assert.Error(t, err)
}

func TestRecorder_Interval(t *testing.T) {
	s, err := store.New(counterReducer, nil)
	require.NoError(t, err)
	backend := NewMemoryBackend()
	recorder, err := NewRecorder(log.Nop(), s, backend, "counter", 2)
	require.NoError(t, err)
	defer recorder.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Dispatch(bump{}))
	}

	//snapshots were taken after the 2nd and 4th dispatch
	state, found, err := Restore[int](backend, "counter")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 4, state)
}

func TestRecorder_Flush(t *testing.T) {
	s, err := store.New(counterReducer, nil)
	require.NoError(t, err)
	backend := NewMemoryBackend()
	recorder, err := NewRecorder(log.Nop(), s, backend, "counter", 100)
	require.NoError(t, err)
	defer recorder.Close()

	require.NoError(t, s.Dispatch(bump{}))
	require.NoError(t, recorder.Flush())

	state, found, err := Restore[int](backend, "counter")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, state)
}

func TestRecorder_Close(t *testing.T) {
	s, err := store.New(counterReducer, nil)
	require.NoError(t, err)
	backend := NewMemoryBackend()
	recorder, err := NewRecorder(log.Nop(), s, backend, "counter", 1)
	require.NoError(t, err)

	require.NoError(t, s.Dispatch(bump{}))
	require.NoError(t, recorder.Close())
	require.NoError(t, recorder.Close())
	assert.Error(t, recorder.Flush())

	//a closed recorder no longer snapshots
	require.NoError(t, s.Dispatch(bump{}))
	state, found, err := Restore[int](backend, "counter")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, state)
}

func TestRecorder_SnapshotIdsIncrease(t *testing.T) {
	s, err := store.New(counterReducer, nil)
	require.NoError(t, err)
	backend := NewMemoryBackend()
	recorder, err := NewRecorder(log.Nop(), s, backend, "counter", 1)
	require.NoError(t, err)
	defer recorder.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Dispatch(bump{}))
	}

	persisted := backend.(*memory).persisted
	require.Len(t, persisted, 3)
	for i := 1; i < len(persisted); i++ {
		assert.Greater(t, persisted[i], persisted[i-1])
	}
}

func TestRestore_Empty(t *testing.T) {
	_, found, err := Restore[int](NewMemoryBackend(), "counter")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRestore_IntoStore(t *testing.T) {
	backend := NewMemoryBackend()
	s, err := store.New(counterReducer, nil)
	require.NoError(t, err)
	recorder, err := NewRecorder(log.Nop(), s, backend, "counter", 1)
	require.NoError(t, err)
	require.NoError(t, s.Dispatch(bump{}))
	require.NoError(t, s.Dispatch(bump{}))
	require.NoError(t, recorder.Close())

	state, found, err := Restore[int](backend, "counter")
	require.NoError(t, err)
	require.True(t, found)
	restored, err := store.New(counterReducer, store.DefaultOptions[int]().WithInitialState(state))
	require.NoError(t, err)
	assert.Equal(t, 2, restored.GetState())
}
