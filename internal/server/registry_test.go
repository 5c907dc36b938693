package server

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Frank-III/PixeLana-further/internal/game"
	"github.com/Frank-III/PixeLana-further/internal/roomid"
)

func TestCreateRoom(t *testing.T) {
	t.Parallel()
	registry := testRegistry(quartz.NewReal())

	id, roster, err := registry.CreateRoom(testPlayerInfo(0))
	require.NoError(t, err)
	require.NoError(t, roomid.Validate(id))
	require.Len(t, roster, 1)
	assert.True(t, roster[0].Host, "creator should be host")
	assert.Equal(t, 1, registry.RoomCount())
}

func TestWithRoomNotFound(t *testing.T) {
	t.Parallel()
	registry := testRegistry(quartz.NewReal())

	err := registry.WithRoom("000000", func(*game.Session) error { return nil })
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestConcurrentCreateRoomUniqueIDs(t *testing.T) {
	t.Parallel()
	registry := testRegistry(quartz.NewReal())

	const rooms = 50
	ids := make(chan string, rooms)
	var wg sync.WaitGroup
	for i := 0; i < rooms; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, _, err := registry.CreateRoom(testPlayerInfo(i))
			assert.NoError(t, err)
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate room id %s", id)
		seen[id] = true
	}
	assert.Equal(t, rooms, registry.RoomCount(), "no concurrently created room may be lost")
}

func TestConcurrentSubmitSingleCompletion(t *testing.T) {
	t.Parallel()
	registry := testRegistry(quartz.NewReal())

	id, _, err := registry.CreateRoom(testPlayerInfo(0))
	require.NoError(t, err)
	for i := 1; i < 3; i++ {
		require.NoError(t, registry.WithRoom(id, func(s *game.Session) error {
			_, err := s.Join(testPlayerInfo(i))
			return err
		}))
	}
	require.NoError(t, registry.WithRoom(id, func(s *game.Session) error {
		return s.Start()
	}))

	// All three players submit simultaneously; the room lock serialises
	// them, so exactly one submission may observe completion.
	var completions int32
	var wg sync.WaitGroup
	for slot := 0; slot < 3; slot++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			err := registry.WithRoom(id, func(s *game.Session) error {
				if s.Submit(slot, "content") {
					atomic.AddInt32(&completions, 1)
				}
				return nil
			})
			assert.NoError(t, err)
		}(slot)
	}
	wg.Wait()

	assert.Equal(t, int32(1), completions, "round completion must fire exactly once")
}

func TestRoomsDoNotBlockEachOther(t *testing.T) {
	t.Parallel()
	registry := testRegistry(quartz.NewReal())

	idA, _, err := registry.CreateRoom(testPlayerInfo(0))
	require.NoError(t, err)
	idB, _, err := registry.CreateRoom(testPlayerInfo(1))
	require.NoError(t, err)

	// Hold room A's lock for the duration of the test.
	heldA := make(chan struct{})
	releaseA := make(chan struct{})
	go func() {
		_ = registry.WithRoom(idA, func(*game.Session) error {
			close(heldA)
			<-releaseA
			return nil
		})
	}()
	<-heldA
	defer close(releaseA)

	done := make(chan struct{})
	go func() {
		_ = registry.WithRoom(idB, func(*game.Session) error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("operation on room B blocked behind room A's lock")
	}
}

func TestSweepEvictsIdleRooms(t *testing.T) {
	t.Parallel()
	mock := quartz.NewMock(t)
	registry := testRegistry(mock)
	ctx := context.Background()

	idA, _, err := registry.CreateRoom(testPlayerInfo(0))
	require.NoError(t, err)
	idB, _, err := registry.CreateRoom(testPlayerInfo(1))
	require.NoError(t, err)

	mock.Advance(20 * time.Minute).MustWait(ctx)

	// Touch room A so only B goes stale.
	require.NoError(t, registry.WithRoom(idA, func(*game.Session) error { return nil }))

	mock.Advance(15 * time.Minute).MustWait(ctx)

	removed := registry.Sweep(30*time.Minute, nil)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, registry.RoomCount())
	assert.NoError(t, registry.WithRoom(idA, func(*game.Session) error { return nil }))
	assert.ErrorIs(t, registry.WithRoom(idB, func(*game.Session) error { return nil }), ErrRoomNotFound)
}

func TestSweepKeepsRoomsInUse(t *testing.T) {
	t.Parallel()
	mock := quartz.NewMock(t)
	registry := testRegistry(mock)
	ctx := context.Background()

	idA, _, err := registry.CreateRoom(testPlayerInfo(0))
	require.NoError(t, err)
	idB, _, err := registry.CreateRoom(testPlayerInfo(1))
	require.NoError(t, err)

	mock.Advance(45 * time.Minute).MustWait(ctx)

	// Both rooms are stale, but A still has someone connected.
	removed := registry.Sweep(30*time.Minute, func(roomID string) bool {
		return roomID == idA
	})
	assert.Equal(t, 1, removed)
	assert.NoError(t, registry.WithRoom(idA, func(*game.Session) error { return nil }))
	assert.ErrorIs(t, registry.WithRoom(idB, func(*game.Session) error { return nil }), ErrRoomNotFound)
}

func TestSweepKeepsActiveRooms(t *testing.T) {
	t.Parallel()
	mock := quartz.NewMock(t)
	registry := testRegistry(mock)

	_, _, err := registry.CreateRoom(testPlayerInfo(0))
	require.NoError(t, err)

	removed := registry.Sweep(30*time.Minute, nil)
	assert.Equal(t, 0, removed)
	assert.Equal(t, 1, registry.RoomCount())
}
