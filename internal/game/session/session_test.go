package session

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/game/command"
	"github.com/cory-johannsen/adventure/internal/game/world"
)

// scriptedPresenter feeds a fixed sequence of input lines and records every
// snapshot it is asked to render.
type scriptedPresenter struct {
	lines []string
	next  int
	snaps []Snapshot
}

func (p *scriptedPresenter) Render(snap Snapshot) error {
	p.snaps = append(p.snaps, snap)
	return nil
}

func (p *scriptedPresenter) ReadLine() (string, error) {
	if p.next >= len(p.lines) {
		return "", io.EOF
	}
	line := p.lines[p.next]
	p.next++
	return line, nil
}

type fakeHooks struct {
	calls []int
	msg   string
	err   error
}

func (h *fakeHooks) OnEnter(roomID int) (string, error) {
	h.calls = append(h.calls, roomID)
	return h.msg, h.err
}

type memoryStore struct {
	slots  map[string]int
	putErr error
	getErr error
}

func (m *memoryStore) Put(_ context.Context, slot, _ string, roomID int) error {
	if m.putErr != nil {
		return m.putErr
	}
	if m.slots == nil {
		m.slots = make(map[string]int)
	}
	m.slots[slot] = roomID
	return nil
}

func (m *memoryStore) Get(_ context.Context, slot string) (int, bool, error) {
	if m.getErr != nil {
		return 0, false, m.getErr
	}
	roomID, ok := m.slots[slot]
	return roomID, ok, nil
}

func dungeonWorld(t *testing.T) *world.World {
	t.Helper()
	b := world.NewBuilder()
	require.NoError(t, b.AddRoom(0, "A dusty library."))
	require.NoError(t, b.AddRoom(1, "A cold cavern."))
	require.NoError(t, b.AddRoom(2, "A cramped tunnel."))
	require.NoError(t, b.Connect(0, world.North, 1))
	require.NoError(t, b.Connect(1, world.South, 0))
	require.NoError(t, b.Connect(1, world.East, 2))
	require.NoError(t, b.Connect(2, world.West, 1))
	w, err := b.Build()
	require.NoError(t, err)
	return w
}

func newTestSession(t *testing.T, lines []string, opts Options) (*Session, *scriptedPresenter) {
	t.Helper()
	if opts.TranscriptCapacity == 0 {
		// Roomy enough that content assertions never race eviction.
		opts.TranscriptCapacity = 64
	}
	p := &scriptedPresenter{lines: lines}
	sess, err := New(dungeonWorld(t), command.DefaultRegistry(), p, zap.NewNop(), opts)
	require.NoError(t, err)
	return sess, p
}

func TestNewRequiresStartingRoom(t *testing.T) {
	b := world.NewBuilder()
	require.NoError(t, b.AddRoom(5, "unreachable start"))
	w, err := b.Build()
	require.NoError(t, err)

	_, err = New(w, command.DefaultRegistry(), &scriptedPresenter{}, zap.NewNop(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no starting room (ID 0)")
}

func TestRunQuitTerminates(t *testing.T) {
	sess, p := newTestSession(t, []string{"quit"}, Options{})
	require.NoError(t, sess.Run(context.Background()))

	assert.True(t, sess.Terminated())
	// One render before reading the quit, one final render after.
	assert.Len(t, p.snaps, 2)

	msgs := sess.Transcript().Messages()
	assert.Equal(t, "Welcome to the Awesome Text Adventure! Type 'help' for commands.", msgs[0])
	assert.Equal(t, "A dusty library.", msgs[1])
	assert.Equal(t, "Exits: north", msgs[2])
}

func TestRunExitAliasTerminates(t *testing.T) {
	sess, _ := newTestSession(t, []string{"exit"}, Options{})
	require.NoError(t, sess.Run(context.Background()))
	assert.True(t, sess.Terminated())
}

func TestRunEndOfInputTerminates(t *testing.T) {
	sess, p := newTestSession(t, nil, Options{})
	require.NoError(t, sess.Run(context.Background()))

	assert.True(t, sess.Terminated())
	assert.Len(t, p.snaps, 2)
}

func TestRunMovementRedescribesRoom(t *testing.T) {
	sess, _ := newTestSession(t, []string{"go north", "quit"}, Options{})
	require.NoError(t, sess.Run(context.Background()))

	assert.Equal(t, 1, sess.CurrentRoomID())
	msgs := sess.Transcript().Messages()
	assert.Contains(t, msgs, "A cold cavern.")
	assert.Contains(t, msgs, "Exits: south east")
}

func TestRunBareDirectionMoves(t *testing.T) {
	sess, _ := newTestSession(t, []string{"n", "e", "quit"}, Options{})
	require.NoError(t, sess.Run(context.Background()))
	assert.Equal(t, 2, sess.CurrentRoomID())
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess, _ := newTestSession(t, []string{"look"}, Options{})
	err := sess.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunRenderErrorSurfaces(t *testing.T) {
	p := &failingPresenter{}
	sess, err := New(dungeonWorld(t), command.DefaultRegistry(), p, zap.NewNop(), Options{})
	require.NoError(t, err)

	err = sess.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendering")
}

type failingPresenter struct{}

func (failingPresenter) Render(Snapshot) error     { return errors.New("broken pipe") }
func (failingPresenter) ReadLine() (string, error) { return "", io.EOF }

func lastMessage(t *testing.T, sess *Session) string {
	t.Helper()
	msgs := sess.Transcript().Messages()
	require.NotEmpty(t, msgs)
	return msgs[len(msgs)-1]
}

func TestDispatchUnknownCommand(t *testing.T) {
	sess, _ := newTestSession(t, nil, Options{})
	sess.Dispatch(context.Background(), "dance wildly")
	assert.Equal(t, "I don't understand that command.", lastMessage(t, sess))
}

func TestDispatchBlankInput(t *testing.T) {
	sess, _ := newTestSession(t, nil, Options{})
	before := sess.Transcript().Seq()
	sess.Dispatch(context.Background(), "   ")
	assert.Equal(t, before, sess.Transcript().Seq())
}

func TestDispatchGoWithoutArgument(t *testing.T) {
	sess, _ := newTestSession(t, nil, Options{})
	sess.Dispatch(context.Background(), "go")
	assert.Equal(t, "Go where?", lastMessage(t, sess))
	assert.Equal(t, 0, sess.CurrentRoomID())
}

func TestDispatchGoInvalidDirection(t *testing.T) {
	sess, _ := newTestSession(t, nil, Options{})
	sess.Dispatch(context.Background(), "go sideways")
	assert.Equal(t, "That's not a valid direction.", lastMessage(t, sess))
	assert.Equal(t, 0, sess.CurrentRoomID())
}

func TestDispatchGoBlockedDirection(t *testing.T) {
	sess, _ := newTestSession(t, nil, Options{})
	sess.Dispatch(context.Background(), "go south")
	assert.Equal(t, "You can't go that way.", lastMessage(t, sess))
	assert.Equal(t, 0, sess.CurrentRoomID())
}

func TestDispatchLook(t *testing.T) {
	sess, _ := newTestSession(t, nil, Options{})
	sess.Dispatch(context.Background(), "look")

	msgs := sess.Transcript().Messages()
	require.GreaterOrEqual(t, len(msgs), 2)
	assert.Equal(t, "A dusty library.", msgs[len(msgs)-2])
	assert.Equal(t, "Exits: north", msgs[len(msgs)-1])
}

func TestDispatchExits(t *testing.T) {
	sess, _ := newTestSession(t, nil, Options{})
	sess.Dispatch(context.Background(), "exits")
	assert.Equal(t, "Exits: north", lastMessage(t, sess))
}

func TestDispatchExitsNoneAvailable(t *testing.T) {
	b := world.NewBuilder()
	require.NoError(t, b.AddRoom(0, "a sealed cell"))
	w, err := b.Build()
	require.NoError(t, err)

	sess, err := New(w, command.DefaultRegistry(), &scriptedPresenter{}, zap.NewNop(), Options{})
	require.NoError(t, err)

	sess.Dispatch(context.Background(), "exits")
	assert.Equal(t, "There are no obvious exits.", lastMessage(t, sess))
}

func TestDispatchHelpListsEveryCommand(t *testing.T) {
	sess, _ := newTestSession(t, nil, Options{})
	sess.Dispatch(context.Background(), "help")

	msgs := sess.Transcript().Messages()
	assert.Contains(t, msgs, "--- Available Commands ---")
	assert.Contains(t, msgs, "quit (exit): Leave the game")
	assert.Contains(t, msgs, "look (l): Describe the current room and exits")
	assert.Contains(t, msgs, "go: Move in a direction (north, south, east, west, or n,s,e,w)")
	assert.Contains(t, msgs, "help (?): Show this help message")
}

func TestDispatchHelpAlias(t *testing.T) {
	sess, _ := newTestSession(t, nil, Options{})
	sess.Dispatch(context.Background(), "?")
	assert.Contains(t, sess.Transcript().Messages(), "--- Available Commands ---")
}

func TestEnterHookMessageAppended(t *testing.T) {
	hooks := &fakeHooks{msg: "A shiver runs down your spine."}
	sess, _ := newTestSession(t, nil, Options{Hooks: hooks})

	sess.Dispatch(context.Background(), "go north")

	assert.Equal(t, []int{1}, hooks.calls)
	assert.Equal(t, "A shiver runs down your spine.", lastMessage(t, sess))
}

func TestEnterHookErrorSwallowed(t *testing.T) {
	hooks := &fakeHooks{err: errors.New("script blew up")}
	sess, _ := newTestSession(t, nil, Options{Hooks: hooks})

	sess.Dispatch(context.Background(), "go north")

	assert.Equal(t, 1, sess.CurrentRoomID())
	assert.Equal(t, "Exits: south east", lastMessage(t, sess))
}

func TestEnterHookNotFiredOnFailedMove(t *testing.T) {
	hooks := &fakeHooks{msg: "should not appear"}
	sess, _ := newTestSession(t, nil, Options{Hooks: hooks})

	sess.Dispatch(context.Background(), "go south")
	assert.Empty(t, hooks.calls)
}

func TestSaveWithoutStore(t *testing.T) {
	sess, _ := newTestSession(t, nil, Options{})
	sess.Dispatch(context.Background(), "save")
	assert.Equal(t, "Saving is not available.", lastMessage(t, sess))
}

func TestLoadWithoutStore(t *testing.T) {
	sess, _ := newTestSession(t, nil, Options{})
	sess.Dispatch(context.Background(), "load")
	assert.Equal(t, "Loading is not available.", lastMessage(t, sess))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := &memoryStore{}
	sess, _ := newTestSession(t, nil, Options{Saves: store})
	ctx := context.Background()

	sess.Dispatch(ctx, "go north")
	sess.Dispatch(ctx, "save camp")
	assert.Equal(t, "Position saved to slot 'camp'.", lastMessage(t, sess))
	assert.Equal(t, 1, store.slots["camp"])

	sess.Dispatch(ctx, "go east")
	require.Equal(t, 2, sess.CurrentRoomID())

	sess.Dispatch(ctx, "load camp")
	assert.Equal(t, 1, sess.CurrentRoomID())
	// Loading re-describes the restored room.
	assert.Equal(t, "Exits: south east", lastMessage(t, sess))
}

func TestSaveDefaultsSlotName(t *testing.T) {
	store := &memoryStore{}
	sess, _ := newTestSession(t, nil, Options{Saves: store})

	sess.Dispatch(context.Background(), "save")
	assert.Equal(t, "Position saved to slot 'default'.", lastMessage(t, sess))
	assert.Contains(t, store.slots, "default")
}

func TestLoadMissingSlot(t *testing.T) {
	sess, _ := newTestSession(t, nil, Options{Saves: &memoryStore{}})
	sess.Dispatch(context.Background(), "load nowhere")
	assert.Equal(t, "No save found in slot 'nowhere'.", lastMessage(t, sess))
}

func TestLoadSavedRoomMissingFromWorld(t *testing.T) {
	store := &memoryStore{slots: map[string]int{"default": 99}}
	sess, _ := newTestSession(t, nil, Options{Saves: store})

	sess.Dispatch(context.Background(), "load")
	assert.Equal(t, "The saved position does not exist in this world.", lastMessage(t, sess))
	assert.Equal(t, 0, sess.CurrentRoomID())
}

func TestSaveStoreErrorReported(t *testing.T) {
	store := &memoryStore{putErr: errors.New("connection refused")}
	sess, _ := newTestSession(t, nil, Options{Saves: store})

	sess.Dispatch(context.Background(), "save")
	assert.Equal(t, "Saving failed.", lastMessage(t, sess))
}

func TestLoadStoreErrorReported(t *testing.T) {
	store := &memoryStore{getErr: errors.New("connection refused")}
	sess, _ := newTestSession(t, nil, Options{Saves: store})

	sess.Dispatch(context.Background(), "load")
	assert.Equal(t, "Loading failed.", lastMessage(t, sess))
}

func TestSnapshotCarriesSeqAndExits(t *testing.T) {
	sess, p := newTestSession(t, []string{"quit"}, Options{})
	require.NoError(t, sess.Run(context.Background()))

	first := p.snaps[0]
	assert.Equal(t, 0, first.RoomID)
	assert.Equal(t, []world.Direction{world.North}, first.Exits)
	// Welcome banner plus the initial room description and exits line.
	assert.Equal(t, 3, first.Seq)
	assert.Len(t, first.Messages, 3)
}

func TestSessionUIDsAreDistinct(t *testing.T) {
	a, _ := newTestSession(t, nil, Options{})
	b, _ := newTestSession(t, nil, Options{})
	assert.NotEmpty(t, a.UID())
	assert.NotEqual(t, a.UID(), b.UID())
}
