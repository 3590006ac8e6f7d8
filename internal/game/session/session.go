// Package session holds mutable play state (player position, transcript,
// termination flag) and drives the render/read/dispatch loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/game/command"
	"github.com/cory-johannsen/adventure/internal/game/world"
)

// StartRoomID is the hardwired starting room. A world without it is
// playable in principle but cannot anchor a session.
const StartRoomID = 0

// DefaultTranscriptCapacity bounds the transcript when no capacity is configured.
const DefaultTranscriptCapacity = 10

// Snapshot is the render view handed to the Presenter: where the player
// is, where they can go, and the retained transcript.
type Snapshot struct {
	// RoomID is the player's current room.
	RoomID int
	// Exits lists the available directions in enumeration order.
	Exits []world.Direction
	// Messages holds the retained transcript, oldest first.
	Messages []string
	// Seq is the total number of messages ever appended; presenters diff
	// it against their last seen value to find the new messages.
	Seq int
}

// Presenter is the external presentation collaborator. The session never
// assumes a terminal; any text-stream implementation suffices, which is
// what makes the loop testable with scripted input.
type Presenter interface {
	// Render displays the session snapshot.
	Render(snap Snapshot) error
	// ReadLine blocks until one full line of input is available. It
	// returns io.EOF when the input source ends.
	ReadLine() (string, error)
}

// RoomHooks runs world scripts in response to session events.
type RoomHooks interface {
	// OnEnter fires after the player moves into a room. A non-empty
	// return value is appended to the transcript.
	OnEnter(roomID int) (string, error)
}

// SaveStore persists and restores player positions by slot name.
type SaveStore interface {
	Put(ctx context.Context, slot, sessionUID string, roomID int) error
	// Get returns the saved room for a slot; ok is false when the slot
	// has never been written.
	Get(ctx context.Context, slot string) (roomID int, ok bool, err error)
}

// Options configures optional session collaborators.
type Options struct {
	// TranscriptCapacity bounds the transcript. <1 uses DefaultTranscriptCapacity.
	TranscriptCapacity int
	// Hooks enables room scripts. nil disables them.
	Hooks RoomHooks
	// Saves enables the save/load commands. nil makes them answer with
	// transcript feedback instead.
	Saves SaveStore
}

// Session owns the player, the transcript, and the termination flag, and
// drives the game loop. All world access after construction is read-only.
type Session struct {
	uid        string
	world      *world.World
	registry   *command.Registry
	presenter  Presenter
	transcript *Transcript
	logger     *zap.Logger
	hooks      RoomHooks
	saves      SaveStore

	currentRoom int
	terminate   atomic.Bool
}

// New creates a Session anchored at the starting room.
//
// Precondition: w, registry, presenter, and logger must be non-nil.
// Postcondition: Returns a Session positioned at room 0, or an error if
// the world has no room with ID 0.
func New(w *world.World, registry *command.Registry, presenter Presenter, logger *zap.Logger, opts Options) (*Session, error) {
	start, ok := w.FindRoom(StartRoomID)
	if !ok {
		return nil, fmt.Errorf("world has no starting room (ID %d)", StartRoomID)
	}

	capacity := opts.TranscriptCapacity
	if capacity < 1 {
		capacity = DefaultTranscriptCapacity
	}

	return &Session{
		uid:         uuid.NewString(),
		world:       w,
		registry:    registry,
		presenter:   presenter,
		transcript:  NewTranscript(capacity),
		logger:      logger,
		hooks:       opts.Hooks,
		saves:       opts.Saves,
		currentRoom: start.ID,
	}, nil
}

// UID returns the session identifier used for log and save correlation.
func (s *Session) UID() string {
	return s.uid
}

// CurrentRoomID returns the player's current room ID.
func (s *Session) CurrentRoomID() int {
	return s.currentRoom
}

// Transcript returns the session transcript.
func (s *Session) Transcript() *Transcript {
	return s.transcript
}

// Terminate requests cooperative shutdown. The loop honors it at the next
// iteration boundary; a command in flight always completes.
func (s *Session) Terminate() {
	s.terminate.Store(true)
}

// Terminated reports whether the termination flag is set.
func (s *Session) Terminated() bool {
	return s.terminate.Load()
}

// Run drives the game loop: render, read one line, dispatch, repeat until
// the termination flag is set or the input stream ends. End-of-input is
// treated identically to an explicit quit.
//
// Postcondition: Returns nil on normal termination, or the first render
// or read error other than io.EOF.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session starting",
		zap.String("session", s.uid),
		zap.Int("room", s.currentRoom),
		zap.Int("rooms", s.world.RoomCount()),
	)

	s.transcript.Append("Welcome to the Awesome Text Adventure! Type 'help' for commands.")
	s.handleLook()

	for !s.terminate.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.render(); err != nil {
			return fmt.Errorf("rendering: %w", err)
		}

		line, err := s.presenter.ReadLine()
		if errors.Is(err, io.EOF) {
			s.terminate.Store(true)
			break
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		s.Dispatch(ctx, line)
	}

	if err := s.render(); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	s.logger.Info("session ended",
		zap.String("session", s.uid),
		zap.Int("room", s.currentRoom),
	)
	return nil
}

// Dispatch routes one line of player input to its handler. Unrecognized
// input produces transcript feedback; no runtime command error ever
// escapes this layer.
func (s *Session) Dispatch(ctx context.Context, line string) {
	pr := command.Parse(line)
	if pr.Verb == "" {
		return
	}

	cmd, ok := s.registry.Resolve(pr.Verb)
	if !ok {
		s.transcript.Append("I don't understand that command.")
		return
	}

	s.logger.Debug("dispatching command",
		zap.String("session", s.uid),
		zap.String("command", cmd.Name),
		zap.String("arg", pr.Arg),
	)

	switch cmd.Handler {
	case command.HandlerQuit:
		s.handleQuit()
	case command.HandlerLook:
		s.handleLook()
	case command.HandlerMove:
		s.handleGo(pr.Arg)
	case command.HandlerExits:
		s.handleExits()
	case command.HandlerHelp:
		s.handleHelp()
	case command.HandlerSave:
		s.handleSave(ctx, pr.Arg)
	case command.HandlerLoad:
		s.handleLoad(ctx, pr.Arg)
	default:
		s.transcript.Append("I don't understand that command.")
	}
}

// render builds a snapshot and hands it to the presenter.
func (s *Session) render() error {
	room, ok := s.world.FindRoom(s.currentRoom)
	if !ok {
		return fmt.Errorf("current room %d not found", s.currentRoom)
	}
	return s.presenter.Render(Snapshot{
		RoomID:   room.ID,
		Exits:    room.ExitDirections(),
		Messages: s.transcript.Messages(),
		Seq:      s.transcript.Seq(),
	})
}

func (s *Session) handleQuit() {
	s.terminate.Store(true)
}

func (s *Session) handleLook() {
	room, ok := s.world.FindRoom(s.currentRoom)
	if !ok {
		return
	}
	s.transcript.Append(room.Description)
	s.appendExitsLine(room)
}

func (s *Session) handleExits() {
	room, ok := s.world.FindRoom(s.currentRoom)
	if !ok {
		return
	}
	s.appendExitsLine(room)
}

// appendExitsLine emits the exit summary in north,south,east,west order.
func (s *Session) appendExitsLine(room *world.Room) {
	dirs := room.ExitDirections()
	if len(dirs) == 0 {
		s.transcript.Append("There are no obvious exits.")
		return
	}
	words := make([]string, len(dirs))
	for i, d := range dirs {
		words[i] = string(d)
	}
	s.transcript.Append("Exits: " + strings.Join(words, " "))
}

func (s *Session) handleGo(arg string) {
	if arg == "" {
		s.transcript.Append("Go where?")
		return
	}

	dir, ok := world.ParseDirection(arg)
	if !ok {
		s.transcript.Append("That's not a valid direction.")
		return
	}

	next, ok := s.world.Exit(s.currentRoom, dir)
	if !ok {
		s.transcript.Append("You can't go that way.")
		return
	}

	s.currentRoom = next.ID
	// Movement always re-describes the destination.
	s.handleLook()
	s.runEnterHook(next.ID)
}

// runEnterHook fires the room script for a freshly entered room. Script
// failures are logged and swallowed; they never interrupt play.
func (s *Session) runEnterHook(roomID int) {
	if s.hooks == nil {
		return
	}
	msg, err := s.hooks.OnEnter(roomID)
	if err != nil {
		s.logger.Warn("room enter hook failed",
			zap.String("session", s.uid),
			zap.Int("room", roomID),
			zap.Error(err),
		)
		return
	}
	if msg != "" {
		s.transcript.Append(msg)
	}
}

func (s *Session) handleHelp() {
	s.transcript.Append("--- Available Commands ---")
	for _, cmd := range s.registry.Commands() {
		label := cmd.Name
		if len(cmd.Aliases) > 0 {
			label += " (" + strings.Join(cmd.Aliases, ", ") + ")"
		}
		s.transcript.Append(fmt.Sprintf("%s: %s", label, cmd.Help))
	}
}

func (s *Session) handleSave(ctx context.Context, arg string) {
	if s.saves == nil {
		s.transcript.Append("Saving is not available.")
		return
	}
	slot := arg
	if slot == "" {
		slot = "default"
	}
	if err := s.saves.Put(ctx, slot, s.uid, s.currentRoom); err != nil {
		s.logger.Error("saving position failed",
			zap.String("session", s.uid),
			zap.String("slot", slot),
			zap.Error(err),
		)
		s.transcript.Append("Saving failed.")
		return
	}
	s.transcript.Append(fmt.Sprintf("Position saved to slot '%s'.", slot))
}

func (s *Session) handleLoad(ctx context.Context, arg string) {
	if s.saves == nil {
		s.transcript.Append("Loading is not available.")
		return
	}
	slot := arg
	if slot == "" {
		slot = "default"
	}
	roomID, ok, err := s.saves.Get(ctx, slot)
	if err != nil {
		s.logger.Error("loading position failed",
			zap.String("session", s.uid),
			zap.String("slot", slot),
			zap.Error(err),
		)
		s.transcript.Append("Loading failed.")
		return
	}
	if !ok {
		s.transcript.Append(fmt.Sprintf("No save found in slot '%s'.", slot))
		return
	}
	if _, exists := s.world.FindRoom(roomID); !exists {
		s.transcript.Append("The saved position does not exist in this world.")
		return
	}
	s.currentRoom = roomID
	s.handleLook()
}
