package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// OnEnterFunc is the global function a room script may define. It takes
// no arguments and returns a string to show the player, or nil.
const OnEnterFunc = "on_enter"

// Manager owns one sandboxed Lua VM per scripted room. Scripts are loaded
// once at startup and invoked when the player enters the room.
type Manager struct {
	logger    *zap.Logger
	instLimit int
	states    map[int]*lua.LState

	// QueryRoom returns the description for a room ID. Injected by the
	// composition root so scripts can read world state without this
	// package importing game packages.
	QueryRoom func(roomID int) (string, bool)
}

// NewManager creates an empty script Manager.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 = DefaultInstructionLimit).
func NewManager(logger *zap.Logger, instLimit int) *Manager {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	return &Manager{
		logger:    logger,
		instLimit: instLimit,
		states:    make(map[int]*lua.LState),
	}
}

// LoadDir loads every room script in a directory. Scripts are named after
// the room they attach to: <roomID>.lua. Files with any other name are
// ignored so a directory can carry shared fixtures.
//
// Precondition: dir must be a readable directory.
// Postcondition: Every parsed script is registered, or the first load
// error is returned.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading script directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		roomID, err := strconv.Atoi(strings.TrimSuffix(entry.Name(), ".lua"))
		if err != nil {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := m.loadRoomScript(roomID, path); err != nil {
			return fmt.Errorf("loading room script %s: %w", entry.Name(), err)
		}
		m.logger.Debug("room script loaded",
			zap.Int("room", roomID),
			zap.String("path", path),
		)
	}
	return nil
}

// loadRoomScript compiles one script into a fresh sandboxed VM.
func (m *Manager) loadRoomScript(roomID int, path string) error {
	L := NewSandboxedState(m.instLimit)
	m.registerModules(L, roomID)
	if err := L.DoFile(path); err != nil {
		L.Close()
		return err
	}
	m.states[roomID] = L
	return nil
}

// registerModules exposes the game table to a room VM.
func (m *Manager) registerModules(L *lua.LState, roomID int) {
	tbl := L.NewTable()
	L.SetField(tbl, "room_id", lua.LNumber(roomID))
	L.SetField(tbl, "describe", L.NewFunction(func(L *lua.LState) int {
		id := roomID
		if L.GetTop() > 0 {
			id = int(L.CheckNumber(1))
		}
		if m.QueryRoom != nil {
			if desc, ok := m.QueryRoom(id); ok {
				L.Push(lua.LString(desc))
				return 1
			}
		}
		L.Push(lua.LNil)
		return 1
	}))
	L.SetGlobal("game", tbl)
}

// OnEnter invokes the room's on_enter function, if the room has a script
// that defines one. Each invocation gets a fresh instruction budget.
//
// Postcondition: Returns the script's message (empty = nothing to show)
// or a non-nil error on script failure.
func (m *Manager) OnEnter(roomID int) (string, error) {
	L, ok := m.states[roomID]
	if !ok {
		return "", nil
	}
	fn := L.GetGlobal(OnEnterFunc)
	if fn == lua.LNil {
		return "", nil
	}

	resetInstructionLimit(L, m.instLimit)
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		return "", fmt.Errorf("running %s for room %d: %w", OnEnterFunc, roomID, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	if str, ok := ret.(lua.LString); ok {
		return string(str), nil
	}
	return "", nil
}

// ScriptedRooms returns the number of rooms with loaded scripts.
func (m *Manager) ScriptedRooms() int {
	return len(m.states)
}

// Close releases all Lua VMs.
//
// Postcondition: The Manager is no longer usable after calling Close.
func (m *Manager) Close() {
	for _, L := range m.states {
		L.Close()
	}
	m.states = make(map[int]*lua.LState)
}
