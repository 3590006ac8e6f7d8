// Package world provides the game world model: rooms, exits, directions,
// and the map loaders that build them.
package world

import (
	"fmt"
	"sort"
)

// Direction represents a compass direction.
type Direction string

// The four compass directions. The world grammar is a closed set; there
// are no diagonal or vertical exits.
const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Directions contains all directions in enumeration order. Exit listings
// are always reported in this order.
var Directions = []Direction{North, South, East, West}

// ParseDirection resolves a direction word or single-letter abbreviation.
//
// Postcondition: Returns (direction, true) for n/north/s/south/e/east/w/west,
// or ("", false) for anything else.
func ParseDirection(token string) (Direction, bool) {
	switch token {
	case "n", "north":
		return North, true
	case "s", "south":
		return South, true
	case "e", "east":
		return East, true
	case "w", "west":
		return West, true
	default:
		return "", false
	}
}

// Opposite returns the opposite compass direction.
//
// Precondition: d must be one of the four directions for a meaningful result.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return ""
	}
}

// Room represents a location in the game world. Rooms are owned by the
// World; exits reference other rooms by ID rather than by pointer, so the
// cyclic room graph needs no ownership links between rooms.
type Room struct {
	// ID uniquely identifies this room within the world. IDs are assigned
	// by the map file and need not be contiguous or ordered.
	ID int
	// Description is the free text shown to the player.
	Description string

	exits map[Direction]int
}

// ExitTo returns the target room ID for the given direction, if an exit exists.
//
// Postcondition: Returns (targetID, true) if an exit exists, or (0, false) otherwise.
func (r *Room) ExitTo(dir Direction) (int, bool) {
	id, ok := r.exits[dir]
	return id, ok
}

// ExitDirections returns the directions with exits, in enumeration order
// (north, south, east, west).
//
// Postcondition: Returns directions in a stable order; may be empty.
func (r *Room) ExitDirections() []Direction {
	dirs := make([]Direction, 0, len(r.exits))
	for _, d := range Directions {
		if _, ok := r.exits[d]; ok {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// World is the complete owned collection of rooms. It is frozen: once
// built, no mutation operations are exposed.
type World struct {
	rooms map[int]*Room
}

// FindRoom returns the room with the given ID.
//
// Postcondition: Returns (room, true) if found, or (nil, false) otherwise.
func (w *World) FindRoom(id int) (*Room, bool) {
	r, ok := w.rooms[id]
	return r, ok
}

// Exit resolves the exit from a room in a direction.
// It is a pure accessor with no side effects.
//
// Postcondition: Returns the destination room, or (nil, false) if the room
// does not exist or has no exit in that direction.
func (w *World) Exit(roomID int, dir Direction) (*Room, bool) {
	from, ok := w.rooms[roomID]
	if !ok {
		return nil, false
	}
	targetID, ok := from.ExitTo(dir)
	if !ok {
		return nil, false
	}
	target, ok := w.rooms[targetID]
	return target, ok
}

// RoomCount returns the total number of rooms.
func (w *World) RoomCount() int {
	return len(w.rooms)
}

// RoomIDs returns all room IDs in ascending order.
//
// Postcondition: Returns a sorted slice; may be empty.
func (w *World) RoomIDs() []int {
	ids := make([]int, 0, len(w.rooms))
	for id := range w.rooms {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Builder accumulates rooms and links during load. It is the only way to
// mutate a world: callers add every room, then connect them, then call
// Build to obtain the frozen World. A built Builder rejects further use.
type Builder struct {
	rooms map[int]*Room
	built bool
}

// NewBuilder creates an empty world Builder.
func NewBuilder() *Builder {
	return &Builder{rooms: make(map[int]*Room)}
}

// AddRoom creates a room with the given ID and description.
//
// Precondition: Build must not have been called.
// Postcondition: The room exists with no exits, or an error is returned on
// a duplicate ID.
func (b *Builder) AddRoom(id int, description string) error {
	if b.built {
		return fmt.Errorf("world already built")
	}
	if _, exists := b.rooms[id]; exists {
		return fmt.Errorf("duplicate room ID %d", id)
	}
	b.rooms[id] = &Room{
		ID:          id,
		Description: description,
		exits:       make(map[Direction]int),
	}
	return nil
}

// Connect records a directed edge from one room to another. Edges are
// unidirectional; a symmetric passage requires an explicit reverse link.
// Connecting the same direction twice overwrites the earlier edge.
//
// Precondition: Both endpoint rooms must already exist; Build must not have
// been called.
// Postcondition: from's exit table maps dir to to's ID, or an error is
// returned and nothing changes.
func (b *Builder) Connect(fromID int, dir Direction, toID int) error {
	if b.built {
		return fmt.Errorf("world already built")
	}
	from, ok := b.rooms[fromID]
	if !ok {
		return fmt.Errorf("link references unknown room ID %d", fromID)
	}
	if _, ok := b.rooms[toID]; !ok {
		return fmt.Errorf("link references unknown room ID %d", toID)
	}
	switch dir {
	case North, South, East, West:
	default:
		return fmt.Errorf("invalid direction %q", string(dir))
	}
	from.exits[dir] = toID
	return nil
}

// Build validates the accumulated graph and returns the frozen World.
// The Builder is unusable afterwards.
//
// Precondition: The builder must contain at least one room.
// Postcondition: Returns a World in which every exit resolves to an owned
// room, or a non-nil error.
func (b *Builder) Build() (*World, error) {
	if b.built {
		return nil, fmt.Errorf("world already built")
	}
	if len(b.rooms) == 0 {
		return nil, fmt.Errorf("world must contain at least one room")
	}
	for id, room := range b.rooms {
		for dir, target := range room.exits {
			if _, ok := b.rooms[target]; !ok {
				return nil, fmt.Errorf("room %d: exit %s targets unknown room %d", id, dir, target)
			}
		}
	}
	b.built = true
	return &World{rooms: b.rooms}, nil
}
