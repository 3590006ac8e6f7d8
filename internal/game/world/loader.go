package world

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// roomLineRE matches a room declaration: room <id> "<description>".
// Descriptions may not contain an embedded double quote.
var roomLineRE = regexp.MustCompile(`^room\s+(-?\d+)\s+"([^"]+)"\s*$`)

// LoadFile loads a world from a map file, dispatching on the file
// extension: .yaml/.yml use the structured format, anything else the
// line-oriented map format.
//
// Postcondition: Returns a frozen World or a non-nil error.
func LoadFile(path string) (*World, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAMLFile(path)
	default:
		return LoadMapFile(path)
	}
}

// LoadMapFile reads and parses a line-format map file.
//
// Precondition: path must point to a readable map file.
// Postcondition: Returns a frozen World or a non-nil error.
func LoadMapFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}
	w, err := ParseMap(data)
	if err != nil {
		return nil, fmt.Errorf("parsing world file %s: %w", path, err)
	}
	return w, nil
}

// ParseMap parses the line-oriented map format into a frozen World.
//
// The format is one declaration per line:
//
//	room <integer id> "<description text, no embedded quote>"
//	link <from id> <direction code: n|s|e|w> <to id>
//
// Declarations may appear in any order; a link may reference a room
// declared later in the text. Loading is therefore two-pass: the first
// pass materializes every room, the second resolves every link. Blank
// lines and lines that start with neither keyword are ignored. Any
// malformed room or link line, and any link referencing an unknown room
// ID, aborts the whole load.
//
// Postcondition: Returns a World in which every exit resolves, or a
// non-nil error describing the first offending line.
func ParseMap(data []byte) (*World, error) {
	lines := strings.Split(string(data), "\n")
	b := NewBuilder()

	// Pass 1: rooms only, so links can reference forward declarations.
	for i, line := range lines {
		if !strings.HasPrefix(line, "room") {
			continue
		}
		id, desc, err := parseRoomLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if err := b.AddRoom(id, desc); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	// Pass 2: links, resolved against the now-complete room set.
	for i, line := range lines {
		if !strings.HasPrefix(line, "link") {
			continue
		}
		from, dir, to, err := parseLinkLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if err := b.Connect(from, dir, to); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	return b.Build()
}

// parseRoomLine extracts the ID and description from a room declaration.
func parseRoomLine(line string) (int, string, error) {
	m := roomLineRE.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return 0, "", fmt.Errorf("malformed room declaration %q", strings.TrimSpace(line))
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", fmt.Errorf("malformed room ID in %q: %w", strings.TrimSpace(line), err)
	}
	return id, m[2], nil
}

// parseLinkLine extracts the endpoints and direction from a link declaration.
// Direction codes are the lowercase single letters n, s, e, w.
func parseLinkLine(line string) (int, Direction, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return 0, "", 0, fmt.Errorf("malformed link declaration %q", strings.TrimSpace(line))
	}
	from, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, "", 0, fmt.Errorf("malformed link source ID %q: %w", fields[1], err)
	}
	var dir Direction
	switch fields[2] {
	case "n":
		dir = North
	case "s":
		dir = South
	case "e":
		dir = East
	case "w":
		dir = West
	default:
		return 0, "", 0, fmt.Errorf("invalid link direction code %q", fields[2])
	}
	to, err := strconv.Atoi(fields[3])
	if err != nil {
		return 0, "", 0, fmt.Errorf("malformed link target ID %q: %w", fields[3], err)
	}
	return from, dir, to, nil
}
