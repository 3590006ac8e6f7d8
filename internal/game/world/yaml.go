package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlWorldFile is the top-level YAML structure for world files.
type yamlWorldFile struct {
	World yamlWorld `yaml:"world"`
}

// yamlWorld is the YAML representation of a world.
type yamlWorld struct {
	Rooms []yamlRoom `yaml:"rooms"`
}

// yamlRoom is the YAML representation of a room.
type yamlRoom struct {
	ID          int        `yaml:"id"`
	Description string     `yaml:"description"`
	Exits       []yamlExit `yaml:"exits"`
}

// yamlExit is the YAML representation of an exit. Directions are the full
// words (north, south, east, west), unlike the line format's single letters.
type yamlExit struct {
	Direction string `yaml:"direction"`
	Target    int    `yaml:"target"`
}

// LoadYAMLFile reads and parses a YAML world file.
//
// Precondition: path must point to a readable YAML world file.
// Postcondition: Returns a frozen World or a non-nil error.
func LoadYAMLFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}
	w, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing world file %s: %w", path, err)
	}
	return w, nil
}

// ParseYAML parses the structured YAML world format into a frozen World.
// The same two-pass discipline as ParseMap applies: all rooms are created
// before any exit is resolved, so exits may target rooms declared later
// in the document. The same strict failure policy applies too.
//
// Postcondition: Returns a World in which every exit resolves, or a non-nil error.
func ParseYAML(data []byte) (*World, error) {
	var file yamlWorldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing world YAML: %w", err)
	}

	b := NewBuilder()
	for _, yr := range file.World.Rooms {
		if yr.Description == "" {
			return nil, fmt.Errorf("room %d: description must not be empty", yr.ID)
		}
		if err := b.AddRoom(yr.ID, yr.Description); err != nil {
			return nil, err
		}
	}
	for _, yr := range file.World.Rooms {
		for _, ye := range yr.Exits {
			dir, ok := ParseDirection(ye.Direction)
			if !ok {
				return nil, fmt.Errorf("room %d: invalid exit direction %q", yr.ID, ye.Direction)
			}
			if err := b.Connect(yr.ID, dir, ye.Target); err != nil {
				return nil, fmt.Errorf("room %d: %w", yr.ID, err)
			}
		}
	}

	return b.Build()
}
