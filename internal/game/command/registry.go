package command

import "fmt"

// Registry holds the ordered command table. Resolution is a linear scan
// with first match winning; the set is small and input arrives at human
// speed, so no index is kept.
type Registry struct {
	commands []Command
}

// NewRegistry creates a Registry from the given table, preserving order.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on name/alias collisions.
func NewRegistry(cmds []Command) (*Registry, error) {
	seen := make(map[string]string, len(cmds))
	for _, cmd := range cmds {
		if owner, exists := seen[cmd.Name]; exists {
			return nil, fmt.Errorf("command name %q already used by %q", cmd.Name, owner)
		}
		seen[cmd.Name] = cmd.Name
		for _, alias := range cmd.Aliases {
			if owner, exists := seen[alias]; exists {
				return nil, fmt.Errorf("alias %q of %q already used by %q", alias, cmd.Name, owner)
			}
			seen[alias] = cmd.Name
		}
	}
	return &Registry{commands: cmds}, nil
}

// DefaultRegistry creates a Registry with the built-in command table.
//
// Postcondition: Returns a Registry with all built-in commands registered.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a command by name or alias.
//
// Postcondition: Returns (command, true) on the first table entry whose
// name or alias matches, or (nil, false).
func (r *Registry) Resolve(verb string) (*Command, bool) {
	for i := range r.commands {
		cmd := &r.commands[i]
		if cmd.Name == verb {
			return cmd, true
		}
		for _, alias := range cmd.Aliases {
			if alias == verb {
				return cmd, true
			}
		}
	}
	return nil, false
}

// Commands returns all registered commands in table order.
func (r *Registry) Commands() []*Command {
	result := make([]*Command, 0, len(r.commands))
	for i := range r.commands {
		result = append(result, &r.commands[i])
	}
	return result
}
