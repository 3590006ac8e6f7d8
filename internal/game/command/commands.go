// Package command provides the static command table, the input parser,
// and the registry that resolves verbs to handlers.
package command

// Categories for organizing commands.
const (
	CategoryMovement = "movement"
	CategoryWorld    = "world"
	CategorySystem   = "system"
)

// Handler identifiers binding table entries to session handler methods.
const (
	HandlerQuit  = "quit"
	HandlerLook  = "look"
	HandlerMove  = "move"
	HandlerExits = "exits"
	HandlerHelp  = "help"
	HandlerSave  = "save"
	HandlerLoad  = "load"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command (movement, world, system).
	Category string
	// Handler identifies the session handler bound to this command.
	Handler string
}

// BuiltinCommands returns the static command table. The table is built
// once and never mutated at runtime; resolution is a linear scan, so
// table order decides which entry wins when names overlap.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "quit", Aliases: []string{"exit"}, Help: "Leave the game", Category: CategorySystem, Handler: HandlerQuit},
		{Name: "look", Aliases: []string{"l"}, Help: "Describe the current room and exits", Category: CategoryWorld, Handler: HandlerLook},
		{Name: "go", Aliases: nil, Help: "Move in a direction (north, south, east, west, or n,s,e,w)", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "exits", Aliases: nil, Help: "List available exits", Category: CategoryWorld, Handler: HandlerExits},
		{Name: "save", Aliases: nil, Help: "Save your position (save [slot])", Category: CategorySystem, Handler: HandlerSave},
		{Name: "load", Aliases: nil, Help: "Restore a saved position (load [slot])", Category: CategorySystem, Handler: HandlerLoad},
		{Name: "help", Aliases: []string{"?"}, Help: "Show this help message", Category: CategorySystem, Handler: HandlerHelp},
	}
}
