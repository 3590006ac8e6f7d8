package command

import (
	"strings"

	"github.com/cory-johannsen/adventure/internal/game/world"
)

// ParseResult holds the parsed verb and argument from a text line.
type ParseResult struct {
	// Verb is the command word, lowercased. Empty for blank input.
	Verb string
	// Arg is the single argument following the verb, if any. Further
	// tokens are discarded.
	Arg string
}

// Parse splits one line of player input into a verb and an optional
// single argument. Input is matched case-insensitively. A bare direction
// word (n, north, s, south, e, east, w, west) is canonicalized into the
// synthetic form "go <direction>" so one movement handler serves both
// spellings.
//
// Postcondition: Returns a ParseResult; Verb is empty only for blank input.
func Parse(line string) ParseResult {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return ParseResult{}
	}

	verb := fields[0]
	if _, ok := world.ParseDirection(verb); ok {
		// The argument to "go" is the verb itself.
		return ParseResult{Verb: "go", Arg: verb}
	}

	res := ParseResult{Verb: verb}
	if len(fields) > 1 {
		res.Arg = fields[1]
	}
	return res
}
