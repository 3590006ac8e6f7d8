package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want ParseResult
	}{
		{"blank", "", ParseResult{}},
		{"whitespace only", "   \t ", ParseResult{}},
		{"bare verb", "look", ParseResult{Verb: "look"}},
		{"verb with arg", "go north", ParseResult{Verb: "go", Arg: "north"}},
		{"uppercase folded", "GO NORTH", ParseResult{Verb: "go", Arg: "north"}},
		{"mixed case folded", "Look", ParseResult{Verb: "look"}},
		{"extra tokens discarded", "go north quickly please", ParseResult{Verb: "go", Arg: "north"}},
		{"leading whitespace", "   look", ParseResult{Verb: "look"}},
		{"unknown verb kept", "dance", ParseResult{Verb: "dance"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.in))
		})
	}
}

func TestParseBareDirectionCanonicalized(t *testing.T) {
	for _, dir := range []string{"n", "north", "s", "south", "e", "east", "w", "west"} {
		assert.Equal(t, ParseResult{Verb: "go", Arg: dir}, Parse(dir), "input %q", dir)
		// Case folding happens before canonicalization.
		assert.Equal(t, ParseResult{Verb: "go", Arg: dir}, Parse(cases(dir)), "input %q", cases(dir))
	}
	// Trailing tokens after a leading direction word are discarded too.
	assert.Equal(t, ParseResult{Verb: "go", Arg: "north"}, Parse("north now"))
}

// cases uppercases the first letter to exercise case folding.
func cases(s string) string {
	return string(s[0]-'a'+'A') + s[1:]
}
