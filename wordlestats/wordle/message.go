package wordle

import (
	"regexp"

	"github.com/disgoorg/snowflake/v2"
)

// MaxGuesses is the number of attempts a Wordle game allows. Failed games
// are recorded as having used all of them.
const MaxGuesses = 6

// Classification is the announcement shape a message matched.
type Classification int

const (
	Unrecognized Classification = iota
	Results
	NoWinner
)

func (c Classification) String() string {
	switch c {
	case Results:
		return "results"
	case NoWinner:
		return "no_winner"
	default:
		return "unrecognized"
	}
}

var (
	streakPattern   = regexp.MustCompile(`Your group is on (a|an) (\d+) day streak`)
	noWinnerPattern = regexp.MustCompile(`(?i)Nobody got yesterday's Wordle`)
)

// ClassifyMessage decides whether content matches one of the two known
// announcement shapes. It looks at text only; filtering by message author
// happens before this is called.
func ClassifyMessage(content string) Classification {
	if content == "" {
		return Unrecognized
	}
	if streakPattern.MatchString(content) {
		return Results
	}
	if noWinnerPattern.MatchString(content) {
		return NoWinner
	}
	return Unrecognized
}

// Outcome is a single player's result extracted from one announcement.
// Outcomes are transient; they are aggregated or applied as increments,
// never persisted directly.
type Outcome struct {
	PlayerID snowflake.ID
	Username string
	Won      bool
	Guesses  int
}
