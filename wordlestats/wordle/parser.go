package wordle

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

var resultLinePattern = regexp.MustCompile(`^(:crown:\s+|👑\s+)?([1-6X])/6:\s+(.+)`)

// ParseResults extracts one Outcome per referenced player from a results
// announcement. Lines that do not carry a result are preamble or footer and
// are skipped without error.
func ParseResults(ctx context.Context, content string, mentions []Member, dir MemberDirectory) []Outcome {
	if ClassifyMessage(content) != Results {
		return nil
	}

	var outcomes []Outcome
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := resultLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		guesses, won := parseGuessToken(m[2])
		for _, member := range ResolveRefs(ctx, m[3], mentions, dir) {
			outcomes = append(outcomes, Outcome{
				PlayerID: member.ID,
				Username: member.Username,
				Won:      won,
				Guesses:  guesses,
			})
		}
	}
	return outcomes
}

// ParseNoWinner treats every player referenced anywhere in a no-winner
// announcement as having lost with the maximum guess count. The whole
// message body is scanned; there is no per-line structure.
func ParseNoWinner(ctx context.Context, content string, mentions []Member, dir MemberDirectory) []Outcome {
	if ClassifyMessage(content) != NoWinner {
		return nil
	}

	var outcomes []Outcome
	for _, member := range ResolveRefs(ctx, content, mentions, dir) {
		outcomes = append(outcomes, Outcome{
			PlayerID: member.ID,
			Username: member.Username,
			Won:      false,
			Guesses:  MaxGuesses,
		})
	}
	return outcomes
}

func parseGuessToken(token string) (guesses int, won bool) {
	if token == "X" {
		return MaxGuesses, false
	}
	n, _ := strconv.Atoi(token)
	return n, true
}
