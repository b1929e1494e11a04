package wordle

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sahilm/fuzzy"
)

// maxNameWords bounds how many whitespace-delimited words a plain-text
// mention candidate may span.
const maxNameWords = 5

// Member is a directory entry for a guild member.
type Member struct {
	ID          snowflake.ID
	Username    string
	DisplayName string
}

// MemberDirectory resolves player references within one guild.
type MemberDirectory interface {
	// Member looks up an already-cached member by id.
	Member(id snowflake.ID) (Member, bool)
	// FetchMember retrieves a member from the platform when the cache misses.
	FetchMember(ctx context.Context, id snowflake.ID) (Member, error)
	// Members returns all known members, used for plain-text name matching.
	Members() []Member
}

var mentionPattern = regexp.MustCompile(`<@!?(\d+)>`)

// PlaceholderMember builds a synthetic identity for an id that could not be
// resolved against the directory. Placeholders still accumulate stats.
func PlaceholderMember(id snowflake.ID) Member {
	name := "User_" + id.String()
	return Member{ID: id, Username: name, DisplayName: name}
}

// ResolveRefs extracts every player referenced in fragment. Tagged mentions
// (<@id> / <@!id>) resolve via the mention list, then the directory cache,
// then a remote fetch; an id that fails all three still yields a placeholder.
// Remaining text is split at each @ and matched against the directory by
// name; a plain-text mention that matches nothing is dropped, since without
// an id there is nothing to track.
func ResolveRefs(ctx context.Context, fragment string, mentions []Member, dir MemberDirectory) []Member {
	var found []Member

	for _, m := range mentionPattern.FindAllStringSubmatch(fragment, -1) {
		id, err := snowflake.Parse(m[1])
		if err != nil {
			continue
		}
		if member, ok := memberByID(mentions, id); ok {
			found = append(found, member)
			continue
		}
		if member, ok := dir.Member(id); ok {
			found = append(found, member)
			continue
		}
		member, err := dir.FetchMember(ctx, id)
		if err != nil {
			slog.Warn("Member not found, tracking with placeholder name",
				slog.String("type", "sys"),
				slog.String("user_id", id.String()),
				slog.Any("error", err))
			found = append(found, PlaceholderMember(id))
			continue
		}
		found = append(found, member)
	}

	clean := mentionPattern.ReplaceAllString(fragment, "")
	members := dir.Members()

	var atIdx []int
	for i, r := range clean {
		if r == '@' {
			atIdx = append(atIdx, i)
		}
	}

	for i, pos := range atIdx {
		end := len(clean)
		if i+1 < len(atIdx) {
			end = atIdx[i+1]
		}
		window := strings.TrimSpace(clean[pos+1 : end])
		if window == "" {
			continue
		}

		member, name, ok := matchWindow(window, found, members)
		if ok {
			found = append(found, member)
			slog.Info("Resolved plain text mention",
				slog.String("type", "sys"),
				slog.String("mention", name),
				slog.String("user_id", member.ID.String()))
			continue
		}

		words := strings.Fields(window)
		if len(words) > 0 && !isNumeric(words[0]) {
			slog.Warn("Could not resolve plain text mention, cannot track without user id",
				slog.String("type", "sys"),
				slog.String("mention", words[0]),
				slog.String("closest", closestName(words[0], members)))
		}
	}

	return found
}

// matchWindow tries candidates built from the first 1..maxNameWords words of
// window, shortest first, and stops at the first word count that matches.
// A shorter prefix that matches therefore wins over a longer one, even when
// one member's name is a prefix of another's.
func matchWindow(window string, already []Member, members []Member) (Member, string, bool) {
	words := strings.Fields(window)
	maxWords := min(len(words), maxNameWords)

	for n := 1; n <= maxWords; n++ {
		candidate := strings.Join(words[:n], " ")
		if isNumeric(candidate) {
			// A bare number is a malformed tagged reference, not a name.
			continue
		}
		if candidateResolved(candidate, already) {
			continue
		}
		if m, ok := matchCandidate(candidate, members); ok {
			return m, candidate, true
		}
	}
	return Member{}, "", false
}

// matchCandidate runs the matcher strategies in order: exact display name,
// exact username, case-insensitive either. The order is behavior; changing
// it changes which of two similarly named members is preferred.
func matchCandidate(candidate string, members []Member) (Member, bool) {
	for _, m := range members {
		if m.DisplayName == candidate {
			return m, true
		}
	}
	for _, m := range members {
		if m.Username == candidate {
			return m, true
		}
	}
	lower := strings.ToLower(candidate)
	for _, m := range members {
		if strings.ToLower(m.DisplayName) == lower || strings.ToLower(m.Username) == lower {
			return m, true
		}
	}
	return Member{}, false
}

// candidateResolved reports whether candidate names a member that the same
// fragment already resolved, preventing duplicate attribution from
// overlapping windows.
func candidateResolved(candidate string, already []Member) bool {
	for _, m := range already {
		if m.Username == candidate || m.DisplayName == candidate {
			return true
		}
	}
	return false
}

func memberByID(members []Member, id snowflake.ID) (Member, bool) {
	for _, m := range members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type memberNames []Member

func (m memberNames) String(i int) string { return m[i].DisplayName }
func (m memberNames) Len() int            { return len(m) }

// closestName returns the nearest display name to query, for log context
// only. It never influences resolution.
func closestName(query string, members []Member) string {
	matches := fuzzy.FindFrom(query, memberNames(members))
	if len(matches) == 0 {
		return ""
	}
	return members[matches[0].Index].DisplayName
}
