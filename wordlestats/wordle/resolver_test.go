package wordle

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

type fakeDirectory struct {
	members   []Member
	fetchable map[snowflake.ID]Member
}

func (d *fakeDirectory) Member(id snowflake.ID) (Member, bool) {
	return memberByID(d.members, id)
}

func (d *fakeDirectory) FetchMember(_ context.Context, id snowflake.ID) (Member, error) {
	if m, ok := d.fetchable[id]; ok {
		return m, nil
	}
	return Member{}, errors.New("unknown member")
}

func (d *fakeDirectory) Members() []Member {
	return d.members
}

var (
	alice = Member{ID: 111, Username: "alice", DisplayName: "Alice"}
	bob   = Member{ID: 222, Username: "bobsmith", DisplayName: "Bob Smith"}
	jo    = Member{ID: 333, Username: "jo", DisplayName: "Jo"}
	joS   = Member{ID: 444, Username: "josmith", DisplayName: "Jo Smith"}
)

func TestResolveRefs_TaggedMentionFromMentionList(t *testing.T) {
	dir := &fakeDirectory{}
	got := ResolveRefs(context.Background(), "<@111>", []Member{alice}, dir)
	if want := []Member{alice}; !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveRefs() = %v, want %v", got, want)
	}
}

func TestResolveRefs_TaggedMentionFromDirectory(t *testing.T) {
	dir := &fakeDirectory{members: []Member{alice}}
	got := ResolveRefs(context.Background(), "<@!111>", nil, dir)
	if want := []Member{alice}; !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveRefs() = %v, want %v", got, want)
	}
}

func TestResolveRefs_TaggedMentionFetched(t *testing.T) {
	dir := &fakeDirectory{fetchable: map[snowflake.ID]Member{111: alice}}
	got := ResolveRefs(context.Background(), "<@111>", nil, dir)
	if want := []Member{alice}; !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveRefs() = %v, want %v", got, want)
	}
}

func TestResolveRefs_PlaceholderWhenFetchFails(t *testing.T) {
	dir := &fakeDirectory{}
	got := ResolveRefs(context.Background(), "<@999>", nil, dir)
	want := []Member{{ID: 999, Username: "User_999", DisplayName: "User_999"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveRefs() = %v, want placeholder %v", got, want)
	}
}

func TestResolveRefs_PlainTextSingleWord(t *testing.T) {
	dir := &fakeDirectory{members: []Member{alice, bob}}
	got := ResolveRefs(context.Background(), "@Alice", nil, dir)
	if want := []Member{alice}; !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveRefs() = %v, want %v", got, want)
	}
}

func TestResolveRefs_PlainTextMultiWord(t *testing.T) {
	dir := &fakeDirectory{members: []Member{alice, bob}}
	got := ResolveRefs(context.Background(), "@Bob Smith nailed it", nil, dir)
	if want := []Member{bob}; !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveRefs() = %v, want %v", got, want)
	}
}

// When one member's name is a prefix of another's, the shorter candidate is
// tried first and wins. "@Jo Smith" therefore resolves to Jo, not Jo Smith.
func TestResolveRefs_ShortestPrefixWins(t *testing.T) {
	dir := &fakeDirectory{members: []Member{jo, joS}}
	got := ResolveRefs(context.Background(), "@Jo Smith", nil, dir)
	if want := []Member{jo}; !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveRefs() = %v, want %v", got, want)
	}
}

func TestResolveRefs_CaseInsensitiveFallback(t *testing.T) {
	dir := &fakeDirectory{members: []Member{alice}}
	got := ResolveRefs(context.Background(), "@ALICE", nil, dir)
	if want := []Member{alice}; !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveRefs() = %v, want %v", got, want)
	}
}

func TestResolveRefs_ExactUsernameBeatsCaseInsensitive(t *testing.T) {
	lower := Member{ID: 555, Username: "carol", DisplayName: "carol"}
	upper := Member{ID: 556, Username: "Carol", DisplayName: "The Real Carol"}
	dir := &fakeDirectory{members: []Member{lower, upper}}

	got := ResolveRefs(context.Background(), "@Carol", nil, dir)
	if want := []Member{upper}; !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveRefs() = %v, want exact username match %v", got, want)
	}
}

func TestResolveRefs_NumericCandidateSkipped(t *testing.T) {
	numeric := Member{ID: 666, Username: "12345", DisplayName: "12345"}
	dir := &fakeDirectory{members: []Member{numeric}}
	if got := ResolveRefs(context.Background(), "@12345", nil, dir); got != nil {
		t.Errorf("ResolveRefs() = %v, want nil for numeric candidate", got)
	}
}

func TestResolveRefs_NoDuplicateForTaggedThenNamed(t *testing.T) {
	dir := &fakeDirectory{members: []Member{alice}}
	got := ResolveRefs(context.Background(), "<@111> @Alice", nil, dir)
	if want := []Member{alice}; !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveRefs() = %v, want single %v", got, want)
	}
}

func TestResolveRefs_UnmatchedNameDropped(t *testing.T) {
	dir := &fakeDirectory{members: []Member{alice}}
	if got := ResolveRefs(context.Background(), "@Zelda", nil, dir); got != nil {
		t.Errorf("ResolveRefs() = %v, want nil for unknown name", got)
	}
}

func TestResolveRefs_MultipleRefsInOrder(t *testing.T) {
	dir := &fakeDirectory{members: []Member{alice, bob}}
	got := ResolveRefs(context.Background(), "<@111> and @Bob Smith", []Member{alice}, dir)
	if want := []Member{alice, bob}; !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveRefs() = %v, want %v", got, want)
	}
}

func TestPlaceholderMember(t *testing.T) {
	got := PlaceholderMember(42)
	want := Member{ID: 42, Username: "User_42", DisplayName: "User_42"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PlaceholderMember(42) = %v, want %v", got, want)
	}
}
