package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/wordlestats/wordle-stats-bot/wordlestats/wordle"
)

func TestToMember_PrefersGuildNickname(t *testing.T) {
	nick := "Wordle Champ"
	m := discord.Member{
		User: discord.User{ID: 111, Username: "alice"},
		Nick: &nick,
	}

	got := toMember(m)
	want := wordle.Member{ID: 111, Username: "alice", DisplayName: "Wordle Champ"}
	if got != want {
		t.Errorf("toMember() = %v, want %v", got, want)
	}
}

func TestToMember_FallsBackToUsername(t *testing.T) {
	m := discord.Member{User: discord.User{ID: 111, Username: "alice"}}

	got := toMember(m)
	if got.DisplayName != "alice" {
		t.Errorf("DisplayName = %q, want username fallback", got.DisplayName)
	}
}

func TestMentionedMembers(t *testing.T) {
	global := "Bob"
	users := []discord.User{
		{ID: 111, Username: "alice"},
		{ID: 222, Username: "bobsmith", GlobalName: &global},
	}

	got := MentionedMembers(users)
	want := []wordle.Member{
		{ID: 111, Username: "alice", DisplayName: "alice"},
		{ID: 222, Username: "bobsmith", DisplayName: "Bob"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MentionedMembers() = %v, want %v", got, want)
	}
}

func testDirectoryCache(loadFn func(ctx context.Context, guildID snowflake.ID) (*GuildDirectory, error)) *DirectoryCache {
	return &DirectoryCache{
		loadFn: loadFn,
		dirs:   make(map[snowflake.ID]*directoryEntry),
	}
}

func TestDirectoryCache_SlowLoadDoesNotBlockOtherGuilds(t *testing.T) {
	release := make(chan struct{})
	cache := testDirectoryCache(func(_ context.Context, guildID snowflake.ID) (*GuildDirectory, error) {
		if guildID == 1 {
			<-release
		}
		return &GuildDirectory{guildID: guildID}, nil
	})

	slowDone := make(chan struct{})
	go func() {
		cache.Get(context.Background(), 1)
		close(slowDone)
	}()

	fastDone := make(chan struct{})
	go func() {
		if _, err := cache.Get(context.Background(), 2); err != nil {
			t.Error(err)
		}
		close(fastDone)
	}()

	select {
	case <-fastDone:
	case <-time.After(time.Second):
		t.Fatal("second guild's load blocked behind the first guild's")
	}

	close(release)
	<-slowDone
}

func TestDirectoryCache_LoadsOncePerGuild(t *testing.T) {
	loads := 0
	cache := testDirectoryCache(func(_ context.Context, guildID snowflake.ID) (*GuildDirectory, error) {
		loads++
		return &GuildDirectory{guildID: guildID}, nil
	})

	first, err := cache.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	second, err := cache.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if loads != 1 {
		t.Errorf("loaded %d times, want 1", loads)
	}
	if first != second {
		t.Error("repeat Get returned a different directory")
	}
}

func TestDirectoryCache_FailedLoadRetries(t *testing.T) {
	calls := 0
	cache := testDirectoryCache(func(_ context.Context, guildID snowflake.ID) (*GuildDirectory, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("gateway hiccup")
		}
		return &GuildDirectory{guildID: guildID}, nil
	})

	if _, err := cache.Get(context.Background(), 1); err == nil {
		t.Fatal("first Get() succeeded, want load error")
	}
	dir, err := cache.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("retry Get() error = %v", err)
	}
	if dir == nil || calls != 2 {
		t.Errorf("retry did not reload: dir=%v calls=%d", dir, calls)
	}
}

func TestIsAnnouncementAuthor(t *testing.T) {
	if !IsAnnouncementAuthor(discord.User{ID: AnnouncementBotID, Username: "someone"}) {
		t.Error("announcement bot id not recognized")
	}
	if !IsAnnouncementAuthor(discord.User{ID: 123, Username: "Wordle"}) {
		t.Error("announcement bot name not recognized")
	}
	if IsAnnouncementAuthor(discord.User{ID: 123, Username: "someone"}) {
		t.Error("arbitrary author recognized as announcement bot")
	}
}
