package services

import (
	"context"
	"fmt"
	"sync"

	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"

	"github.com/wordlestats/wordle-stats-bot/wordlestats/wordle"
)

const (
	memberPageSize     = 1000
	fetchedMemberCache = 512
)

// GuildDirectory implements wordle.MemberDirectory for one guild. The full
// member list is loaded once via REST pagination and kept in insertion order
// so name matching is deterministic; members fetched individually after a
// cache miss go into a bounded LRU instead of the ordered list.
type GuildDirectory struct {
	client  bot.Client
	guildID snowflake.ID

	mu      sync.RWMutex
	members []wordle.Member
	index   map[snowflake.ID]int

	fetched *lru.Cache
}

func NewGuildDirectory(client bot.Client, guildID snowflake.ID) (*GuildDirectory, error) {
	cache, err := lru.New(fetchedMemberCache)
	if err != nil {
		return nil, fmt.Errorf("failed to create member fetch cache: %w", err)
	}
	return &GuildDirectory{
		client:  client,
		guildID: guildID,
		index:   make(map[snowflake.ID]int),
		fetched: cache,
	}, nil
}

// Load pulls the complete member list from the platform. Safe to call again
// to refresh; the list is replaced wholesale.
func (d *GuildDirectory) Load(ctx context.Context) error {
	var members []wordle.Member
	index := make(map[snowflake.ID]int)

	var after snowflake.ID
	for {
		page, err := d.client.Rest().GetMembers(d.guildID, memberPageSize, after)
		if err != nil {
			return fmt.Errorf("failed to fetch members for guild %s: %w", d.guildID, err)
		}
		if len(page) == 0 {
			break
		}
		for _, m := range page {
			index[m.User.ID] = len(members)
			members = append(members, toMember(m))
		}
		after = page[len(page)-1].User.ID
		if len(page) < memberPageSize {
			break
		}
	}

	d.mu.Lock()
	d.members = members
	d.index = index
	d.mu.Unlock()

	slog.Info("Guild member directory loaded",
		slog.String("type", "sys"),
		slog.String("guild_id", d.guildID.String()),
		slog.Int("members", len(members)))
	return nil
}

func (d *GuildDirectory) Member(id snowflake.ID) (wordle.Member, bool) {
	d.mu.RLock()
	if i, ok := d.index[id]; ok {
		m := d.members[i]
		d.mu.RUnlock()
		return m, true
	}
	d.mu.RUnlock()

	if v, ok := d.fetched.Get(id); ok {
		return v.(wordle.Member), true
	}
	return wordle.Member{}, false
}

func (d *GuildDirectory) FetchMember(ctx context.Context, id snowflake.ID) (wordle.Member, error) {
	m, err := d.client.Rest().GetMember(d.guildID, id)
	if err != nil {
		return wordle.Member{}, fmt.Errorf("failed to fetch member %s: %w", id, err)
	}
	member := toMember(*m)
	d.fetched.Add(id, member)
	return member, nil
}

func (d *GuildDirectory) Members() []wordle.Member {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]wordle.Member, len(d.members))
	copy(out, d.members)
	return out
}

func toMember(m discord.Member) wordle.Member {
	return wordle.Member{
		ID:          m.User.ID,
		Username:    m.User.Username,
		DisplayName: m.EffectiveName(),
	}
}

// MentionedMembers converts a message's mention list into directory entries.
// Mention users carry no guild nickname, so the display name falls back to
// the global one.
func MentionedMembers(users []discord.User) []wordle.Member {
	members := make([]wordle.Member, 0, len(users))
	for _, u := range users {
		members = append(members, wordle.Member{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.EffectiveName(),
		})
	}
	return members
}

// DirectoryCache lazily builds and shares one loaded GuildDirectory per
// guild across the tracker and backfill paths.
type DirectoryCache struct {
	loadFn func(ctx context.Context, guildID snowflake.ID) (*GuildDirectory, error)

	mu   sync.Mutex
	dirs map[snowflake.ID]*directoryEntry
}

type directoryEntry struct {
	once sync.Once
	dir  *GuildDirectory
	err  error
}

func NewDirectoryCache(client bot.Client) *DirectoryCache {
	return &DirectoryCache{
		loadFn: func(ctx context.Context, guildID snowflake.ID) (*GuildDirectory, error) {
			dir, err := NewGuildDirectory(client, guildID)
			if err != nil {
				return nil, err
			}
			if err := dir.Load(ctx); err != nil {
				return nil, err
			}
			return dir, nil
		},
		dirs: make(map[snowflake.ID]*directoryEntry),
	}
}

// Get returns the guild's directory, loading the member list on first use.
// The map lock is only held to find the guild's entry; the load itself runs
// under the entry's once, so a slow first load for one guild never stalls
// another guild's lookups while concurrent callers for the same guild share
// a single load. A failed load is forgotten so the next call retries.
func (c *DirectoryCache) Get(ctx context.Context, guildID snowflake.ID) (*GuildDirectory, error) {
	c.mu.Lock()
	entry, ok := c.dirs[guildID]
	if !ok {
		entry = &directoryEntry{}
		c.dirs[guildID] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.dir, entry.err = c.loadFn(ctx, guildID)
	})
	if entry.err != nil {
		c.mu.Lock()
		if c.dirs[guildID] == entry {
			delete(c.dirs, guildID)
		}
		c.mu.Unlock()
		return nil, entry.err
	}
	return entry.dir, nil
}
