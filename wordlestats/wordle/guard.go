package wordle

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// LockRegistry hands out one mutex per guild so live announcement messages
// for the same guild are processed strictly sequentially. Locks are created
// lazily on first use and retained for the life of the process; different
// guilds proceed fully in parallel.
type LockRegistry struct {
	mu    sync.Mutex
	locks map[snowflake.ID]*sync.Mutex
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[snowflake.ID]*sync.Mutex)}
}

// AcquireFor blocks until the guild's lock is held and returns the release
// function. Hold it for the whole parse-resolve-persist sequence.
func (r *LockRegistry) AcquireFor(guildID snowflake.ID) func() {
	r.mu.Lock()
	lock, ok := r.locks[guildID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[guildID] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
