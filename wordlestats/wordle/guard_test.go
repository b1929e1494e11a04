package wordle

import (
	"sync"
	"testing"
	"time"
)

func TestLockRegistry_SerializesSameGuild(t *testing.T) {
	locks := NewLockRegistry()

	unlock := locks.AcquireFor(100)

	acquired := make(chan struct{})
	go func() {
		u := locks.AcquireFor(100)
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire succeeded while lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire never succeeded after release")
	}
}

func TestLockRegistry_IndependentGuilds(t *testing.T) {
	locks := NewLockRegistry()

	unlockA := locks.AcquireFor(100)
	defer unlockA()

	acquired := make(chan struct{})
	go func() {
		u := locks.AcquireFor(200)
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("different guild blocked on an unrelated lock")
	}
}

func TestLockRegistry_CountsUnderContention(t *testing.T) {
	locks := NewLockRegistry()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.AcquireFor(7)
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
}
