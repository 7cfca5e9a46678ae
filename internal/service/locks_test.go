package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserLocks_MutualExclusionPerUser(t *testing.T) {
	locks := newUserLocks()

	const n = 50
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("user1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, n, counter)

	// all entries released
	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks)
}

func TestUserLocks_NoCrossUserContention(t *testing.T) {
	locks := newUserLocks()

	unlockA := locks.lock("userA")
	defer unlockA()

	// a different user's lock must not block behind userA's
	done := make(chan struct{})
	go func() {
		unlockB := locks.lock("userB")
		unlockB()
		close(done)
	}()

	<-done
}
