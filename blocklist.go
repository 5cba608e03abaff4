package jwx

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Blocklist is an in-memory register of revoked tokens, consulted
// during validation so a token can be cut off before its natural
// expiry, e.g. on logout. Entries are keyed by the "jti" claim when
// the token carries one and by the full serialization otherwise, so
// tokens signed with WithGeneratedID revoke cheaply.
//
// A Blocklist is a TokenValidator; attach it with WithValidation or
// pass it to Verify.
type Blocklist struct {
	entries map[string]int64 // key = jti or raw token | value = expiry unix seconds (to remove expired).
	mu      sync.RWMutex
}

var _ TokenValidator = (*Blocklist)(nil)

// NewBlocklist returns a new up and running in-memory token Blocklist.
// It accepts the clear every "x" duration. Indeed, this duration can
// match the usual tokens expiration one. A non-positive duration
// disables the background sweeper; call GC by hand then.
func NewBlocklist(gcEvery time.Duration) *Blocklist {
	return NewBlocklistContext(context.Background(), gcEvery)
}

// NewBlocklistContext same as NewBlocklist
// but it also accepts a standard Go Context for GC cancelation.
func NewBlocklistContext(ctx context.Context, gcEvery time.Duration) *Blocklist {
	b := &Blocklist{
		entries: make(map[string]int64),
	}

	if gcEvery > 0 {
		go b.runGC(ctx, gcEvery)
	}

	return b
}

// revocationKey picks the identity a token is blocked under.
func revocationKey(token []byte, c Claims) string {
	if c.ID != "" {
		return c.ID
	}
	return BytesToString(token)
}

// ValidateToken completes the TokenValidator interface.
// Returns ErrBlocked if the token was revoked by this Blocklist.
// A token that already expired is dropped from the list on sight,
// keeping it small without waiting for the sweeper.
func (b *Blocklist) ValidateToken(token []byte, c Claims, err error) error {
	if err != nil {
		if errors.Is(err, ErrExpired) {
			b.Del(revocationKey(token, c))
		}

		return err // respect the previous error.
	}

	if b.Has(revocationKey(token, c)) {
		return ErrBlocked
	}

	return nil
}

// Revoke blocks a verified token. Until the token's "exp" claim
// passes, any validation that consults this blocklist fails with
// ErrBlocked, even though the signature still verifies. Tokens without
// an expiry stay blocked until deleted by hand.
func (b *Blocklist) Revoke(token string, c Claims) {
	key := c.ID
	if key == "" {
		key = token
	}

	b.mu.Lock()
	b.entries[key] = c.Expiry
	b.mu.Unlock()
}

// Del removes a blocklist entry, by "jti" claim or raw token,
// whichever the entry was stored under.
func (b *Blocklist) Del(key string) {
	b.mu.Lock()
	delete(b.entries, key)
	b.mu.Unlock()
}

// Count returns the total amount of blocked tokens.
func (b *Blocklist) Count() int {
	b.mu.RLock()
	n := len(b.entries)
	b.mu.RUnlock()

	return n
}

// Has reports whether an entry is blocked by the server.
func (b *Blocklist) Has(key string) bool {
	if key == "" {
		return false
	}

	b.mu.RLock()
	_, ok := b.entries[key]
	b.mu.RUnlock()

	return ok
}

// GC iterates over all entries and removes expired tokens.
// It returns the number of entries removed. Entries without an expiry
// are kept.
func (b *Blocklist) GC() int {
	now := Clock().Round(time.Second).Unix()
	var markedForDeletion []string

	b.mu.RLock()
	for key, expiry := range b.entries {
		if expiry > 0 && now > expiry {
			markedForDeletion = append(markedForDeletion, key)
		}
	}
	b.mu.RUnlock()

	n := len(markedForDeletion)
	if n > 0 {
		for _, key := range markedForDeletion {
			b.mu.Lock()
			delete(b.entries, key)
			b.mu.Unlock()
		}
	}

	return n
}

func (b *Blocklist) runGC(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)

	for {
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
			b.GC()
		}
	}
}
