package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultStateTTL bounds how long a user may sit on the provider consent
// screen before the callback is rejected.
const DefaultStateTTL = 10 * time.Minute

// StateStore issues single-use anti-CSRF state values for the redirect flow.
// It is process-local; behind a load balancer the callback must reach the
// instance that issued the state.
type StateStore struct {
	c *gocache.Cache
}

func NewStateStore(ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &StateStore{c: gocache.New(ttl, time.Minute)}
}

func (s *StateStore) Issue() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	state := base64.RawURLEncoding.EncodeToString(b)
	s.c.SetDefault(state, struct{}{})
	return state, nil
}

// Consume reports whether state was issued by this store and has not expired
// or been consumed before.
func (s *StateStore) Consume(state string) bool {
	if state == "" {
		return false
	}
	if _, ok := s.c.Get(state); !ok {
		return false
	}
	s.c.Delete(state)
	return true
}
