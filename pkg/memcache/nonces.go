// pkg/memcache/nonces.go
package memcache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"helpful/pkg/utils"
)

type NonceStore interface {
	// Create issues a token bound to action and actor.
	Create(action, actor string) string

	// Verify reports whether token was issued for action and actor and has
	// not expired. Tokens stay valid until they expire.
	Verify(action, actor, token string) bool
}

type Nonces struct {
	cache *gocache.Cache
	ttl   time.Duration
}

func NewNonces(ttl time.Duration) *Nonces {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Nonces{
		cache: gocache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

func nonceKey(action, actor, token string) string {
	return action + "|" + actor + "|" + token
}

func (n *Nonces) Create(action, actor string) string {
	token, err := utils.GenerateSecureToken(16)
	if err != nil {
		return ""
	}
	n.cache.Set(nonceKey(action, actor, token), struct{}{}, n.ttl)
	return token
}

func (n *Nonces) Verify(action, actor, token string) bool {
	if token == "" {
		return false
	}
	_, ok := n.cache.Get(nonceKey(action, actor, token))
	return ok
}
