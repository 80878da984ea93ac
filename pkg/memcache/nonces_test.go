package memcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNonces_BoundToActionAndActor(t *testing.T) {
	n := NewNonces(time.Minute)
	token := n.Create("helpful_feedback_nonce", "actor-1")

	assert.NotEmpty(t, token)
	assert.True(t, n.Verify("helpful_feedback_nonce", "actor-1", token))
	assert.True(t, n.Verify("helpful_feedback_nonce", "actor-1", token), "reusable within its lifetime")
	assert.False(t, n.Verify("helpful_feedback_nonce", "actor-2", token))
	assert.False(t, n.Verify("helpful_vote_nonce", "actor-1", token))
	assert.False(t, n.Verify("helpful_feedback_nonce", "actor-1", ""))
	assert.NotEqual(t, token, n.Create("helpful_feedback_nonce", "actor-1"))
}

func TestNonces_Expire(t *testing.T) {
	n := NewNonces(20 * time.Millisecond)
	token := n.Create("a", "b")
	time.Sleep(40 * time.Millisecond)
	assert.False(t, n.Verify("a", "b", token))
}
