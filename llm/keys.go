// API-key selection strategies.
//
// Providers may be configured with several API keys to spread load and
// rate limits. The chooser is injected at construction so tests can use
// a deterministic one. Uniformity is the only requirement; there is no
// correctness dependence on which key serves which call.

package llm

import (
	"math/rand"
	"sync"
)

// KeyChooser picks an API key for the next outbound call.
type KeyChooser interface {
	Next() string
}

// RoundRobinKeys cycles through keys in order.
type RoundRobinKeys struct {
	mu   sync.Mutex
	keys []string
	next int
}

// NewRoundRobinKeys creates a round-robin chooser over the given keys.
func NewRoundRobinKeys(keys ...string) *RoundRobinKeys {
	return &RoundRobinKeys{keys: keys}
}

// Next returns the next key in rotation. Empty string if no keys configured.
func (r *RoundRobinKeys) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.keys) == 0 {
		return ""
	}
	key := r.keys[r.next]
	r.next = (r.next + 1) % len(r.keys)
	return key
}

// RandomKeys draws a key uniformly at random per call.
type RandomKeys struct {
	mu   sync.Mutex
	keys []string
	rng  *rand.Rand
}

// NewRandomKeys creates a random chooser over the given keys.
// seed allows deterministic draws in tests.
func NewRandomKeys(seed int64, keys ...string) *RandomKeys {
	return &RandomKeys{
		keys: keys,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Next returns a uniformly random key. Empty string if no keys configured.
func (r *RandomKeys) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.keys) == 0 {
		return ""
	}
	return r.keys[r.rng.Intn(len(r.keys))]
}

// StaticKey wraps a single key as a KeyChooser.
func StaticKey(key string) KeyChooser {
	return NewRoundRobinKeys(key)
}
