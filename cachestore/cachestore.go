// Package cachestore remembers verdicts of the judgment service so the
// same message under the same rule is never paid for twice.
//
// Includes an interface and implementations using redis and in-process memory.
package cachestore

import (
	"context"
	"fmt"

	"github.com/spaolacci/murmur3"
)

type Store interface {
	// Get returns false when the key is unknown or expired.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, val string) error
	Purge(ctx context.Context, key string) error
}

// Key derives a compact key for a (rule text, message) pair.
// Current implementation uses murmur3, default seed, and hex encoding.
func Key(ruleText, message string) string {
	h1, h2 := murmur3.Sum128([]byte(ruleText + "\x00" + message))
	return fmt.Sprintf("%016x%016x", h1, h2)
}

// Nop never remembers anything.
type Nop struct{}

var _ Store = Nop{}

func (Nop) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (Nop) Set(context.Context, string, string) error { return nil }
func (Nop) Purge(context.Context, string) error { return nil }
