// Package cache holds compiled patterns and their expanded sources.
//
// Registry is the in-process write-once map behind Compiler.Cached.
// Store persists the result of variable resolution and macro rewriting,
// keyed by a digest of the variable store and the pattern text, so a
// process can skip re-expanding large grammars it has seen before.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// Store persists expanded pattern sources.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores an entry, overwriting any entry with the same key.
	Save(entry Entry) error

	// Load retrieves an entry.
	// Returns ErrNotFound if the key has never been saved.
	Load(key string) (Entry, error)

	// List returns every stored entry ordered by creation time.
	List() ([]Entry, error)

	// Delete removes an entry. Deleting a missing key is not an error.
	Delete(key string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Entry is one expanded pattern.
type Entry struct {
	// Key identifies the (variable store, pattern text) pair.
	Key string
	// Pattern is the pattern text as given to the compiler.
	Pattern string
	// Source is the rewritten body handed to the regex engine.
	Source string
	// Flags holds the trailing flag letters.
	Flags string
	// Created is when the entry was first saved.
	Created time.Time
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no entry exists for a key.
	ErrNotFound = errors.New("expanded pattern not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("pattern store closed")
)

// Key derives the entry key for a pattern compiled against a variable
// store with the given fingerprint.
func Key(fingerprint, pattern string) string {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write([]byte(pattern))
	return hex.EncodeToString(h.Sum(nil))
}
