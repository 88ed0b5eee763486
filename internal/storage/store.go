// Package storage persists the selection and hidden sets of a gallery page
// in a durable per-gallery key/value store.
package storage

import (
	"errors"
	"strings"
	"unicode"
)

var (
	// ErrQuotaExceeded is returned when a write would exceed the store quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrUnavailable is returned by a store that cannot be used at all.
	ErrUnavailable = errors.New("storage unavailable")
)

// Store is a string-keyed byte store with localStorage semantics: Get of a
// missing key is not an error.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
	Close() error
}

const checkKey = "__storage_test__"

// CheckAvailable checks once that the store accepts a write and a delete.
func CheckAvailable(s Store) error {
	if err := s.Set(checkKey, []byte(checkKey)); err != nil {
		return err
	}
	return s.Remove(checkKey)
}

// Keys are the two storage keys of one gallery page.
type Keys struct {
	Selections string
	Hidden     string
}

// KeysFor derives the storage keys from a page path. Every character other
// than an ASCII letter or digit becomes '_', which keeps the key safe for
// any backend. The mapping is lossy: paths that differ only in punctuation,
// such as "/g/a-b.html" and "/g/a_b.html", share a key.
func KeysFor(pagePath string) Keys {
	sanitized := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '_'
	}, pagePath)
	return Keys{Selections: sanitized, Hidden: sanitized + "_hidden"}
}

// DisabledStore fails every operation. It stands in for storage that is
// switched off, like a browser in privacy mode.
type DisabledStore struct{}

func (DisabledStore) Get(string) ([]byte, bool, error) { return nil, false, ErrUnavailable }
func (DisabledStore) Set(string, []byte) error         { return ErrUnavailable }
func (DisabledStore) Remove(string) error              { return ErrUnavailable }
func (DisabledStore) Close() error                     { return nil }
