package auth

import "context"

// APIKey identifies one admin credential. KeyHash is the hex HMAC-SHA256 of
// the plaintext key; the plaintext itself is never stored.
type APIKey struct {
	ID      string
	KeyHash string
	Name    string
	Scopes  []string
}

// Repository provides lookup of API keys by their HMAC hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIKey, error)
}
