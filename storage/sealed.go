package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrUnsealFailed is returned when a record cannot be authenticated with the configured secret
var ErrUnsealFailed = errors.New("failed to unseal record")

// SealedStorage encrypts records with NaCl secretbox before handing them to the inner backend
type SealedStorage struct {
	inner Storage
	key   [32]byte
}

// NewSealedStorage derives a record key from secret and wraps inner
func NewSealedStorage(inner Storage, secret string) (*SealedStorage, error) {
	if secret == "" {
		return nil, errors.New("sealed storage requires a secret")
	}

	s := &SealedStorage{inner: inner}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("selecionei session record v1"))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		return nil, fmt.Errorf("failed to derive record key: %w", err)
	}
	return s, nil
}

// Put seals data and stores nonce||box
func (s *SealedStorage) Put(ctx context.Context, key string, data []byte) error {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], data, &nonce, &s.key)
	return s.inner.Put(ctx, key, sealed)
}

// Get loads and opens a sealed record
func (s *SealedStorage) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, ErrUnsealFailed
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	data, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, ErrUnsealFailed
	}
	return data, nil
}

// Delete removes the record from the inner backend
func (s *SealedStorage) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// Close closes the inner backend
func (s *SealedStorage) Close() error {
	return s.inner.Close()
}
