// Package crypto turns note plaintext into stored note blobs and back.
//
// Encryption is AES-256-GCM with a fresh nonce per call; the stored body
// is base64url(nonce || ciphertext). With encryption disabled the
// provider passes text through untouched, and previously encrypted rows
// stay readable only once a key is configured again.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"outlay/internal/core"
)

// KeySize is the raw key length required for AES-256.
const KeySize = 32

// Config selects between the pass-through and encrypting providers.
type Config struct {
	// Enabled turns on encryption for newly written notes.
	Enabled bool
	// Key is the url-safe base64 encoding of a 32-byte key. Required
	// when Enabled is set.
	Key string
}

// Provider encrypts and reveals expense notes. The zero value passes
// plaintext through.
type Provider struct {
	gcm cipher.AEAD
}

// New builds a Provider. Enabling encryption with a missing or
// malformed key is a configuration error; callers treat it as fatal at
// startup rather than silently writing plaintext.
func New(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{}, nil
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("%w: note encryption enabled but no key set", core.ErrConfiguration)
	}
	key, err := base64.URLEncoding.DecodeString(cfg.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: key is not url-safe base64: %v", core.ErrConfiguration, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must decode to %d bytes, got %d", core.ErrConfiguration, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrConfiguration, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrConfiguration, err)
	}
	return &Provider{gcm: gcm}, nil
}

// GenerateKey returns a fresh random key in the encoding OUTLAY_KEY
// expects.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return base64.URLEncoding.EncodeToString(key), nil
}

// Enabled reports whether new notes will be stored encrypted.
func (p *Provider) Enabled() bool {
	return p.gcm != nil
}

// Encrypt converts plaintext into the note to store. Empty notes stay
// plain regardless of mode, so absent text never produces a blob.
func (p *Provider) Encrypt(plain string) (core.Note, error) {
	if p.gcm == nil || plain == "" {
		return core.Note{Body: plain}, nil
	}
	nonce := make([]byte, p.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return core.Note{}, fmt.Errorf("nonce: %w", err)
	}
	sealed := p.gcm.Seal(nil, nonce, []byte(plain), nil)
	body := base64.URLEncoding.EncodeToString(append(nonce, sealed...))
	return core.Note{Body: body, Encrypted: true}, nil
}

// Reveal returns the plaintext of a stored note. Plaintext notes come
// back as-is in either mode. A tampered blob, the wrong key, or an
// encrypted note with encryption unconfigured all return ErrDecryption;
// callers render a placeholder per row instead of failing the listing.
func (p *Provider) Reveal(n core.Note) (string, error) {
	if !n.Encrypted {
		return n.Body, nil
	}
	if p.gcm == nil {
		return "", fmt.Errorf("%w: note is encrypted but no key is configured", core.ErrDecryption)
	}
	raw, err := base64.URLEncoding.DecodeString(n.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrDecryption, err)
	}
	ns := p.gcm.NonceSize()
	if len(raw) < ns {
		return "", fmt.Errorf("%w: blob too short", core.ErrDecryption)
	}
	plain, err := p.gcm.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrDecryption, err)
	}
	return string(plain), nil
}
