// Package auth implements request authentication for the Tradeport REST API:
// base64 codec helpers, signature payload construction, and an Ed25519 signer
// holding the private key behind an opaque handle.
package auth

import (
	"crypto/ed25519"
	"fmt"

	"github.com/tradeport/tradeport-go/pkg/apierrors"
)

// KeyHandle holds an imported Ed25519 private key. The key is not exportable:
// the handle supports signing and deriving the public key, nothing else, and
// formatting a handle never prints key bytes.
type KeyHandle struct {
	priv ed25519.PrivateKey
}

// ImportPrivateKey decodes a base64 seed and expands it into a signing key.
// The seed must decode to exactly ed25519.SeedSize (32) bytes; errors name
// the expected and actual lengths only.
func ImportPrivateKey(base64Seed string) (*KeyHandle, error) {
	seed, err := DecodeBase64(base64Seed)
	if err != nil {
		return nil, err
	}

	if len(seed) != ed25519.SeedSize {
		return nil, &apierrors.SignatureError{
			Message: fmt.Sprintf("private key seed must decode to %d bytes, got %d", ed25519.SeedSize, len(seed)),
		}
	}

	return &KeyHandle{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// Sign signs the UTF-8 bytes of message and returns the base64 signature.
// Ed25519 is deterministic, so the same key and message always produce the
// same signature.
func (h *KeyHandle) Sign(message string) (string, error) {
	if h == nil || len(h.priv) != ed25519.PrivateKeySize {
		return "", &apierrors.SignatureError{Message: "signing key is not initialized"}
	}

	sig := ed25519.Sign(h.priv, []byte(message))
	return EncodeBase64(sig), nil
}

// PublicKey returns the base64 verifying key for this handle. Needed for key
// registration with the upstream; derives nothing about the seed.
func (h *KeyHandle) PublicKey() string {
	if h == nil || len(h.priv) != ed25519.PrivateKeySize {
		return ""
	}
	return EncodeBase64(h.priv.Public().(ed25519.PublicKey))
}

// String keeps the handle out of logs. %v, %s and %+v all print this.
func (h *KeyHandle) String() string {
	return "auth.KeyHandle(ed25519)"
}

// GoString keeps %#v from dumping the struct fields.
func (h *KeyHandle) GoString() string {
	return h.String()
}
