// Package verify checks Discord interaction request signatures.
//
// Discord signs every interaction with Ed25519 over timestamp||body and sends
// the hex signature and timestamp in the X-Signature-Ed25519 and
// X-Signature-Timestamp headers.
package verify

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

const (
	HeaderSignature = "X-Signature-Ed25519"
	HeaderTimestamp = "X-Signature-Timestamp"

	// maxBody bounds how much of an unauthenticated body is read.
	maxBody = 1 << 20
)

// ErrAuthentication is returned when a request is not signed by the application's key.
var ErrAuthentication = errors.New("invalid request signature")

// Verify reports whether signature (hex) is a valid Ed25519 signature of timestamp||body under key.
func Verify(body []byte, signature, timestamp string, key ed25519.PublicKey) bool {
	if len(key) != ed25519.PublicKeySize || timestamp == "" {
		return false
	}
	sig, err := hex.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	msg := make([]byte, 0, len(timestamp)+len(body))
	msg = append(msg, timestamp...)
	msg = append(msg, body...)
	return ed25519.Verify(key, msg, sig)
}

// Verifier holds the decoded application public key.
type Verifier struct {
	key ed25519.PublicKey
}

// NewVerifier decodes the hex public key shown in the Discord developer portal.
func NewVerifier(hexKey string) (*Verifier, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return &Verifier{key: ed25519.PublicKey(raw)}, nil
}

// Verify checks body against the signature headers.
func (v *Verifier) Verify(body []byte, signature, timestamp string) bool {
	return Verify(body, signature, timestamp, v.key)
}

// Request reads and verifies the request body. On success the body is
// returned and r.Body is replaced so later readers see the same bytes.
func (v *Verifier) Request(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if !v.Verify(body, r.Header.Get(HeaderSignature), r.Header.Get(HeaderTimestamp)) {
		return nil, ErrAuthentication
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

// Middleware rejects unsigned requests with 401 before any handler sees the body.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := v.Request(r); err != nil {
			log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("Rejected interaction request")
			http.Error(w, ErrAuthentication.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
