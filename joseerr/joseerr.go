// Package joseerr defines the error kinds returned by the token
// pipeline (jws, jwe, jwt) so that callers can branch on failure mode
// without parsing error strings. Each kind wraps the narrower error
// that triggered it; use [errors.As] to recover a specific kind and
// [errors.Unwrap] (or %w) to reach the cause.
package joseerr

import (
	"fmt"
	"time"
)

// TokenParseError reports malformed input: the wrong number of
// segments, invalid JSON, invalid base64, a claim with the wrong JSON
// type, or a failed decompression.
type TokenParseError struct {
	Err error
}

func (e *TokenParseError) Error() string {
	return fmt.Sprintf("jose: failed to parse token: %v", e.Err)
}

func (e *TokenParseError) Unwrap() error { return e.Err }

// UnsupportedError reports a crit value outside the understood set, a
// zip value other than "DEF", or an algorithm the registry or host
// does not support.
type UnsupportedError struct {
	Err error
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("jose: unsupported: %v", e.Err)
}

func (e *UnsupportedError) Unwrap() error { return e.Err }

// SignatureVerificationError reports an alg mismatch, an invalid
// signature, or a signing key that could not be resolved.
type SignatureVerificationError struct {
	Err error
}

func (e *SignatureVerificationError) Error() string {
	return fmt.Sprintf("jose: signature verification failed: %v", e.Err)
}

func (e *SignatureVerificationError) Unwrap() error { return e.Err }

// DecryptionError reports an alg mismatch, a key agreement failure, a
// wrap/unwrap failure, or an AEAD tag failure. It deliberately carries
// no detail about which of those occurred: leaking that distinction
// lets an attacker use decryption failures as a padding oracle.
type DecryptionError struct{}

func (e *DecryptionError) Error() string {
	return "jose: decryption failed"
}

// TooEarlyError reports that a token's "nbf" claim is still in the
// future by more than the configured time allowance.
type TooEarlyError struct {
	NotBefore time.Time
}

func (e *TooEarlyError) Error() string {
	return fmt.Sprintf("jose: token is not valid yet: nbf=%s", e.NotBefore.Format(time.RFC3339))
}

// TooLateError reports that a token's "exp" claim is in the past by
// more than the configured time allowance.
type TooLateError struct {
	ExpirationTime time.Time
}

func (e *TooLateError) Error() string {
	return fmt.Sprintf("jose: token is expired: exp=%s", e.ExpirationTime.Format(time.RFC3339))
}

// InvalidKeyError reports a malformed JWK or PEM, an on-curve check
// failure, or a key component length mismatch.
type InvalidKeyError struct {
	Err error
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("jose: invalid key: %v", e.Err)
}

func (e *InvalidKeyError) Unwrap() error { return e.Err }

// SystemLibraryError wraps an error surfaced by the underlying crypto
// library.
type SystemLibraryError struct {
	Err error
}

func (e *SystemLibraryError) Error() string {
	return fmt.Sprintf("jose: system library error: %v", e.Err)
}

func (e *SystemLibraryError) Unwrap() error { return e.Err }
