// Package none provides none signature algorithm.
package none

import (
	"github.com/go-jose-kit/josecore/jwa"
	"github.com/go-jose-kit/josecore/sig"
)

var none = &algorithm{}

// New returns a new signature algorithm that does nothing.
//
// Deprecated: Never use none algorithm.
func New() sig.Algorithm {
	return none
}

func init() {
	jwa.RegisterSignatureAlgorithm(jwa.None, New)
}

var _ sig.Algorithm = (*algorithm)(nil)

type algorithm struct{}

var _ sig.SigningKey = (*signingKey)(nil)

type signingKey struct{}

// NewSigningKey implements [github.com/go-jose-kit/josecore/sig.Algorithm].
func (alg *algorithm) NewSigningKey(key sig.Key) sig.SigningKey {
	if key != nil {
		return sig.NewInvalidKey("none", key, nil)
	}
	return &signingKey{}
}

// Sign implements [github.com/go-jose-kit/josecore/sig.SigningKey].
func (key *signingKey) Sign(payload []byte) (signature []byte, err error) {
	return []byte{}, nil
}

// Verify implements [github.com/go-jose-kit/josecore/sig.SigningKey].
func (key *signingKey) Verify(payload, signature []byte) error {
	if len(signature) != 0 {
		return sig.ErrSignatureMismatch
	}
	return nil
}
