package jwk

import (
	"bytes"
	"fmt"

	"github.com/go-jose-kit/josecore/jwa"
	"github.com/go-jose-kit/josecore/jwa/pbes2"
	"github.com/go-jose-kit/josecore/jwe"
	"github.com/go-jose-kit/josecore/keymanage"
)

// ParseProtectedKey parses a password-protected JWK: a JWE (compact,
// flattened, or general JSON serialization per RFC 7516) whose plaintext is
// the JWK JSON and whose "alg" is one of the PBES2 family (RFC 7518 Section
// 4.8). password is used directly as the PBES2 input key material.
func ParseProtectedKey(data, password []byte) (*Key, error) {
	plaintext, err := decryptProtected(data, password)
	if err != nil {
		return nil, err
	}
	return ParseKey(plaintext)
}

// ParseProtectedSet is the JWK Set counterpart of ParseProtectedKey, for a
// password-protected JWE whose plaintext is a JWK Set (cty "jwk-set+json").
func ParseProtectedSet(data, password []byte) (*Set, error) {
	plaintext, err := decryptProtected(data, password)
	if err != nil {
		return nil, err
	}
	return ParseSet(plaintext)
}

func decryptProtected(data, password []byte) ([]byte, error) {
	msg, err := parseProtectedMessage(data)
	if err != nil {
		return nil, fmt.Errorf("jwk: failed to parse protected key: %w", err)
	}

	key, err := NewPrivateKey(append([]byte(nil), password...))
	if err != nil {
		return nil, err
	}

	finder := jwe.FindKeyWrapperFunc(func(protected, unprotected, recipient *jwe.Header) (keymanage.KeyWrapper, error) {
		alg := protectedAlgorithm(unprotected, protected, recipient)
		switch alg {
		case jwa.PBES2_HS256_A128KW:
			return pbes2.NewHS256A128KW().NewKeyWrapper(key), nil
		case jwa.PBES2_HS384_A192KW:
			return pbes2.NewHS384A192KW().NewKeyWrapper(key), nil
		case jwa.PBES2_HS512_A256KW:
			return pbes2.NewHS512A256KW().NewKeyWrapper(key), nil
		default:
			return nil, fmt.Errorf("jwk: unsupported key management algorithm for protected key: %q", alg)
		}
	})

	plaintext, err := msg.Decrypt(finder)
	if err != nil {
		return nil, fmt.Errorf("jwk: failed to decrypt protected key: %w", err)
	}
	return plaintext, nil
}

// protectedAlgorithm resolves "alg" from whichever header level carries it,
// in the same unprotected/protected/recipient priority [*jwe.Message.Decrypt] uses internally.
func protectedAlgorithm(headers ...*jwe.Header) jwa.KeyManagementAlgorithm {
	for _, h := range headers {
		if alg := h.Algorithm(); alg != "" {
			return alg
		}
	}
	return ""
}

func parseProtectedMessage(data []byte) (*jwe.Message, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		return jwe.ParseJSON(data)
	}
	return jwe.Parse(data)
}
