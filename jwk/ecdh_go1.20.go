//go:build go1.20

package jwk

import (
	"crypto"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"fmt"
	"math/big"

	"github.com/go-jose-kit/josecore/x25519"
)

// newPrivateKeyECDH bridges [crypto/ecdh] convenience keys into the Key
// model used by [NewPrivateKey]. It reports handled=false for any type it
// doesn't recognize, so the caller can fall through to its own error.
func newPrivateKeyECDH(key crypto.PrivateKey) (k *Key, handled bool, err error) {
	priv, ok := key.(*ecdh.PrivateKey)
	if !ok {
		return nil, false, nil
	}

	switch priv.Curve() {
	case ecdh.P256():
		ecdsaPriv, err := ecdhPrivateKeyToEcdsa(elliptic.P256(), priv)
		if err != nil {
			return nil, true, err
		}
		k, err := NewPrivateKey(ecdsaPriv)
		return k, true, err
	case ecdh.P384():
		ecdsaPriv, err := ecdhPrivateKeyToEcdsa(elliptic.P384(), priv)
		if err != nil {
			return nil, true, err
		}
		k, err := NewPrivateKey(ecdsaPriv)
		return k, true, err
	case ecdh.P521():
		ecdsaPriv, err := ecdhPrivateKeyToEcdsa(elliptic.P521(), priv)
		if err != nil {
			return nil, true, err
		}
		k, err := NewPrivateKey(ecdsaPriv)
		return k, true, err
	case ecdh.X25519():
		k, err := NewPrivateKey(x25519.PrivateKey(priv.Bytes()))
		return k, true, err
	default:
		return nil, true, fmt.Errorf("jwk: unsupported ECDH curve: %v", priv.Curve())
	}
}

// newPublicKeyECDH is the [NewPublicKey] counterpart of newPrivateKeyECDH.
func newPublicKeyECDH(key crypto.PublicKey) (k *Key, handled bool, err error) {
	pub, ok := key.(*ecdh.PublicKey)
	if !ok {
		return nil, false, nil
	}

	switch pub.Curve() {
	case ecdh.P256():
		ecdsaPub, err := ecdhPublicKeyToEcdsa(elliptic.P256(), pub)
		if err != nil {
			return nil, true, err
		}
		k, err := NewPublicKey(ecdsaPub)
		return k, true, err
	case ecdh.P384():
		ecdsaPub, err := ecdhPublicKeyToEcdsa(elliptic.P384(), pub)
		if err != nil {
			return nil, true, err
		}
		k, err := NewPublicKey(ecdsaPub)
		return k, true, err
	case ecdh.P521():
		ecdsaPub, err := ecdhPublicKeyToEcdsa(elliptic.P521(), pub)
		if err != nil {
			return nil, true, err
		}
		k, err := NewPublicKey(ecdsaPub)
		return k, true, err
	case ecdh.X25519():
		k, err := NewPublicKey(x25519.PublicKey(pub.Bytes()))
		return k, true, err
	default:
		return nil, true, fmt.Errorf("jwk: unsupported ECDH curve: %v", pub.Curve())
	}
}

func ecdhPrivateKeyToEcdsa(curve elliptic.Curve, priv *ecdh.PrivateKey) (*ecdsa.PrivateKey, error) {
	x, y := elliptic.Unmarshal(curve, priv.PublicKey().Bytes())
	if x == nil {
		return nil, fmt.Errorf("jwk: failed to unmarshal ECDH public key")
	}
	return &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
		D:         new(big.Int).SetBytes(priv.Bytes()),
	}, nil
}

func ecdhPublicKeyToEcdsa(curve elliptic.Curve, pub *ecdh.PublicKey) (*ecdsa.PublicKey, error) {
	x, y := elliptic.Unmarshal(curve, pub.Bytes())
	if x == nil {
		return nil, fmt.Errorf("jwk: failed to unmarshal ECDH public key")
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}
