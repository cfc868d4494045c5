package jwk

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/go-jose-kit/josecore/internal/jsonutils"
	"github.com/go-jose-kit/josecore/jwa"
	"github.com/go-jose-kit/josecore/x25519"
)

func validateEd25519PrivateKey(key ed25519.PrivateKey) error {
	if len(key) != ed25519.PrivateKeySize {
		return errors.New("jwk: invalid size of ed25519 private key")
	}
	return nil
}

func validateEd25519PublicKey(key ed25519.PublicKey) error {
	if len(key) != ed25519.PublicKeySize {
		return errors.New("jwk: invalid size of ed25519 public key")
	}
	return nil
}

func validateX25519PrivateKey(key x25519.PrivateKey) error {
	if len(key) != x25519.PrivateKeySize {
		return errors.New("jwk: invalid size of x25519 private key")
	}
	return nil
}

func validateX25519PublicKey(key x25519.PublicKey) error {
	if len(key) != x25519.PublicKeySize {
		return errors.New("jwk: invalid size of x25519 public key")
	}
	return nil
}

// parseOKPKey parses the "OKP" (Octet Key Pair, RFC 8037) key type. It
// dispatches on "crv" between the two curves this module supports:
// Ed25519 (signing) and X25519 (ECDH-ES key agreement).
func parseOKPKey(d *jsonutils.Decoder, key *Key) {
	crv := jwa.EllipticCurve(d.MustString("crv"))
	x := d.MustBytes("x")
	if d.Err() != nil {
		return
	}

	switch crv {
	case jwa.Ed25519:
		if len(x) != ed25519.PublicKeySize {
			d.SaveError(errors.New("jwk: invalid size of the parameter x for Ed25519"))
			return
		}
		pub := ed25519.PublicKey(append([]byte(nil), x...))
		if dBytes, ok := d.GetBytes("d"); ok {
			if len(dBytes) != ed25519.SeedSize {
				d.SaveError(errors.New("jwk: invalid size of the parameter d for Ed25519"))
				return
			}
			priv := ed25519.NewKeyFromSeed(dBytes)
			if !pub.Equal(priv.Public()) {
				d.SaveError(errors.New("jwk: d does not correspond to x"))
				return
			}
			key.priv = priv
			key.pub = priv.Public()
			return
		}
		key.pub = pub
	case jwa.X25519:
		if len(x) != x25519.PublicKeySize {
			d.SaveError(errors.New("jwk: invalid size of the parameter x for X25519"))
			return
		}
		pub := x25519.PublicKey(append([]byte(nil), x...))
		if dBytes, ok := d.GetBytes("d"); ok {
			if len(dBytes) != x25519.SeedSize {
				d.SaveError(errors.New("jwk: invalid size of the parameter d for X25519"))
				return
			}
			priv := x25519.NewKeyFromSeed(dBytes)
			key.priv = priv
			key.pub = priv.Public()
			return
		}
		key.pub = pub
	default:
		d.SaveError(fmt.Errorf("jwk: unknown crv for OKP: %q", crv))
	}
}

func encodeEd25519Key(e *jsonutils.Encoder, priv ed25519.PrivateKey, pub ed25519.PublicKey) {
	e.Set("kty", jwa.OKP.String())
	e.Set("crv", string(jwa.Ed25519))
	e.SetBytes("x", pub)
	if priv != nil {
		e.SetBytes("d", priv.Seed())
	}
}

func encodeX25519Key(e *jsonutils.Encoder, priv x25519.PrivateKey, pub x25519.PublicKey) {
	e.Set("kty", jwa.OKP.String())
	e.Set("crv", string(jwa.X25519))
	e.SetBytes("x", pub)
	if priv != nil {
		e.SetBytes("d", priv.Seed())
	}
}
