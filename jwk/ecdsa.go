package jwk

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"

	"github.com/go-jose-kit/josecore/internal/bigmath"
	"github.com/go-jose-kit/josecore/internal/jsonutils"
	"github.com/go-jose-kit/josecore/jwa"
	"github.com/go-jose-kit/josecore/secp256k1"
)

// weierstrassParams returns the curve's y^2 = x^3 + a*x + b (mod p)
// parameters. All curves this package supports are short Weierstrass curves:
// P-256, P-384 and P-521 have a = p - 3, and secp256k1 has a = 0.
func weierstrassParams(curve elliptic.Curve) bigmath.WeierstrassCurve {
	params := curve.Params()
	a := new(big.Int).Sub(params.P, big.NewInt(3))
	if curve == secp256k1.Curve() {
		a = new(big.Int)
	}
	return bigmath.WeierstrassCurve{
		P: params.P,
		A: a,
		B: params.B,
	}
}

// isOnCurve rejects points crafted for the invalid-curve attack: a point
// that satisfies some OTHER curve's equation but is passed off as a point
// on curve. crypto/elliptic's own IsOnCurve is deprecated and does not cover
// secp256k1, so validation always goes through bigmath here.
func isOnCurve(curve elliptic.Curve, x, y *big.Int) bool {
	if x == nil || y == nil {
		return false
	}
	return weierstrassParams(curve).IsOnCurve(x, y)
}

func crvFromCurve(curve elliptic.Curve) (jwa.EllipticCurve, bool) {
	switch curve {
	case elliptic.P256():
		return jwa.P256, true
	case elliptic.P384():
		return jwa.P384, true
	case elliptic.P521():
		return jwa.P521, true
	case secp256k1.Curve():
		return jwa.Secp256k1, true
	default:
		return "", false
	}
}

func curveFromCrv(crv jwa.EllipticCurve) (elliptic.Curve, bool) {
	switch crv {
	case jwa.P256:
		return elliptic.P256(), true
	case jwa.P384:
		return elliptic.P384(), true
	case jwa.P521:
		return elliptic.P521(), true
	case jwa.Secp256k1:
		return secp256k1.Curve(), true
	default:
		return nil, false
	}
}

func validateEcdsaPrivateKey(key *ecdsa.PrivateKey) error {
	if key.Curve == nil {
		return errors.New("jwk: ecdsa private key has no curve")
	}
	if !isOnCurve(key.Curve, key.X, key.Y) {
		return errors.New("jwk: ecdsa private key is not on the curve")
	}
	return nil
}

func validateEcdsaPublicKey(key *ecdsa.PublicKey) error {
	if key.Curve == nil {
		return errors.New("jwk: ecdsa public key has no curve")
	}
	if !isOnCurve(key.Curve, key.X, key.Y) {
		return errors.New("jwk: ecdsa public key is not on the curve")
	}
	return nil
}

func parseEcdsaKey(d *jsonutils.Decoder, key *Key) {
	crv := jwa.EllipticCurve(d.MustString("crv"))
	curve, ok := curveFromCrv(crv)
	if !ok {
		d.SaveError(fmt.Errorf("jwk: unknown crv: %q", crv))
		return
	}
	byteLen := (curve.Params().BitSize + 7) / 8

	xBytes := d.MustBytes("x")
	yBytes := d.MustBytes("y")
	if d.Err() != nil {
		return
	}
	x := new(big.Int).SetBytes(xBytes)
	y := new(big.Int).SetBytes(yBytes)
	if len(xBytes) > byteLen || len(yBytes) > byteLen {
		d.SaveError(errors.New("jwk: invalid x or y length for the curve"))
		return
	}
	if !isOnCurve(curve, x, y) {
		d.SaveError(errors.New("jwk: the point (x, y) is not on the curve"))
		return
	}
	pub := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}

	if dBytes, ok := d.GetBytes("d"); ok {
		if len(dBytes) > byteLen {
			d.SaveError(errors.New("jwk: invalid d length for the curve"))
			return
		}
		priv := &ecdsa.PrivateKey{
			PublicKey: *pub,
			D:         new(big.Int).SetBytes(dBytes),
		}
		wantX, wantY := curve.ScalarBaseMult(dBytes)
		if wantX.Cmp(x) != 0 || wantY.Cmp(y) != 0 {
			d.SaveError(errors.New("jwk: d does not correspond to (x, y)"))
			return
		}
		key.priv = priv
		key.pub = pub
		return
	}
	key.pub = pub
}

func encodeEcdsaKey(e *jsonutils.Encoder, priv *ecdsa.PrivateKey, pub *ecdsa.PublicKey) {
	crv, ok := crvFromCurve(pub.Curve)
	if !ok {
		e.SaveError(fmt.Errorf("jwk: unsupported curve: %v", pub.Curve))
		return
	}
	byteLen := (pub.Curve.Params().BitSize + 7) / 8

	e.Set("kty", jwa.EC.String())
	e.Set("crv", string(crv))
	e.SetBytes("x", fixedBytes(pub.X, byteLen))
	e.SetBytes("y", fixedBytes(pub.Y, byteLen))
	if priv != nil {
		e.SetBytes("d", fixedBytes(priv.D, byteLen))
	}
}

// fixedBytes renders v as a big-endian byte slice of exactly size bytes,
// left-padding with zeros as needed. EC coordinates and private scalars are
// fixed-width fields in JWK; big.Int.Bytes alone drops leading zero bytes.
func fixedBytes(v *big.Int, size int) []byte {
	buf := make([]byte, size)
	v.FillBytes(buf)
	return buf
}
