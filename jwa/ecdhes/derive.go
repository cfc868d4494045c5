package ecdhes

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/go-jose-kit/josecore/internal/bigmath"
	"github.com/go-jose-kit/josecore/x25519"
)

// deriveZ computes the shared secret Z for ECDH-ES. Before any derivation
// it checks that an ecdsa public key actually lies on its declared curve:
// a point crafted for a different (weaker) curve but labeled with a
// stronger curve's name is the classic invalid-curve attack, and
// crypto/elliptic.Curve.ScalarMult does not itself reject it.
func deriveZ(priv, pub any) ([]byte, error) {
	switch priv := priv.(type) {
	case x25519.PrivateKey:
		pubkey, ok := pub.(x25519.PublicKey)
		if !ok {
			return nil, fmt.Errorf("ecdhes: want x25519.PublicKey but got %T", pub)
		}
		privECDH, err := priv.ECDH()
		if err != nil {
			return nil, err
		}
		pubECDH, err := pubkey.ECDH()
		if err != nil {
			return nil, err
		}
		return privECDH.ECDH(pubECDH)
	case *ecdsa.PrivateKey:
		pubkey, ok := pub.(*ecdsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("ecdhes: want *ecdsa.PublicKey but got %T", pub)
		}
		crv := priv.Curve
		if pubkey.Curve != crv {
			return nil, errors.New("ecdhes: public key must be on the same curve as private key")
		}
		params := crv.Params()
		a := new(big.Int).Sub(params.P, big.NewInt(3))
		wc := bigmath.WeierstrassCurve{P: params.P, A: a, B: params.B}
		if !wc.IsOnCurve(pubkey.X, pubkey.Y) {
			return nil, errors.New("ecdhes: public key is not on the curve")
		}
		x, _ := crv.ScalarMult(pubkey.X, pubkey.Y, priv.D.Bytes())
		size := (params.BitSize + 7) / 8
		buf := make([]byte, size)
		return x.FillBytes(buf), nil
	default:
		return nil, fmt.Errorf("ecdhes: unknown private key type: %T", priv)
	}
}
