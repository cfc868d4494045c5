package jwk

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"
	"math/big"

	"github.com/shogo82148/go-cbor"
	"github.com/go-jose-kit/josecore/internal/cborutils"
	"github.com/go-jose-kit/josecore/jwa"
	"github.com/go-jose-kit/josecore/x25519"
)

// COSE_Key common parameters.
// https://www.iana.org/assignments/cose/cose.xhtml#key-common-parameters
const (
	coseLabelKeyType = 1
	coseLabelKeyID   = 2
)

// COSE_Key key types.
// https://www.iana.org/assignments/cose/cose.xhtml#key-type
const (
	coseKeyTypeOKP       = 1
	coseKeyTypeEC2       = 2
	coseKeyTypeRSA       = 3
	coseKeyTypeSymmetric = 4
)

// COSE elliptic curves.
// https://www.iana.org/assignments/cose/cose.xhtml#elliptic-curves
const (
	coseCurveP256      = 1
	coseCurveP384      = 2
	coseCurveP521      = 3
	coseCurveX25519    = 4
	coseCurveEd25519   = 6
	coseCurveSecp256k1 = 8
)

// ParseCOSEKey parses a COSE_Key (RFC 9052) as a JWK. It is the CBOR
// counterpart of [ParseKey]: the same Key model, decoded from a CBOR map
// instead of JSON.
func ParseCOSEKey(data []byte) (*Key, error) {
	var raw map[any]any
	dec := cbor.NewDecoder(bytes.NewReader(data))
	dec.UseAnyKey()
	dec.UseInteger()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return ParseCOSEKeyMap(raw)
}

// ParseCOSEKeyMap parses a COSE_Key that has already been CBOR-decoded into
// a map, as ParseMap does for a JSON-decoded JWK.
func ParseCOSEKeyMap(raw map[any]any) (*Key, error) {
	d := cborutils.NewDecoder("jwk", raw)
	key := &Key{}

	kty, err := coseKeyType(d, raw)
	if err != nil {
		return nil, err
	}
	if kid, ok := d.GetBytes(coseLabelKeyID); ok {
		key.kid = string(kid)
	}

	switch kty {
	case coseKeyTypeEC2:
		parseCOSEEcdsaKey(d, key)
	case coseKeyTypeOKP:
		parseCOSEOKPKey(d, key)
	case coseKeyTypeRSA:
		parseCOSERSAKey(d, key)
	case coseKeyTypeSymmetric:
		parseCOSESymmetricKey(d, key)
	default:
		return nil, fmt.Errorf("jwk: unknown COSE key type: %d", kty)
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return key, nil
}

// coseKeyType reads the COSE "kty" label, which may be encoded as either an
// integer or (for private key types) a text string identifier.
func coseKeyType(d *cborutils.Decoder, raw map[any]any) (int64, error) {
	if i, ok := d.GetInteger(coseLabelKeyType); ok {
		return i.Int64()
	}
	if s, ok := d.GetString(coseLabelKeyType); ok {
		switch s {
		case "OKP":
			return coseKeyTypeOKP, nil
		case "EC2":
			return coseKeyTypeEC2, nil
		case "RSA":
			return coseKeyTypeRSA, nil
		case "Symmetric":
			return coseKeyTypeSymmetric, nil
		default:
			return 0, fmt.Errorf("jwk: unknown COSE key type: %q", s)
		}
	}
	return 0, fmt.Errorf("jwk: missing COSE key type")
}

func coseCurveFromLabel(label int64) (jwa.EllipticCurve, bool) {
	switch label {
	case coseCurveP256:
		return jwa.P256, true
	case coseCurveP384:
		return jwa.P384, true
	case coseCurveP521:
		return jwa.P521, true
	case coseCurveSecp256k1:
		return jwa.Secp256k1, true
	default:
		return "", false
	}
}

// COSE_Key labels for EC2, RFC 9053 Section 7.1.1.
const (
	coseEC2LabelCurve = -1
	coseEC2LabelX     = -2
	coseEC2LabelY     = -3
	coseEC2LabelD     = -4
)

func parseCOSEEcdsaKey(d *cborutils.Decoder, key *Key) {
	var crvLabel int64
	if i, ok := d.GetInteger(coseEC2LabelCurve); ok {
		v, err := i.Int64()
		if err != nil {
			d.SaveError(err)
			return
		}
		crvLabel = v
	} else {
		d.SaveError(fmt.Errorf("jwk: missing COSE curve"))
		return
	}
	crv, ok := coseCurveFromLabel(crvLabel)
	if !ok {
		d.SaveError(fmt.Errorf("jwk: unsupported COSE curve: %d", crvLabel))
		return
	}
	curve, ok := curveFromCrv(crv)
	if !ok {
		d.SaveError(fmt.Errorf("jwk: unsupported COSE curve: %d", crvLabel))
		return
	}

	x := d.MustBigInt(coseEC2LabelX)
	y := d.MustBigInt(coseEC2LabelY)
	if d.Err() != nil {
		return
	}
	pub := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}
	if err := validateEcdsaPublicKey(pub); err != nil {
		d.SaveError(err)
		return
	}
	key.kty = jwa.EC
	key.pub = pub

	if dd, ok := d.GetBigInt(coseEC2LabelD); ok {
		priv := &ecdsa.PrivateKey{PublicKey: *pub, D: dd}
		if err := validateEcdsaPrivateKey(priv); err != nil {
			d.SaveError(err)
			return
		}
		wantX, wantY := curve.ScalarBaseMult(dd.Bytes())
		if wantX.Cmp(x) != 0 || wantY.Cmp(y) != 0 {
			d.SaveError(fmt.Errorf("jwk: d does not correspond to (x, y)"))
			return
		}
		key.priv = priv
	}
}

// COSE_Key labels for OKP, RFC 9053 Section 7.2.
const (
	coseOKPLabelCurve = -1
	coseOKPLabelX     = -2
	coseOKPLabelD     = -4
)

func parseCOSEOKPKey(d *cborutils.Decoder, key *Key) {
	i, ok := d.GetInteger(coseOKPLabelCurve)
	if !ok {
		d.SaveError(fmt.Errorf("jwk: missing COSE curve"))
		return
	}
	crvLabel, err := i.Int64()
	if err != nil {
		d.SaveError(err)
		return
	}

	x := d.MustBytes(coseOKPLabelX)
	if d.Err() != nil {
		return
	}

	key.kty = jwa.OKP
	switch crvLabel {
	case coseCurveEd25519:
		pub := ed25519.PublicKey(append([]byte(nil), x...))
		if err := validateEd25519PublicKey(pub); err != nil {
			d.SaveError(err)
			return
		}
		key.pub = pub
		if dBytes, ok := d.GetBytes(coseOKPLabelD); ok {
			priv := ed25519.NewKeyFromSeed(dBytes)
			if err := validateEd25519PrivateKey(priv); err != nil {
				d.SaveError(err)
				return
			}
			if !pub.Equal(priv.Public()) {
				d.SaveError(fmt.Errorf("jwk: d does not correspond to x"))
				return
			}
			key.priv = priv
			key.pub = priv.Public()
		}
	case coseCurveX25519:
		pub := x25519.PublicKey(append([]byte(nil), x...))
		if err := validateX25519PublicKey(pub); err != nil {
			d.SaveError(err)
			return
		}
		key.pub = pub
		if dBytes, ok := d.GetBytes(coseOKPLabelD); ok {
			priv := x25519.NewKeyFromSeed(dBytes)
			if err := validateX25519PrivateKey(priv); err != nil {
				d.SaveError(err)
				return
			}
			key.priv = priv
			key.pub = priv.Public()
		}
	default:
		d.SaveError(fmt.Errorf("jwk: unsupported COSE OKP curve: %d", crvLabel))
	}
}

// COSE_Key labels for RSA, RFC 8812 Section 2.
const (
	coseRSALabelN  = -1
	coseRSALabelE  = -2
	coseRSALabelD  = -3
	coseRSALabelP  = -4
	coseRSALabelQ  = -5
	coseRSALabelDP = -6
	coseRSALabelDQ = -7
	coseRSALabelQI = -8
)

func parseCOSERSAKey(d *cborutils.Decoder, key *Key) {
	n := d.MustBigInt(coseRSALabelN)
	e := d.MustBigInt(coseRSALabelE)
	if d.Err() != nil {
		return
	}
	pub := rsa.PublicKey{N: n, E: int(e.Int64())}
	key.kty = jwa.RSA
	key.pub = &pub

	if !d.Has(coseRSALabelD) {
		return
	}
	priv := rsa.PrivateKey{
		PublicKey: pub,
		D:         d.MustBigInt(coseRSALabelD),
		Primes: []*big.Int{
			d.MustBigInt(coseRSALabelP),
			d.MustBigInt(coseRSALabelQ),
		},
	}
	if d.Has(coseRSALabelDP) && d.Has(coseRSALabelDQ) && d.Has(coseRSALabelQI) {
		priv.Precomputed = rsa.PrecomputedValues{
			Dp:   d.MustBigInt(coseRSALabelDP),
			Dq:   d.MustBigInt(coseRSALabelDQ),
			Qinv: d.MustBigInt(coseRSALabelQI),
		}
	}
	if d.Err() != nil {
		return
	}
	if err := priv.Validate(); err != nil {
		d.SaveError(err)
		return
	}
	priv.Precompute()
	key.priv = &priv
}

// COSE_Key label for Symmetric, RFC 9053 Section 7.3.
const coseSymmetricLabelK = -1

func parseCOSESymmetricKey(d *cborutils.Decoder, key *Key) {
	k := d.MustBytes(coseSymmetricLabelK)
	if d.Err() != nil {
		return
	}
	key.kty = jwa.Oct
	key.priv = append([]byte(nil), k...)
}
