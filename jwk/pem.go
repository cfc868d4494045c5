package jwk

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"

	"github.com/go-jose-kit/josecore/internal/derutil"
	"github.com/go-jose-kit/josecore/secp256k1"
)

const (
	oidRSAEncryption = "1.2.840.113549.1.1.1"
	oidECPublicKey   = "1.2.840.10045.2.1"
	oidP256          = "1.2.840.10045.3.1.7"
	oidP384          = "1.3.132.0.34"
	oidP521          = "1.3.132.0.35"
	oidSecp256k1     = "1.3.132.0.10"
	oidEd25519       = "1.3.101.112"
)

func curveByOID(oid string) elliptic.Curve {
	switch oid {
	case oidP256:
		return elliptic.P256()
	case oidP384:
		return elliptic.P384()
	case oidP521:
		return elliptic.P521()
	case oidSecp256k1:
		return secp256k1.Curve()
	default:
		return nil
	}
}

func oidByCurve(curve elliptic.Curve) (string, bool) {
	switch curve {
	case elliptic.P256():
		return oidP256, true
	case elliptic.P384():
		return oidP384, true
	case elliptic.P521():
		return oidP521, true
	case secp256k1.Curve():
		return oidSecp256k1, true
	default:
		return "", false
	}
}

// DecodePEM decodes a single PEM block into a Key.
//
// It supports SubjectPublicKeyInfo ("PUBLIC KEY"), unencrypted PKCS#8
// ("PRIVATE KEY"), PKCS#1 RSA private keys ("RSA PRIVATE KEY"), RFC 5915
// EC private keys ("EC PRIVATE KEY"), and X.509 certificates ("CERTIFICATE"),
// from which only the public key is taken.
func DecodePEM(data []byte) (key *Key, rest []byte, err error) {
	block, rest := pem.Decode(data)
	if block == nil {
		return nil, nil, errors.New("jwk: decoding PEM failed: no PEM block found")
	}
	switch block.Type {
	case "PUBLIC KEY":
		key, err = parseSubjectPublicKeyInfo(block.Bytes)
	case "PRIVATE KEY":
		key, err = parsePKCS8PrivateKey(block.Bytes)
	case "RSA PRIVATE KEY":
		key, err = parsePKCS1PrivateKey(block.Bytes)
	case "EC PRIVATE KEY":
		key, err = parseSEC1PrivateKey(block.Bytes, nil)
	case "CERTIFICATE":
		cert, certErr := x509.ParseCertificate(block.Bytes)
		if certErr != nil {
			return nil, nil, fmt.Errorf("jwk: failed to parse certificate: %w", certErr)
		}
		key, err = NewPublicKey(cert.PublicKey)
	default:
		return nil, nil, fmt.Errorf("jwk: unknown PEM block type: %s", block.Type)
	}
	if err != nil {
		return nil, nil, err
	}
	return key, rest, nil
}

func parseSubjectPublicKeyInfo(der []byte) (*Key, error) {
	root, err := derutil.Parse(der)
	if err != nil {
		return nil, fmt.Errorf("jwk: failed to parse SubjectPublicKeyInfo: %w", err)
	}
	algSeq := root.ChildAt(0)
	bitString := root.ChildAt(1)
	if algSeq == nil || bitString == nil {
		return nil, errors.New("jwk: malformed SubjectPublicKeyInfo")
	}
	algOID, err := algSeq.ChildAt(0).AsOID()
	if err != nil {
		return nil, err
	}
	_, point, err := bitString.AsBitString()
	if err != nil {
		return nil, err
	}

	switch algOID {
	case oidRSAEncryption:
		inner, err := derutil.Parse(point)
		if err != nil {
			return nil, fmt.Errorf("jwk: failed to parse RSAPublicKey: %w", err)
		}
		n, err := inner.ChildAt(0).AsUint()
		if err != nil {
			return nil, err
		}
		e, err := inner.ChildAt(1).AsUint()
		if err != nil {
			return nil, err
		}
		return NewPublicKey(&rsa.PublicKey{N: n, E: int(e.Int64())})
	case oidECPublicKey:
		curveOID, err := algSeq.ChildAt(1).AsOID()
		if err != nil {
			return nil, err
		}
		curve := curveByOID(curveOID)
		if curve == nil {
			return nil, fmt.Errorf("jwk: unsupported EC curve OID: %s", curveOID)
		}
		x, y, err := decodeUncompressedPoint(curve, point)
		if err != nil {
			return nil, err
		}
		return NewPublicKey(&ecdsa.PublicKey{Curve: curve, X: x, Y: y})
	case oidEd25519:
		if len(point) != ed25519.PublicKeySize {
			return nil, errors.New("jwk: invalid Ed25519 public key size")
		}
		return NewPublicKey(ed25519.PublicKey(append([]byte(nil), point...)))
	default:
		return nil, fmt.Errorf("jwk: unsupported SubjectPublicKeyInfo algorithm OID: %s", algOID)
	}
}

func decodeUncompressedPoint(curve elliptic.Curve, point []byte) (x, y *big.Int, err error) {
	byteLen := (curve.Params().BitSize + 7) / 8
	if len(point) != 1+2*byteLen || point[0] != 0x04 {
		return nil, nil, errors.New("jwk: EC point is not in uncompressed form")
	}
	x = new(big.Int).SetBytes(point[1 : 1+byteLen])
	y = new(big.Int).SetBytes(point[1+byteLen:])
	if !isOnCurve(curve, x, y) {
		return nil, nil, errors.New("jwk: EC point is not on the curve")
	}
	return x, y, nil
}

func parsePKCS8PrivateKey(der []byte) (*Key, error) {
	root, err := derutil.Parse(der)
	if err != nil {
		return nil, fmt.Errorf("jwk: failed to parse PKCS#8 PrivateKeyInfo: %w", err)
	}
	algSeq := root.ChildAt(1)
	keyOctets := root.ChildAt(2)
	if algSeq == nil || keyOctets == nil {
		return nil, errors.New("jwk: malformed PKCS#8 PrivateKeyInfo")
	}
	algOID, err := algSeq.ChildAt(0).AsOID()
	if err != nil {
		return nil, err
	}
	inner, err := keyOctets.AsOctetString()
	if err != nil {
		return nil, err
	}

	switch algOID {
	case oidRSAEncryption:
		return parsePKCS1PrivateKey(inner)
	case oidECPublicKey:
		var curveOID string
		if algSeq.ChildAt(1) != nil {
			curveOID, _ = algSeq.ChildAt(1).AsOID()
		}
		return parseSEC1PrivateKey(inner, curveByOID(curveOID))
	case oidEd25519:
		seedNode, err := derutil.Parse(inner)
		if err != nil {
			return nil, fmt.Errorf("jwk: failed to parse Ed25519 private key: %w", err)
		}
		seed, err := seedNode.AsOctetString()
		if err != nil {
			return nil, err
		}
		if len(seed) != ed25519.SeedSize {
			return nil, errors.New("jwk: invalid Ed25519 seed size")
		}
		return NewPrivateKey(ed25519.NewKeyFromSeed(seed))
	default:
		return nil, fmt.Errorf("jwk: unsupported PKCS#8 algorithm OID: %s", algOID)
	}
}

func parsePKCS1PrivateKey(der []byte) (*Key, error) {
	root, err := derutil.Parse(der)
	if err != nil {
		return nil, fmt.Errorf("jwk: failed to parse PKCS#1 RSAPrivateKey: %w", err)
	}
	get := func(i int) (*big.Int, error) { return root.ChildAt(i).AsUint() }
	n, err := get(1)
	if err != nil {
		return nil, err
	}
	e, err := get(2)
	if err != nil {
		return nil, err
	}
	d, err := get(3)
	if err != nil {
		return nil, err
	}
	p, err := get(4)
	if err != nil {
		return nil, err
	}
	q, err := get(5)
	if err != nil {
		return nil, err
	}
	priv := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: n, E: int(e.Int64())},
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	if err := priv.Validate(); err != nil {
		return nil, fmt.Errorf("jwk: invalid RSA key: %w", err)
	}
	priv.Precompute()
	return NewPrivateKey(priv)
}

// parseSEC1PrivateKey parses an RFC 5915 ECPrivateKey. curve may be nil if
// the caller has no out-of-band curve (it is then read from the optional
// [0] parameters field, which MUST be present in that case).
func parseSEC1PrivateKey(der []byte, curve elliptic.Curve) (*Key, error) {
	root, err := derutil.Parse(der)
	if err != nil {
		return nil, fmt.Errorf("jwk: failed to parse SEC1 ECPrivateKey: %w", err)
	}
	privOctets, err := root.ChildAt(1).AsOctetString()
	if err != nil {
		return nil, err
	}
	if curve == nil {
		params := root.ChildWithTag(0)
		if params == nil || len(params.Children) == 0 {
			return nil, errors.New("jwk: EC private key has no curve parameters")
		}
		oid, err := params.Children[0].AsOID()
		if err != nil {
			return nil, err
		}
		curve = curveByOID(oid)
		if curve == nil {
			return nil, fmt.Errorf("jwk: unsupported EC curve OID: %s", oid)
		}
	}

	byteLen := (curve.Params().BitSize + 7) / 8
	if len(privOctets) != byteLen {
		return nil, errors.New("jwk: EC private key has invalid length")
	}
	d := new(big.Int).SetBytes(privOctets)

	priv := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: curve},
		D:         d,
	}

	if pubField := root.ChildWithTag(1); pubField != nil && len(pubField.Children) > 0 {
		_, point, err := pubField.Children[0].AsBitString()
		if err != nil {
			return nil, err
		}
		x, y, err := decodeUncompressedPoint(curve, point)
		if err != nil {
			return nil, err
		}
		priv.X, priv.Y = x, y
	} else {
		priv.X, priv.Y = curve.ScalarBaseMult(privOctets)
	}
	if !isOnCurve(curve, priv.X, priv.Y) {
		return nil, errors.New("jwk: EC private key public component is not on the curve")
	}
	return NewPrivateKey(priv)
}

// EncodePEM encodes key as a PEM block: "PUBLIC KEY" for public-only keys,
// "PRIVATE KEY" (PKCS#8) otherwise.
func EncodePEM(key *Key) ([]byte, error) {
	if key.priv == nil {
		der, err := marshalSubjectPublicKeyInfo(key.pub)
		if err != nil {
			return nil, err
		}
		return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
	}
	der, err := marshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

func marshalSubjectPublicKeyInfo(pub any) ([]byte, error) {
	b := derutil.NewBuilder()
	var outerErr error
	switch pub := pub.(type) {
	case *rsa.PublicKey:
		b.Sequence(func(b *derutil.Builder) {
			b.Sequence(func(b *derutil.Builder) {
				_ = b.AppendOID(oidRSAEncryption)
				b.AppendNull()
			})
			inner := derutil.NewBuilder()
			inner.Sequence(func(b *derutil.Builder) {
				b.AppendInteger(pub.N)
				b.AppendInteger(big.NewInt(int64(pub.E)))
			})
			b.AppendBitString(inner.Bytes())
		})
	case *ecdsa.PublicKey:
		curveOID, ok := oidByCurve(pub.Curve)
		if !ok {
			return nil, fmt.Errorf("jwk: unsupported EC curve: %v", pub.Curve)
		}
		b.Sequence(func(b *derutil.Builder) {
			b.Sequence(func(b *derutil.Builder) {
				_ = b.AppendOID(oidECPublicKey)
				_ = b.AppendOID(curveOID)
			})
			b.AppendBitString(marshalUncompressedPoint(pub))
		})
	case ed25519.PublicKey:
		b.Sequence(func(b *derutil.Builder) {
			b.Sequence(func(b *derutil.Builder) {
				_ = b.AppendOID(oidEd25519)
			})
			b.AppendBitString([]byte(pub))
		})
	default:
		outerErr = fmt.Errorf("jwk: unsupported public key type: %T", pub)
	}
	if outerErr != nil {
		return nil, outerErr
	}
	return b.Bytes(), nil
}

func marshalUncompressedPoint(pub *ecdsa.PublicKey) []byte {
	byteLen := (pub.Curve.Params().BitSize + 7) / 8
	out := make([]byte, 1+2*byteLen)
	out[0] = 0x04
	pub.X.FillBytes(out[1 : 1+byteLen])
	pub.Y.FillBytes(out[1+byteLen:])
	return out
}

func marshalPKCS8PrivateKey(key *Key) ([]byte, error) {
	b := derutil.NewBuilder()
	var err error
	b.Sequence(func(b *derutil.Builder) {
		b.AppendInteger(big.NewInt(0))
		switch priv := key.priv.(type) {
		case *rsa.PrivateKey:
			b.Sequence(func(b *derutil.Builder) {
				_ = b.AppendOID(oidRSAEncryption)
				b.AppendNull()
			})
			b.AppendOctetString(marshalPKCS1PrivateKey(priv))
		case *ecdsa.PrivateKey:
			var curveOID string
			curveOID, err = oidString(priv.Curve)
			if err != nil {
				return
			}
			b.Sequence(func(b *derutil.Builder) {
				_ = b.AppendOID(oidECPublicKey)
				_ = b.AppendOID(curveOID)
			})
			b.AppendOctetString(marshalSEC1PrivateKey(priv, false))
		case ed25519.PrivateKey:
			b.Sequence(func(b *derutil.Builder) {
				_ = b.AppendOID(oidEd25519)
			})
			seed := derutil.NewBuilder()
			seed.AppendOctetString(priv.Seed())
			b.AppendOctetString(seed.Bytes())
		default:
			err = fmt.Errorf("jwk: unsupported private key type: %T", key.priv)
		}
	})
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func oidString(curve elliptic.Curve) (string, error) {
	oid, ok := oidByCurve(curve)
	if !ok {
		return "", fmt.Errorf("jwk: unsupported EC curve: %v", curve)
	}
	return oid, nil
}

func marshalPKCS1PrivateKey(priv *rsa.PrivateKey) []byte {
	priv.Precompute()
	b := derutil.NewBuilder()
	b.Sequence(func(b *derutil.Builder) {
		b.AppendInteger(big.NewInt(0))
		b.AppendInteger(priv.N)
		b.AppendInteger(big.NewInt(int64(priv.E)))
		b.AppendInteger(priv.D)
		b.AppendInteger(priv.Primes[0])
		b.AppendInteger(priv.Primes[1])
		b.AppendInteger(priv.Precomputed.Dp)
		b.AppendInteger(priv.Precomputed.Dq)
		b.AppendInteger(priv.Precomputed.Qinv)
	})
	return b.Bytes()
}

// marshalSEC1PrivateKey encodes an RFC 5915 ECPrivateKey. includeParams
// controls whether the redundant [0] curve-OID field is written (PKCS#8
// wrapping omits it since the curve is already named one level up).
func marshalSEC1PrivateKey(priv *ecdsa.PrivateKey, includeParams bool) []byte {
	byteLen := (priv.Curve.Params().BitSize + 7) / 8
	d := make([]byte, byteLen)
	priv.D.FillBytes(d)

	b := derutil.NewBuilder()
	b.Sequence(func(b *derutil.Builder) {
		b.AppendInteger(big.NewInt(1))
		b.AppendOctetString(d)
		if includeParams {
			if oid, ok := oidByCurve(priv.Curve); ok {
				b.ExplicitContextTag(0, func(b *derutil.Builder) {
					_ = b.AppendOID(oid)
				})
			}
		}
		b.ExplicitContextTag(1, func(b *derutil.Builder) {
			b.AppendBitString(marshalUncompressedPoint(&priv.PublicKey))
		})
	})
	return b.Bytes()
}
