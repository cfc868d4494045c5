// Package bigmath provides the small arbitrary-precision surface the rest
// of the module needs: enough modular arithmetic to check that an elliptic
// curve point satisfies the curve equation without delegating to
// crypto/elliptic's (deprecated, and NIST-curve-only) IsOnCurve method.
//
// It is deliberately narrow. There is no general-purpose bignum API here,
// only the handful of operations EC point validation requires: add, mul,
// mod, modular exponentiation (PowMod, which IsOnCurve uses to cube x) and
// comparison.
package bigmath

import "math/big"

// FromBytes interprets data as a big-endian unsigned integer.
func FromBytes(data []byte) *big.Int {
	return new(big.Int).SetBytes(data)
}

// Add returns a+b.
func Add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

// Mul returns a*b.
func Mul(a, b *big.Int) *big.Int {
	return new(big.Int).Mul(a, b)
}

// Mod returns a mod n, always in [0, n).
func Mod(a, n *big.Int) *big.Int {
	return new(big.Int).Mod(a, n)
}

// PowMod returns a^e mod n.
func PowMod(a, e, n *big.Int) *big.Int {
	return new(big.Int).Exp(a, e, n)
}

// Cmp compares a and b, returning -1, 0, or +1.
func Cmp(a, b *big.Int) int {
	return a.Cmp(b)
}

// WeierstrassCurve carries the domain parameters of a short Weierstrass
// curve y^2 = x^3 + a*x + b (mod p).
type WeierstrassCurve struct {
	P *big.Int
	A *big.Int
	B *big.Int
}

// IsOnCurve reports whether (x, y) satisfies y^2 = x^3 + a*x + b (mod p).
// It is the anti invalid-curve check: callers MUST run this on any point
// taken from untrusted input (a JWK, an "epk" header) before using it in
// a key agreement.
func (c WeierstrassCurve) IsOnCurve(x, y *big.Int) bool {
	if x.Sign() < 0 || y.Sign() < 0 {
		return false
	}
	if x.Cmp(c.P) >= 0 || y.Cmp(c.P) >= 0 {
		return false
	}

	lhs := Mod(Mul(y, y), c.P)

	x3 := PowMod(x, big.NewInt(3), c.P)
	ax := Mod(Mul(c.A, x), c.P)
	rhs := Mod(Add(Add(x3, ax), c.B), c.P)

	return Cmp(lhs, rhs) == 0
}
