package jwk

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-jose-kit/josecore/x25519"
)

// Set is an insertion-ordered JWK Set (RFC 7517 Section 5).
type Set struct {
	Keys []*Key
}

// ParseSet parses a JWK Set.
func ParseSet(data []byte) (*Set, error) {
	var keys struct {
		Keys []map[string]any `json:"keys"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&keys); err != nil {
		return nil, err
	}

	list := make([]*Key, 0, len(keys.Keys))
	for _, key := range keys.Keys {
		if key, err := ParseMap(key); err == nil {
			list = append(list, key)

			// from: RFC7517 Section 5. JWK Set Format
			// Implementations SHOULD ignore JWKs within a JWK Set that use "kty"
			// (key type) values that are not understood by them, that are missing
			// required members, or for which values are out of the supported
			// ranges.
		}
	}
	return &Set{
		Keys: list,
	}, nil
}

var _ json.Unmarshaler = (*Set)(nil)

// UnmarshalJSON implements [encoding/json.Unmarshaler]
func (set *Set) UnmarshalJSON(data []byte) error {
	s, err := ParseSet(data)
	if err != nil {
		return err
	}
	*set = *s
	return nil
}

var _ json.Marshaler = (*Set)(nil)

// MarshalJSON implements [encoding/json.Marshaler]
func (set *Set) MarshalJSON() ([]byte, error) {
	type raw struct {
		Keys []*Key `json:"keys"`
	}
	return json.Marshal(raw{Keys: set.Keys})
}

// KeyNotFoundError is returned by Get when no key in the Set
// satisfies the given criteria.
type KeyNotFoundError struct {
	Criteria map[string]any
}

func (err *KeyNotFoundError) Error() string {
	return fmt.Sprintf("jwk: no key in the set matches criteria %v", err.Criteria)
}

// KeyAlreadyExistsError is returned by Add when a key with the same
// thumbprint or kid is already a member of the Set.
type KeyAlreadyExistsError struct {
	KeyID      string
	Thumbprint []byte
}

func (err *KeyAlreadyExistsError) Error() string {
	if err.KeyID != "" {
		return fmt.Sprintf("jwk: a key with kid %q already exists in the set", err.KeyID)
	}
	return "jwk: a key with the same thumbprint already exists in the set"
}

// identical reports whether a and b are the "same" key per RFC 7517
// Section 5: their thumbprints match, or both carry a kid and those
// kids match.
func identical(a, b *Key) bool {
	if a.kid != "" && b.kid != "" && a.kid == b.kid {
		return true
	}
	ta, errA := a.Thumbprint(sha256.New())
	tb, errB := b.Thumbprint(sha256.New())
	return errA == nil && errB == nil && bytes.Equal(ta, tb)
}

// Add inserts key into the set. It fails with a *KeyAlreadyExistsError
// if an identical key (by thumbprint or kid) is already present.
func (set *Set) Add(key *Key) error {
	for _, k := range set.Keys {
		if identical(k, key) {
			return &KeyAlreadyExistsError{KeyID: key.kid}
		}
	}
	set.Keys = append(set.Keys, key)
	return nil
}

// AddAll inserts every key in keys, silently skipping any that are
// already present.
func (set *Set) AddAll(keys []*Key) {
	for _, key := range keys {
		_ = set.Add(key)
	}
}

// Remove removes the key identical to key from the set, reporting
// whether a key was actually removed.
func (set *Set) Remove(key *Key) bool {
	for i, k := range set.Keys {
		if identical(k, key) {
			set.Keys = append(set.Keys[:i:i], set.Keys[i+1:]...)
			return true
		}
	}
	return false
}

// Find finds the key that has kid.
func (set *Set) Find(kid string) (key *Key, found bool) {
	for _, k := range set.Keys {
		if k.kid == kid {
			return k, true
		}
	}
	return nil, false
}

// criterionKind distinguishes the three prefix forms a criteria key may
// carry (RFC 7517-adjacent JWK Set matching, not an RFC itself).
type criterionKind int

const (
	criterionMandatory criterionKind = iota
	criterionMandatoryIfPresent
	criterionOptional
)

type criterion struct {
	name string
	kind criterionKind
	want any
}

func parseCriteria(criteria map[string]any) []criterion {
	list := make([]criterion, 0, len(criteria))
	for name, want := range criteria {
		c := criterion{want: want}
		switch {
		case strings.HasPrefix(name, "@"):
			c.name = name[1:]
			c.kind = criterionMandatoryIfPresent
		case strings.HasPrefix(name, "~"):
			c.name = name[1:]
			c.kind = criterionOptional
		default:
			c.name = name
			c.kind = criterionMandatory
		}
		list = append(list, c)
	}
	return list
}

// keyProperty resolves a matchable property of key, including the two
// synthetic properties #size and #public that exist only for matching.
func keyProperty(key *Key, name string) (any, bool) {
	switch name {
	case "#size":
		return keySizeBits(key), true
	case "#public":
		return key.priv == nil && key.pub != nil, true
	case "kty":
		if key.kty == "" {
			return nil, false
		}
		return key.kty.String(), true
	case "crv":
		return crvProperty(key)
	case "use":
		if key.use == "" {
			return nil, false
		}
		return key.use.String(), true
	case "kid":
		if key.kid == "" {
			return nil, false
		}
		return key.kid, true
	case "alg":
		if key.alg == "" {
			return nil, false
		}
		return key.alg.String(), true
	case "key_ops":
		if len(key.keyOps) == 0 {
			return nil, false
		}
		ops := make([]any, len(key.keyOps))
		for i, op := range key.keyOps {
			ops[i] = string(op)
		}
		return ops, true
	default:
		return nil, false
	}
}

func crvProperty(key *Key) (any, bool) {
	switch pub := key.pub.(type) {
	case *ecdsa.PublicKey:
		crv, ok := crvFromCurve(pub.Curve)
		if !ok {
			return nil, false
		}
		return string(crv), true
	case ed25519.PublicKey:
		return "Ed25519", true
	case x25519.PublicKey:
		return "X25519", true
	default:
		return nil, false
	}
}

func keySizeBits(key *Key) int {
	switch pub := key.pub.(type) {
	case *rsa.PublicKey:
		return pub.N.BitLen()
	case *ecdsa.PublicKey:
		return pub.Curve.Params().BitSize
	case ed25519.PublicKey:
		return 256
	case x25519.PublicKey:
		return 256
	}
	if k, ok := key.priv.([]byte); ok {
		return len(k) * 8
	}
	return 0
}

// matchValue implements the scalar/array matching rules of the criteria
// matcher: scalar-scalar equality, scalar-in-array, array-in-scalar (the
// key value is itself treated as the container), and array-array
// intersection.
func matchValue(want, got any) bool {
	wantArr, wantIsArr := toAnySlice(want)
	gotArr, gotIsArr := toAnySlice(got)

	switch {
	case !wantIsArr && !gotIsArr:
		return scalarEqual(want, got)
	case !wantIsArr && gotIsArr:
		for _, g := range gotArr {
			if scalarEqual(want, g) {
				return true
			}
		}
		return false
	case wantIsArr && !gotIsArr:
		for _, w := range wantArr {
			if scalarEqual(w, got) {
				return true
			}
		}
		return false
	default:
		for _, w := range wantArr {
			for _, g := range gotArr {
				if scalarEqual(w, g) {
					return true
				}
			}
		}
		return false
	}
}

func toAnySlice(v any) ([]any, bool) {
	switch v := v.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func scalarEqual(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// candidate pairs a key with the number of non-mandatory criteria
// (mandatory-if-present + optional) it satisfied, for ranking.
type candidate struct {
	key   *Key
	index int
	score int
}

// FindByCriteria evaluates criteria against every key in the set and returns the
// ranked list of matches: keys satisfying every mandatory and
// mandatory-if-present criterion, ordered by descending count of
// satisfied mandatory-if-present/optional criteria, ties broken by
// insertion order.
func (set *Set) FindByCriteria(criteria map[string]any) []*Key {
	parsed := parseCriteria(criteria)

	var candidates []candidate
	for i, key := range set.Keys {
		ok := true
		score := 0
		for _, c := range parsed {
			got, present := keyProperty(key, c.name)
			switch c.kind {
			case criterionMandatory:
				if !present || !matchValue(c.want, got) {
					ok = false
				}
			case criterionMandatoryIfPresent:
				if present {
					if matchValue(c.want, got) {
						score++
					} else {
						ok = false
					}
				}
			case criterionOptional:
				if present && matchValue(c.want, got) {
					score++
				}
			}
			if !ok {
				break
			}
		}
		if ok {
			candidates = append(candidates, candidate{key: key, index: i, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	out := make([]*Key, len(candidates))
	for i, c := range candidates {
		out[i] = c.key
	}
	return out
}

// Get returns the single best-ranked key matching criteria, or a
// *KeyNotFoundError if none match.
func (set *Set) Get(criteria map[string]any) (*Key, error) {
	matches := set.FindByCriteria(criteria)
	if len(matches) == 0 {
		return nil, &KeyNotFoundError{Criteria: criteria}
	}
	return matches[0], nil
}
