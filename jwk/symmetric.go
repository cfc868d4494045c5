package jwk

import (
	"github.com/go-jose-kit/josecore/internal/jsonutils"
	"github.com/go-jose-kit/josecore/jwa"
)

func parseSymmetricKey(d *jsonutils.Decoder, key *Key) {
	k := d.MustBytes("k")
	if d.Err() != nil {
		return
	}
	key.priv = append([]byte(nil), k...)
}

func encodeSymmetricKey(e *jsonutils.Encoder, k []byte) {
	e.Set("kty", jwa.Oct.String())
	e.SetBytes("k", k)
}
