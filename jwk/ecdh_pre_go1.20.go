//go:build !go1.20

package jwk

import "crypto"

func newPrivateKeyECDH(key crypto.PrivateKey) (k *Key, handled bool, err error) {
	return nil, false, nil
}

func newPublicKeyECDH(key crypto.PublicKey) (k *Key, handled bool, err error) {
	return nil, false, nil
}
