package keymeta

import (
	"crypto/rand"
	"io"
)

// Options controls injected collaborators and generation parameters.
//
// The zero value selects the defaults below; Options{} behaves like the
// plain entry points.
type Options struct {
	// Rand is the entropy source for key generation and RSA-PSS salts.
	// Defaults to crypto/rand.Reader.
	Rand io.Reader

	// KeyIDDigest selects the keyid digest algorithm.
	// One of: sha256 (default), sha512, sha3-256.
	KeyIDDigest string

	// RSABits is the RSA modulus size for generation.
	// Defaults to 3072; must be at least 2048 and a multiple of 256.
	RSABits int
}

func (o Options) withDefaults() Options {
	if o.Rand == nil {
		o.Rand = rand.Reader
	}
	if o.KeyIDDigest == "" {
		o.KeyIDDigest = "sha256"
	}
	if o.RSABits == 0 {
		o.RSABits = 3072
	}
	return o
}
