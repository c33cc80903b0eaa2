package keymeta

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// KeyID derives the identifier of a storage-format key record: the
// lower-case hex sha256 digest of its canonical public-only encoding.
//
// The id is a pure function of (keytype, public). Private material never
// enters the derivation; records that differ only in their private field
// have identical keyids.
func KeyID(k MetadataKey) (string, error) {
	return KeyIDWithOptions(k, Options{})
}

// KeyIDWithOptions derives a keyid with an explicit digest algorithm.
//
// Interoperating parties must agree on the algorithm; ids derived with
// different digests name the same key differently.
func KeyIDWithOptions(k MetadataKey, opts Options) (string, error) {
	opts = opts.withDefaults()
	b, err := CanonicalPublicBytes(k)
	if err != nil {
		return "", err
	}
	sum, err := digestFor(opts.KeyIDDigest, b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

func digestFor(alg string, message []byte) ([]byte, error) {
	switch alg {
	case "sha256":
		s := sha256.Sum256(message)
		return s[:], nil
	case "sha512":
		s := sha512.Sum512(message)
		return s[:], nil
	case "sha3-256":
		s := sha3.Sum256(message)
		return s[:], nil
	default:
		return nil, newError(KindFormat, "KEYMETA-ID-201", fmt.Sprintf("unsupported keyid digest %q", alg))
	}
}
