package keymeta

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"

	"github.com/cloudflare/circl/sign/ed25519"
)

// Sign produces a detached signature record over data with the key's family
// scheme: ed25519 signs the raw message (RFC 8032 hashes internally), RSA
// signs a PSS-padded sha256 digest with salt length equal to the hash size.
//
// The key must hold private material; public-only records fail with
// KindMissingPrivateKey. The input record is not mutated.
func Sign(key Key, data []byte) (Signature, error) {
	return SignWithOptions(key, data, Options{})
}

// SignWithOptions signs with an explicit entropy source for the RSA-PSS
// salt. ed25519 signing is deterministic and ignores it.
func SignWithOptions(key Key, data []byte, opts Options) (Signature, error) {
	opts = opts.withDefaults()
	if err := checkKey(key); err != nil {
		return Signature{}, err
	}
	if key.KeyVal.Private == "" {
		return Signature{}, newError(KindMissingPrivateKey, "KEYMETA-SIGN-401", "key holds no private material")
	}
	private, err := hex.DecodeString(key.KeyVal.Private)
	if err != nil {
		return Signature{}, wrapError(KindFormat, "KEYMETA-SCHEMA-012", "private key material must be lower-case hex", err)
	}

	switch key.KeyType {
	case KeyTypeEd25519:
		if len(private) != ed25519.SeedSize {
			return Signature{}, newError(KindCrypto, "KEYMETA-SIGN-402", "invalid ed25519 seed length")
		}
		sig := ed25519.Sign(ed25519.NewKeyFromSeed(private), data)
		return Signature{KeyID: key.KeyID, Method: MethodEd25519, Sig: hex.EncodeToString(sig)}, nil

	case KeyTypeRSA:
		priv, perr := x509.ParsePKCS1PrivateKey(private)
		if perr != nil {
			return Signature{}, wrapError(KindCrypto, "KEYMETA-SIGN-402", "invalid rsa private key", perr)
		}
		digest := sha256.Sum256(data)
		sig, serr := rsa.SignPSS(opts.Rand, priv, crypto.SHA256, digest[:], &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash})
		if serr != nil {
			return Signature{}, wrapError(KindCrypto, "KEYMETA-SIGN-403", "rsa-pss signing failed", serr)
		}
		return Signature{KeyID: key.KeyID, Method: MethodRSAPSSSHA256, Sig: hex.EncodeToString(sig)}, nil

	default:
		// Unreachable: checkKey admits only the closed KeyType set.
		_, err := ParseKeyType(string(key.KeyType))
		return Signature{}, err
	}
}
