package keymeta

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"

	"github.com/cloudflare/circl/sign/ed25519"
)

// Verify checks a detached signature record against a key and data.
//
// The boolean verdict is distinct from structural failure: a well-formed
// signature that is mathematically wrong returns (false, nil), while shape
// violations, unknown methods, malformed hex, and key or signature bytes the
// primitive cannot process return an error. (true, nil) is reported only for
// a valid signature over exactly data.
//
// The record's keyid is not cross-checked against the key; the binding is
// established by the verify math itself. Public-only key records verify
// normally.
func Verify(key Key, sig Signature, data []byte) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	if err := checkSignature(sig); err != nil {
		return false, err
	}
	method, err := ParseMethod(string(sig.Method))
	if err != nil {
		return false, err
	}
	if method != methodFor(key.KeyType) {
		return false, newError(KindUnknownMethod, "KEYMETA-VERIFY-502",
			"signature method "+string(method)+" does not apply to keytype "+string(key.KeyType))
	}
	raw, err := hex.DecodeString(sig.Sig)
	if err != nil {
		return false, wrapError(KindFormat, "KEYMETA-VERIFY-503", "malformed signature hex", err)
	}
	public, err := hex.DecodeString(key.KeyVal.Public)
	if err != nil {
		return false, wrapError(KindFormat, "KEYMETA-SCHEMA-011", "public key material must be lower-case hex", err)
	}

	switch key.KeyType {
	case KeyTypeEd25519:
		if len(public) != ed25519.PublicKeySize {
			return false, newError(KindCrypto, "KEYMETA-VERIFY-504", "invalid ed25519 public key length")
		}
		if len(raw) != ed25519.SignatureSize {
			return false, newError(KindCrypto, "KEYMETA-VERIFY-505", "invalid ed25519 signature length")
		}
		return ed25519.Verify(ed25519.PublicKey(public), data, raw), nil

	case KeyTypeRSA:
		pub, perr := x509.ParsePKCS1PublicKey(public)
		if perr != nil {
			return false, wrapError(KindCrypto, "KEYMETA-VERIFY-504", "invalid rsa public key", perr)
		}
		if len(raw) != pub.Size() {
			return false, newError(KindCrypto, "KEYMETA-VERIFY-505", "invalid rsa signature length")
		}
		digest := sha256.Sum256(data)
		// Salt length is auto-detected so signatures from implementations
		// using a different salt convention still verify.
		if verr := rsa.VerifyPSS(pub, crypto.SHA256, digest[:], raw, &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthAuto}); verr != nil {
			return false, nil
		}
		return true, nil

	default:
		// Unreachable: checkKey admits only the closed KeyType set.
		_, err := ParseKeyType(string(key.KeyType))
		return false, err
	}
}
