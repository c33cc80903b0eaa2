package keymeta

import "fmt"

// Shape checks run at the entry of every public operation, before any
// cryptographic work. They verify presence and form only; method-set
// membership for signatures is the verifier's own check so that an
// unrecognized tag surfaces as KindUnknownMethod, not KindFormat.

func checkMetadataKey(m MetadataKey) error {
	if _, err := ParseKeyType(string(m.KeyType)); err != nil {
		return err
	}
	return checkKeyVal(m.KeyVal)
}

func checkKey(k Key) error {
	if _, err := ParseKeyType(string(k.KeyType)); err != nil {
		return err
	}
	if k.KeyID == "" {
		return newError(KindFormat, "KEYMETA-SCHEMA-020", "missing keyid")
	}
	if !isLowerHex(k.KeyID) {
		return newError(KindFormat, "KEYMETA-SCHEMA-021", "keyid must be lower-case hex")
	}
	return checkKeyVal(k.KeyVal)
}

func checkKeyVal(v KeyVal) error {
	if v.Public == "" {
		return newError(KindFormat, "KEYMETA-SCHEMA-010", "missing public key material")
	}
	if !isLowerHex(v.Public) {
		return newError(KindFormat, "KEYMETA-SCHEMA-011", "public key material must be lower-case hex")
	}
	if v.Private != "" && !isLowerHex(v.Private) {
		return newError(KindFormat, "KEYMETA-SCHEMA-012", "private key material must be lower-case hex")
	}
	return nil
}

func checkSignature(s Signature) error {
	if s.KeyID == "" {
		return newError(KindFormat, "KEYMETA-SCHEMA-030", "missing signature keyid")
	}
	if !isLowerHex(s.KeyID) {
		return newError(KindFormat, "KEYMETA-SCHEMA-031", "signature keyid must be lower-case hex")
	}
	if s.Method == "" {
		return newError(KindFormat, "KEYMETA-SCHEMA-032", "missing signature method")
	}
	if s.Sig == "" {
		return newError(KindFormat, "KEYMETA-SCHEMA-033", "missing signature bytes")
	}
	return nil
}

// isLowerHex reports whether s is even-length lower-case hex.
// Identity-bearing hex fields accept exactly the spelling they emit.
func isLowerHex(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') {
			continue
		}
		return false
	}
	return true
}

// checkGenerateBits validates the RSA modulus size for generation.
func checkGenerateBits(bits int) error {
	if bits < 2048 || bits%256 != 0 {
		return newError(KindFormat, "KEYMETA-GEN-302", fmt.Sprintf("rsa modulus size %d: must be at least 2048 and a multiple of 256", bits))
	}
	return nil
}
