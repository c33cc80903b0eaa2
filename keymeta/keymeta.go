// Package keymeta implements key identity and detached-signature semantics for
// update trust metadata.
//
// A key's identifier (keyid) is the lower-case hex digest of the canonical
// JSON encoding of its public-only record, so any conformant implementation
// derives the same id from the same public material. Two key families are
// supported: ed25519 and RSA (RSASSA-PSS over SHA-256). The asymmetric math,
// the canonical encoder, and the digest and entropy providers are external;
// this package does validation, identity, and dispatch.
package keymeta

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// KeyType names a supported key family. The set is closed; parsing rejects
// anything else.
type KeyType string

const (
	KeyTypeEd25519 KeyType = "ed25519"
	KeyTypeRSA     KeyType = "rsa"
)

// Method names an exact signing scheme. The set is closed and matched
// case-sensitively; there is no fallback method.
type Method string

const (
	MethodEd25519      Method = "ed25519"
	MethodRSAPSSSHA256 Method = "rsassa-pss-sha256"
)

// KeyVal carries key material as lower-case hex text.
//
// Private == "" is the sole sentinel for absent private material; any other
// value is treated as present, however short.
type KeyVal struct {
	Public  string `json:"public"`
	Private string `json:"private"`
}

// MetadataKey is the storage form of a key as persisted in trust metadata.
// It carries no keyid and is the canonical input to identity derivation.
type MetadataKey struct {
	KeyType KeyType `json:"keytype"`
	KeyVal  KeyVal  `json:"keyval"`
}

// Key is the runtime form of a key. KeyID is derived from the public
// material, never user-supplied, and immutable once computed.
type Key struct {
	KeyType KeyType `json:"keytype"`
	KeyID   string  `json:"keyid"`
	KeyVal  KeyVal  `json:"keyval"`
}

// Signature is a detached signature record.
//
// KeyID is a foreign key into the key identity space; it is not re-verified
// against key bytes except via the verify step itself.
type Signature struct {
	KeyID  string `json:"keyid"`
	Method Method `json:"method"`
	Sig    string `json:"sig"`
}

// ParseKeyType parses a keytype tag into the closed KeyType set.
func ParseKeyType(s string) (KeyType, error) {
	switch KeyType(s) {
	case KeyTypeEd25519:
		return KeyTypeEd25519, nil
	case KeyTypeRSA:
		return KeyTypeRSA, nil
	default:
		return "", newError(KindFormat, "KEYMETA-SCHEMA-003", fmt.Sprintf("unrecognized keytype %q", s))
	}
}

// ParseMethod parses a method tag into the closed Method set.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodEd25519:
		return MethodEd25519, nil
	case MethodRSAPSSSHA256:
		return MethodRSAPSSSHA256, nil
	default:
		return "", newError(KindUnknownMethod, "KEYMETA-VERIFY-501", fmt.Sprintf("unsupported signature method %q", s))
	}
}

// methodFor returns the signing scheme for a key family.
func methodFor(t KeyType) Method {
	if t == KeyTypeRSA {
		return MethodRSAPSSSHA256
	}
	return MethodEd25519
}

// DecodeMetadataKey parses a storage-format key record from JSON.
// Unknown fields, wrong types, and shape violations are rejected.
func DecodeMetadataKey(data []byte) (MetadataKey, error) {
	var m MetadataKey
	if err := decodeStrict(data, &m, "key record"); err != nil {
		return MetadataKey{}, err
	}
	if err := checkMetadataKey(m); err != nil {
		return MetadataKey{}, err
	}
	return m, nil
}

// DecodeKey parses a runtime key record from JSON. The embedded keyid is
// shape-checked but not re-derived; callers that need identity integrity
// re-derive via KeyID (the keystore does this on load).
func DecodeKey(data []byte) (Key, error) {
	var k Key
	if err := decodeStrict(data, &k, "key record"); err != nil {
		return Key{}, err
	}
	if err := checkKey(k); err != nil {
		return Key{}, err
	}
	return k, nil
}

// DecodeSignature parses a signature record from JSON.
func DecodeSignature(data []byte) (Signature, error) {
	var s Signature
	if err := decodeStrict(data, &s, "signature record"); err != nil {
		return Signature{}, err
	}
	if err := checkSignature(s); err != nil {
		return Signature{}, err
	}
	return s, nil
}

func decodeStrict(data []byte, v interface{}, what string) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return wrapError(KindFormat, "KEYMETA-SCHEMA-040", "malformed "+what, err)
	}
	if dec.More() {
		return newError(KindFormat, "KEYMETA-SCHEMA-041", "trailing content after "+what)
	}
	return nil
}
