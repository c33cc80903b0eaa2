package keymeta

import "github.com/secure-systems-lab/go-securesystemslib/cjson"

// CanonicalPublicBytes is the single mandatory canonicalization choke point
// for key identity.
//
// It builds the public-only projection of a storage-format key record
// (private forced to "") and encodes it as canonical JSON: lexicographically
// ordered fields, fixed separators, no floats, UTF-8. Any two conformant
// encoders produce byte-identical output for the same logical record, which
// is what makes keyids portable across implementations.
//
// All keyid and key-CID derivation MUST pass through CanonicalPublicBytes.
// The projection never carries private material, so the output is safe to
// hash, store, and publish.
func CanonicalPublicBytes(k MetadataKey) ([]byte, error) {
	if err := checkMetadataKey(k); err != nil {
		return nil, err
	}
	projection := MetadataKey{
		KeyType: k.KeyType,
		KeyVal:  KeyVal{Public: k.KeyVal.Public, Private: ""},
	}
	b, err := cjson.EncodeCanonical(projection)
	if err != nil {
		return nil, wrapError(KindCanonical, "KEYMETA-CANON-101", "canonical encoding failed", err)
	}
	return b, nil
}
