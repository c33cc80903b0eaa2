// Package keycid derives IPFS-compatible content identifiers for key
// records, a second spelling of key identity for CAS-backed tooling.
//
// The CID is computed over the same canonical public-only bytes that feed
// keyid derivation, so a key's CID and keyid name the same content.
package keycid

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"xdao.co/keymeta/keymeta"
)

// ForMetadataKey returns a CIDv1 (raw + sha2-256) for the canonical
// public-only encoding of a storage-format key record.
func ForMetadataKey(k keymeta.MetadataKey) (cid.Cid, error) {
	b, err := keymeta.CanonicalPublicBytes(k)
	if err != nil {
		return cid.Undef, err
	}
	return fromCanonical(b)
}

// ForKey returns the CIDv1 for a runtime key record's public material.
func ForKey(k keymeta.Key) (cid.Cid, error) {
	m, err := keymeta.ToMetadata(k, false)
	if err != nil {
		return cid.Undef, err
	}
	return ForMetadataKey(m)
}

// Parse decodes a CID string, for callers round-tripping ids through text.
func Parse(s string) (cid.Cid, error) {
	return cid.Decode(s)
}

func fromCanonical(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}
