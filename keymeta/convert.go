package keymeta

// ToMetadata projects a runtime record to the storage form persisted in
// trust metadata. With includePrivate false, or when no private material is
// held, private is set to "".
//
// The keytype tag is carried through from the input record for both
// families; it is never rewritten to a fixed value.
func ToMetadata(k Key, includePrivate bool) (MetadataKey, error) {
	if err := checkKey(k); err != nil {
		return MetadataKey{}, err
	}
	private := ""
	if includePrivate {
		private = k.KeyVal.Private
	}
	return MetadataKey{
		KeyType: k.KeyType,
		KeyVal:  KeyVal{Public: k.KeyVal.Public, Private: private},
	}, nil
}

// FromMetadata validates a storage-format record, derives its keyid, and
// returns the runtime record with keytype and keyval carried through
// unchanged.
func FromMetadata(m MetadataKey) (Key, error) {
	return FromMetadataWithOptions(m, Options{})
}

// FromMetadataWithOptions is FromMetadata with an explicit keyid digest.
func FromMetadataWithOptions(m MetadataKey, opts Options) (Key, error) {
	id, err := KeyIDWithOptions(m, opts)
	if err != nil {
		return Key{}, err
	}
	return Key{KeyType: m.KeyType, KeyID: id, KeyVal: m.KeyVal}, nil
}
