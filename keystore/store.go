// Package keystore persists key records on the local filesystem, one JSON
// file per key named by its keyid.
//
// Stored records are the runtime form produced by keymeta: keytype, keyid and
// hex-encoded key material. On every load the keyid is re-derived from the
// stored public material and compared against both the embedded keyid and the
// file name, so a renamed or edited file surfaces as ErrIdentityMismatch
// rather than as a silently wrong identity.
package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"xdao.co/keymeta/keymeta"
)

// Store is a directory of key record files.
//
// Options configures keyid derivation for the integrity check; it must match
// the options the stored keys were generated with.
type Store struct {
	Directory string
	Options   keymeta.Options
}

func DefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".keymeta", "keys"), nil
}

// Open returns a Store rooted at directory, or at DefaultDirectory when
// directory is empty. The directory is created lazily on first Save.
func Open(directory string) (*Store, error) {
	if directory == "" {
		var err error
		directory, err = DefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &Store{Directory: directory}, nil
}

func (s *Store) keyFilePath(keyid string) string {
	return filepath.Join(s.Directory, keyid+".json")
}

// CheckKeyID rejects identifiers that cannot be keyids. Keyids are file name
// components here, so anything outside lowercase hex is refused before it
// reaches the filesystem.
func CheckKeyID(keyid string) error {
	if keyid == "" {
		return errors.New("keyid cannot be empty")
	}
	for _, char := range keyid {
		if (char >= '0' && char <= '9') || (char >= 'a' && char <= 'f') {
			continue
		}
		return fmt.Errorf("invalid character %q in keyid", char)
	}
	return nil
}

// Save writes key to the store under its keyid and returns the file path.
// The keyid is re-derived from the public material first; a record whose
// embedded keyid does not match is refused with ErrIdentityMismatch.
//
// Private material is written only when includePrivate is set. Files are
// created with mode 0600 and never replaced unless overwrite is set.
func (s *Store) Save(key keymeta.Key, includePrivate, overwrite bool) (string, error) {
	derived, err := s.deriveKeyID(key)
	if err != nil {
		return "", err
	}
	if derived != key.KeyID {
		return "", ErrIdentityMismatch
	}
	if !includePrivate {
		key.KeyVal.Private = ""
	}
	data, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return "", err
	}
	filePath := s.keyFilePath(key.KeyID)
	if err := os.MkdirAll(s.Directory, 0o700); err != nil {
		return "", err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(filePath, flags, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return "", ErrExists
		}
		return "", err
	}
	defer file.Close()
	if _, err := file.Write(append(data, '\n')); err != nil {
		return "", err
	}
	return filePath, file.Close()
}

// Load reads the key stored under keyid and verifies its identity.
func (s *Store) Load(keyid string) (keymeta.Key, error) {
	if err := CheckKeyID(keyid); err != nil {
		return keymeta.Key{}, err
	}
	data, err := os.ReadFile(s.keyFilePath(keyid))
	if err != nil {
		if os.IsNotExist(err) {
			return keymeta.Key{}, ErrNotFound
		}
		return keymeta.Key{}, err
	}
	key, err := keymeta.DecodeKey(data)
	if err != nil {
		return keymeta.Key{}, err
	}
	if key.KeyID != keyid {
		return keymeta.Key{}, ErrIdentityMismatch
	}
	derived, err := s.deriveKeyID(key)
	if err != nil {
		return keymeta.Key{}, err
	}
	if derived != keyid {
		return keymeta.Key{}, ErrIdentityMismatch
	}
	return key, nil
}

// Export returns the metadata form of a stored key as indented JSON, suitable
// for embedding in a metadata document or handing to another party.
func (s *Store) Export(keyid string, includePrivate bool) ([]byte, error) {
	key, err := s.Load(keyid)
	if err != nil {
		return nil, err
	}
	meta, err := keymeta.ToMetadata(key, includePrivate)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// List returns the keyids of all stored keys in lexicographic order. Files
// that do not look like key records are ignored.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var keyids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		keyid := strings.TrimSuffix(name, ".json")
		if CheckKeyID(keyid) != nil {
			continue
		}
		keyids = append(keyids, keyid)
	}
	sort.Strings(keyids)
	return keyids, nil
}

func (s *Store) deriveKeyID(key keymeta.Key) (string, error) {
	meta, err := keymeta.ToMetadata(key, false)
	if err != nil {
		return "", err
	}
	return keymeta.KeyIDWithOptions(meta, s.Options)
}
