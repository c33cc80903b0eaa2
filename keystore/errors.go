package keystore

import "errors"

var (
	ErrNotFound         = errors.New("keystore: key not found")
	ErrExists           = errors.New("keystore: key already exists")
	ErrIdentityMismatch = errors.New("keystore: keyid does not match stored material")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
