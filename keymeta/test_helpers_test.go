package keymeta

import (
	"errors"
	"testing"
)

// deterministicReader yields a repeatable byte stream for fixed-seed key
// generation in tests.
type deterministicReader struct{ b byte }

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errNoEntropy
}

var errNoEntropy = errors.New("test reader: no entropy")

func mustGenerate(t *testing.T, keytype KeyType) Key {
	t.Helper()
	var opts Options
	if keytype == KeyTypeRSA {
		opts.RSABits = 2048
	}
	key, err := GenerateWithOptions(keytype, opts)
	if err != nil {
		t.Fatalf("GenerateWithOptions(%s): %v", keytype, err)
	}
	return key
}

func mustGenerateSeeded(t *testing.T, seedByte byte) Key {
	t.Helper()
	key, err := GenerateWithOptions(KeyTypeEd25519, Options{Rand: &deterministicReader{b: seedByte}})
	if err != nil {
		t.Fatalf("GenerateWithOptions(ed25519, seeded): %v", err)
	}
	return key
}

func mustSign(t *testing.T, key Key, data []byte) Signature {
	t.Helper()
	sig, err := Sign(key, data)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return sig
}

func mustVerify(t *testing.T, key Key, sig Signature, data []byte) bool {
	t.Helper()
	ok, err := Verify(key, sig, data)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	return ok
}

func mustKind(t *testing.T, err error, kind Kind, ruleID string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with kind %s", kind)
	}
	if !IsKind(err, kind) {
		t.Fatalf("expected kind %s, got %v", kind, err)
	}
	if ruleID != "" && RuleID(err) != ruleID {
		t.Fatalf("expected RuleID %s, got %s", ruleID, RuleID(err))
	}
}

// flipHexChar returns a different lower-case hex digit.
func flipHexChar(c byte) string {
	if c == 'a' {
		return "b"
	}
	return "a"
}
