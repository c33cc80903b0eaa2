package keymeta

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func vectorPath(name string) string {
	return filepath.Join("..", "testdata", "conformance", "keyid", name)
}

func readVector(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(vectorPath(name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return b
}

func readVectorString(t *testing.T, name string) string {
	t.Helper()
	s := strings.TrimSpace(string(readVector(t, name)))
	if s == "" {
		t.Fatalf("empty vector %s", name)
	}
	return s
}

func TestConformanceVectors_KeyID_Ed25519(t *testing.T) {
	meta, err := DecodeMetadataKey(readVector(t, "ed25519_1.json"))
	if err != nil {
		t.Fatalf("DecodeMetadataKey: %v", err)
	}

	canon, err := CanonicalPublicBytes(meta)
	if err != nil {
		t.Fatalf("CanonicalPublicBytes: %v", err)
	}
	if !bytes.Equal(canon, readVector(t, "ed25519_1.canonical")) {
		t.Fatalf("canonical bytes mismatch:\n got %s", canon)
	}

	id, err := KeyID(meta)
	if err != nil {
		t.Fatalf("KeyID: %v", err)
	}
	if want := readVectorString(t, "ed25519_1.keyid"); id != want {
		t.Fatalf("keyid mismatch: got %s want %s", id, want)
	}

	for digest, file := range map[string]string{
		"sha512":   "ed25519_1.keyid_sha512",
		"sha3-256": "ed25519_1.keyid_sha3_256",
	} {
		id, err := KeyIDWithOptions(meta, Options{KeyIDDigest: digest})
		if err != nil {
			t.Fatalf("KeyIDWithOptions(%s): %v", digest, err)
		}
		if want := readVectorString(t, file); id != want {
			t.Fatalf("%s keyid mismatch: got %s want %s", digest, id, want)
		}
	}
}

func TestConformanceVectors_KeyID_RSA(t *testing.T) {
	meta, err := DecodeMetadataKey(readVector(t, "rsa_1.json"))
	if err != nil {
		t.Fatalf("DecodeMetadataKey: %v", err)
	}

	canon, err := CanonicalPublicBytes(meta)
	if err != nil {
		t.Fatalf("CanonicalPublicBytes: %v", err)
	}
	if !bytes.Equal(canon, readVector(t, "rsa_1.canonical")) {
		t.Fatalf("canonical bytes mismatch")
	}

	id, err := KeyID(meta)
	if err != nil {
		t.Fatalf("KeyID: %v", err)
	}
	if want := readVectorString(t, "rsa_1.keyid"); id != want {
		t.Fatalf("keyid mismatch: got %s want %s", id, want)
	}
}

// The pinned ed25519 signature was produced by an independent implementation;
// signing here must reproduce it byte for byte, and it must verify.
func TestConformanceVectors_Signature_Ed25519(t *testing.T) {
	meta, err := DecodeMetadataKey(readVector(t, "ed25519_1.json"))
	if err != nil {
		t.Fatalf("DecodeMetadataKey: %v", err)
	}
	key, err := FromMetadata(meta)
	if err != nil {
		t.Fatalf("FromMetadata: %v", err)
	}
	message := readVector(t, "message.bin")

	want, err := DecodeSignature(readVector(t, "ed25519_1.sig.json"))
	if err != nil {
		t.Fatalf("DecodeSignature: %v", err)
	}

	ok, err := Verify(key, want, message)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("pinned signature did not verify")
	}

	got, err := Sign(key, message)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if got != want {
		t.Fatalf("signature mismatch:\n got %+v\nwant %+v", got, want)
	}
}

// RSA-PSS is randomized, so the pinned record only needs to verify.
func TestConformanceVectors_Signature_RSA(t *testing.T) {
	meta, err := DecodeMetadataKey(readVector(t, "rsa_1.json"))
	if err != nil {
		t.Fatalf("DecodeMetadataKey: %v", err)
	}
	key, err := FromMetadata(meta)
	if err != nil {
		t.Fatalf("FromMetadata: %v", err)
	}
	message := readVector(t, "message.bin")

	pinned, err := DecodeSignature(readVector(t, "rsa_1.sig.json"))
	if err != nil {
		t.Fatalf("DecodeSignature: %v", err)
	}
	ok, err := Verify(key, pinned, message)
	if err != nil {
		t.Fatalf("Verify(pinned): %v", err)
	}
	if !ok {
		t.Fatalf("pinned rsa-pss signature did not verify")
	}

	fresh, err := Sign(key, message)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	ok, err = Verify(key, fresh, message)
	if err != nil {
		t.Fatalf("Verify(fresh): %v", err)
	}
	if !ok {
		t.Fatalf("fresh rsa-pss signature did not verify")
	}
}
