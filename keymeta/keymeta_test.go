package keymeta

import (
	"encoding/json"
	"testing"
)

func TestParseKeyType_ClosedSet(t *testing.T) {
	for _, s := range []string{"ed25519", "rsa"} {
		if _, err := ParseKeyType(s); err != nil {
			t.Fatalf("ParseKeyType(%q): %v", s, err)
		}
	}
	for _, s := range []string{"", "Ed25519", "RSA", "ecdsa", "ed25519 "} {
		_, err := ParseKeyType(s)
		mustKind(t, err, KindFormat, "KEYMETA-SCHEMA-003")
	}
}

func TestParseMethod_ClosedSet(t *testing.T) {
	for _, s := range []string{"ed25519", "rsassa-pss-sha256"} {
		if _, err := ParseMethod(s); err != nil {
			t.Fatalf("ParseMethod(%q): %v", s, err)
		}
	}
	for _, s := range []string{"", "ED25519", "rsassa-pss-SHA256", "rsa"} {
		_, err := ParseMethod(s)
		mustKind(t, err, KindUnknownMethod, "KEYMETA-VERIFY-501")
	}
}

func TestDecodeMetadataKey_RoundTrip(t *testing.T) {
	key := mustGenerateSeeded(t, 0x21)
	meta, err := ToMetadata(key, true)
	if err != nil {
		t.Fatalf("ToMetadata: %v", err)
	}
	b, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := DecodeMetadataKey(b)
	if err != nil {
		t.Fatalf("DecodeMetadataKey: %v", err)
	}
	if got != meta {
		t.Fatalf("decode round trip mismatch")
	}
}

func TestDecodeMetadataKey_RejectsUnknownField(t *testing.T) {
	_, err := DecodeMetadataKey([]byte(`{"keytype":"ed25519","keyid":"aa","keyval":{"public":"aabb","private":""}}`))
	mustKind(t, err, KindFormat, "KEYMETA-SCHEMA-040")
}

func TestDecodeMetadataKey_RejectsWrongType(t *testing.T) {
	_, err := DecodeMetadataKey([]byte(`{"keytype":7,"keyval":{"public":"aabb","private":""}}`))
	mustKind(t, err, KindFormat, "KEYMETA-SCHEMA-040")
}

func TestDecodeMetadataKey_RejectsTrailingContent(t *testing.T) {
	_, err := DecodeMetadataKey([]byte(`{"keytype":"ed25519","keyval":{"public":"aabb","private":""}} {}`))
	mustKind(t, err, KindFormat, "KEYMETA-SCHEMA-041")
}

func TestDecodeKey_ShapeChecked(t *testing.T) {
	key := mustGenerateSeeded(t, 0x22)
	b, err := json.Marshal(key)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := DecodeKey(b)
	if err != nil {
		t.Fatalf("DecodeKey: %v", err)
	}
	if got != key {
		t.Fatalf("decode round trip mismatch")
	}

	_, err = DecodeKey([]byte(`{"keytype":"ed25519","keyid":"","keyval":{"public":"aabb","private":""}}`))
	mustKind(t, err, KindFormat, "KEYMETA-SCHEMA-020")
}

func TestDecodeSignature_ShapeChecked(t *testing.T) {
	key := mustGenerateSeeded(t, 0x23)
	sig := mustSign(t, key, []byte("hello"))
	b, err := json.Marshal(sig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := DecodeSignature(b)
	if err != nil {
		t.Fatalf("DecodeSignature: %v", err)
	}
	if got != sig {
		t.Fatalf("decode round trip mismatch")
	}

	_, err = DecodeSignature([]byte(`{"keyid":"aa","method":"ed25519","sig":""}`))
	mustKind(t, err, KindFormat, "KEYMETA-SCHEMA-033")

	_, err = DecodeSignature([]byte(`not json`))
	mustKind(t, err, KindFormat, "KEYMETA-SCHEMA-040")
}

// Decoding accepts an unrecognized method so that the verifier can reject it
// as KindUnknownMethod rather than a shape violation.
func TestDecodeSignature_UnknownMethodPassesShape(t *testing.T) {
	sig, err := DecodeSignature([]byte(`{"keyid":"aabb","method":"sphincs+","sig":"cafe"}`))
	if err != nil {
		t.Fatalf("DecodeSignature: %v", err)
	}
	key := mustGenerateSeeded(t, 0x24)
	_, verr := Verify(key, sig, []byte("hello"))
	mustKind(t, verr, KindUnknownMethod, "KEYMETA-VERIFY-501")
}
