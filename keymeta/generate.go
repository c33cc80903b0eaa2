package keymeta

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"io"

	"github.com/cloudflare/circl/sign/ed25519"
)

// Generate creates a fresh key of the given family with both public and
// private material populated and the keyid derived.
func Generate(keytype KeyType) (Key, error) {
	return GenerateWithOptions(keytype, Options{})
}

// GenerateWithOptions creates a fresh key using the entropy source and
// parameters carried by opts.
//
// ed25519 keys are expanded from a 32-byte seed; the seed is the stored
// private material. RSA keys carry PKCS#1 DER for both halves.
func GenerateWithOptions(keytype KeyType, opts Options) (Key, error) {
	opts = opts.withDefaults()
	switch keytype {
	case KeyTypeEd25519:
		return generateEd25519(opts)
	case KeyTypeRSA:
		return generateRSA(opts)
	default:
		_, err := ParseKeyType(string(keytype))
		return Key{}, err
	}
}

func generateEd25519(opts Options) (Key, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(opts.Rand, seed); err != nil {
		return Key{}, wrapError(KindEntropy, "KEYMETA-GEN-301", "entropy source failed", err)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return assemble(KeyTypeEd25519, hex.EncodeToString(pub), hex.EncodeToString(seed), opts)
}

func generateRSA(opts Options) (Key, error) {
	if err := checkGenerateBits(opts.RSABits); err != nil {
		return Key{}, err
	}
	priv, err := rsa.GenerateKey(opts.Rand, opts.RSABits)
	if err != nil {
		return Key{}, wrapError(KindEntropy, "KEYMETA-GEN-301", "entropy source failed", err)
	}
	pub := x509.MarshalPKCS1PublicKey(&priv.PublicKey)
	return assemble(KeyTypeRSA, hex.EncodeToString(pub), hex.EncodeToString(x509.MarshalPKCS1PrivateKey(priv)), opts)
}

// assemble derives the keyid from the public-only projection and builds the
// runtime record. The private material is attached after derivation and
// never participates in it.
func assemble(keytype KeyType, publicHex, privateHex string, opts Options) (Key, error) {
	id, err := KeyIDWithOptions(MetadataKey{
		KeyType: keytype,
		KeyVal:  KeyVal{Public: publicHex},
	}, opts)
	if err != nil {
		return Key{}, err
	}
	return Key{
		KeyType: keytype,
		KeyID:   id,
		KeyVal:  KeyVal{Public: publicHex, Private: privateHex},
	}, nil
}
