// keymeta_vector_gen regenerates the conformance vectors under
// testdata/conformance/keyid. Key material is fixed so the derived
// identities and the ed25519 signature are reproducible byte for byte.
// RSA-PSS signatures are salted, so regeneration replaces rsa_1.sig.json
// with a different but equally valid record.
package main

import (
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"xdao.co/keymeta/keycid"
	"xdao.co/keymeta/keymeta"
)

const message = "hello"

// rsaPrivateHex is the fixed 2048-bit PKCS#1 private key behind the rsa_1
// vector. The public half and all derived values are recomputed from it.
const rsaPrivateHex = `
308204a30201000282010100c202baf7b57fe9e43f34eb7625afbf4eebbfcd70d9c41ccf5a7603c53812afce5351fbb2
3fb84f1447eb39d7baf8f0ca05cf370be8f50e4892e0929ca4d3e15cb4f7728e0a00f3b87f90f22d7d88299b6629dcab
809dcf2bd7c666796843deef00282d90064df5911871d76fbdd472706803bd7efc03972883c45cf16e582dfa4f779bd0
3a9ceb827e515409bdef53a6403695742773563eb37c5b0495efe1d70f5631827b8492e72fb8bf2f91bcf02220af604c
bc772f7cfd4036be49559e1a32f3c9386a383b2e3802c225366ef104fc48764f44813ee735f568353e322efe0bc0d037
044df093e2138fe74f7b1d92df9f68f2a60bef5495110eae09bd4ff702030100010282010000a0894c8201d8568707c6
4265abc996ae8cba541a3817e469aff0f7830f6311c128db833f7bcfdc4a6be30e249f67b3d7774c7fc03083ebcdcc66
5ceaec23bc822491f26340e3de1da21bce4980c100576bb23811b1db8e12394f727c03a025adf3f34b15b777203c1a7e
18f132f86db995ad82a010e8e7ab7407dd8b3eee0dc6cbe313a6221e9db30501ec9868a1ec41bea589e7d38d900414fe
1dc69b4bee9862d7619ce61488b5f72f0d789ecdfd3b3d876c5ffe0f56bd89420f4f707729993bfd6ae51e4f5b648c2b
30604266872acfc0f6d699d75616ef1cfdd4635690bc246186ede34ca633fdb37c554b830d2ef395c07525973734b7be
f5ad85579502818100e792a2d604893dd38d9d189139e168b88712447a84614db83f98b817bc39b421a1018879572151
28db25facb3291b028ed2cd5254c554c78b94ac10db88ac06e6115ac8e57f7845fd362f5564c96ed7f91ced98b23de9b
19bbd4d824d82c90198511f488cfc4cae928ec20eed327e93af66ce244c6b4983265b852b2b94d543b02818100d679c5
5f117f5615b3393c26f159736bcf02f109b6414c85455a07e9c2dd34e392dd1947a5431c8859f0003a1116c64644845c
2382f15916242310b294b05b7a98f6192d8d7923ee217a74218e7831f768f58d8c7536f5422c563abb8be3088c41a89c
76b7952fefa3b7e08726e90ad128ec6394d162959def5abc467749637502818100d6085d02cc6c80bd708d3b70b6fb94
cbc0e3ec7104bbde96a6092455a3bdfdb47b58ac67e25543eb2c2a3d53e3e86dd655e87314a729cba56535279be3ee32
8f92a1f2bc19a8072c7e775f64a523765dcb49511e5e47d838ffb769131cce8b5d5af5ce7b48f58dc9d4edf23e6ae1df
9a84bafca32eb92a56a257abefce7f1f930281807a4f4b4d61ef1a2a99e0a3fb195c07c48d7381fe25dfab41bd41108e
30c071aeee4c0464a54c567333c6f87a24d0b615d071231265543997b4d80267b4ffb5cb7e7ba9f41e5fdd2baa0fe936
51c71dc79825a0a95f170e5ac46a10686fe7f331f927acc2cf02d7297456224730db697dca36b4bb63853309b43c2c6e
8b0c611902818013c52c66fbb8583d7ff3d454e98b961f685180ae8a2b27704067f87b7ba05337af8a6d528a5a088e09
e8e59758233af514d39a83b72f260e51ef7c05b322f6e4ed9c1e613e770e9739158cfcb55c6f896a261b804d74988699
82319888edf2917426431fa8d6ed227e0232d4cfb0cc53265ef2a82ff291e09ff166e70ac90b8f`

// constReader fills every read with the same byte, so an ed25519 seed read
// from it is that byte repeated.
type constReader struct{ b byte }

func (r constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
	}
	return len(p), nil
}

func main() {
	outDir := flag.String("out", filepath.Join("testdata", "conformance", "keyid"), "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatalf("mkdir: %v", err)
	}
	writeFile(*outDir, "message.bin", []byte(message))

	edKey, err := keymeta.GenerateWithOptions(keymeta.KeyTypeEd25519, keymeta.Options{Rand: constReader{b: 0xA1}})
	if err != nil {
		fatalf("generate ed25519: %v", err)
	}
	emitKey(*outDir, "ed25519_1", edKey)
	for _, digest := range []string{"sha512", "sha3-256"} {
		meta, merr := keymeta.ToMetadata(edKey, false)
		if merr != nil {
			fatalf("to metadata: %v", merr)
		}
		keyid, derr := keymeta.KeyIDWithOptions(meta, keymeta.Options{KeyIDDigest: digest})
		if derr != nil {
			fatalf("keyid %s: %v", digest, derr)
		}
		suffix := strings.ReplaceAll(digest, "-", "_")
		writeFile(*outDir, "ed25519_1.keyid_"+suffix, []byte(keyid+"\n"))
	}
	emitSig(*outDir, "ed25519_1", edKey)

	rsaKey, err := rsaKeyFromPrivateHex()
	if err != nil {
		fatalf("rsa key: %v", err)
	}
	emitKey(*outDir, "rsa_1", rsaKey)
	emitSig(*outDir, "rsa_1", rsaKey)
}

func rsaKeyFromPrivateHex() (keymeta.Key, error) {
	privHex := strings.ReplaceAll(strings.TrimSpace(rsaPrivateHex), "\n", "")
	der, err := hex.DecodeString(privHex)
	if err != nil {
		return keymeta.Key{}, err
	}
	priv, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return keymeta.Key{}, err
	}
	pubHex := hex.EncodeToString(x509.MarshalPKCS1PublicKey(&priv.PublicKey))
	return keymeta.FromMetadata(keymeta.MetadataKey{
		KeyType: keymeta.KeyTypeRSA,
		KeyVal:  keymeta.KeyVal{Public: pubHex, Private: privHex},
	})
}

func emitKey(outDir, name string, key keymeta.Key) {
	meta, err := keymeta.ToMetadata(key, true)
	if err != nil {
		fatalf("to metadata %s: %v", name, err)
	}
	record, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		fatalf("encode %s: %v", name, err)
	}
	writeFile(outDir, name+".json", append(record, '\n'))

	canonical, err := keymeta.CanonicalPublicBytes(meta)
	if err != nil {
		fatalf("canonical %s: %v", name, err)
	}
	writeFile(outDir, name+".canonical", canonical)
	writeFile(outDir, name+".keyid", []byte(key.KeyID+"\n"))

	id, err := keycid.ForKey(key)
	if err != nil {
		fatalf("cid %s: %v", name, err)
	}
	fmt.Printf("%s keyid=%s cid=%s\n", name, key.KeyID, id)
}

func emitSig(outDir, name string, key keymeta.Key) {
	sig, err := keymeta.Sign(key, []byte(message))
	if err != nil {
		fatalf("sign %s: %v", name, err)
	}
	ok, err := keymeta.Verify(key, sig, []byte(message))
	if err != nil {
		fatalf("verify %s: %v", name, err)
	}
	if !ok {
		fatalf("verify %s: signature did not verify", name)
	}
	record, err := json.MarshalIndent(sig, "", "  ")
	if err != nil {
		fatalf("encode sig %s: %v", name, err)
	}
	writeFile(outDir, name+".sig.json", append(record, '\n'))
}

func writeFile(outDir, name string, data []byte) {
	if err := os.WriteFile(filepath.Join(outDir, name), data, 0o644); err != nil {
		fatalf("write %s: %v", name, err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
