package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"xdao.co/keymeta/keycid"
	"xdao.co/keymeta/keymeta"
	"xdao.co/keymeta/keystore"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "generate":
		return cmdGenerate(args[1:], out, errOut)
	case "keyid":
		return cmdKeyID(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "sign":
		return cmdSign(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "export":
		return cmdExport(args[1:], out, errOut)
	case "list":
		return cmdList(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "keymeta: key identity and detached signature CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  keymeta generate --type <ed25519|rsa> [--bits <n>] [--digest <alg>] [--store <dir>] [--stdout] [--force]")
	fmt.Fprintln(w, "  keymeta keyid [--digest <alg>] <keyfile>")
	fmt.Fprintln(w, "  keymeta cid <keyfile>")
	fmt.Fprintln(w, "  keymeta sign (--id <keyid> [--store <dir>] | --key <keyfile>) <datafile>")
	fmt.Fprintln(w, "  keymeta verify (--id <keyid> [--store <dir>] | --key <keyfile>) --sig <sigfile> <datafile>")
	fmt.Fprintln(w, "  keymeta export --id <keyid> [--private] [--store <dir>]")
	fmt.Fprintln(w, "  keymeta list [--store <dir>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - <keyfile> holds a key record as JSON; public-only records verify but cannot sign")
	fmt.Fprintln(w, "  - generate stores the new key under ~/.keymeta/keys (0600 files) unless --stdout is given")
	fmt.Fprintln(w, "  - sign writes a detached signature record as JSON to stdout")
	fmt.Fprintln(w, "  - verify prints VALID or INVALID; exit status is 1 for INVALID, 2 for malformed input")
	fmt.Fprintln(w, "  - --digest selects the keyid digest: sha256 (default), sha512, sha3-256")
}

func cmdGenerate(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var keytype string
	var bits int
	var digest string
	var storeDir string
	var toStdout bool
	var force bool

	fs.StringVar(&keytype, "type", "ed25519", "Key type: ed25519 or rsa")
	fs.IntVar(&bits, "bits", 0, "RSA modulus size in bits (default 3072)")
	fs.StringVar(&digest, "digest", "", "Keyid digest algorithm (default sha256)")
	fs.StringVar(&storeDir, "store", "", "Key store directory (default ~/.keymeta/keys)")
	fs.BoolVar(&toStdout, "stdout", false, "Write the key record to stdout instead of the store")
	fs.BoolVar(&force, "force", false, "Overwrite an existing key record with the same keyid")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	parsedType, err := keymeta.ParseKeyType(keytype)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --type: %v\n", err)
		return 2
	}

	opts := keymeta.Options{KeyIDDigest: digest, RSABits: bits}
	key, err := keymeta.GenerateWithOptions(parsedType, opts)
	if err != nil {
		fmt.Fprintf(errOut, "generate: %v\n", err)
		return 1
	}

	if toStdout {
		data, merr := json.MarshalIndent(key, "", "  ")
		if merr != nil {
			fmt.Fprintf(errOut, "encode: %v\n", merr)
			return 1
		}
		fmt.Fprintf(errOut, "Key-ID: %s\n", key.KeyID)
		_, _ = out.Write(append(data, '\n'))
		return 0
	}

	store, err := keystore.Open(storeDir)
	if err != nil {
		fmt.Fprintf(errOut, "store: %v\n", err)
		return 1
	}
	store.Options = keymeta.Options{KeyIDDigest: digest}
	path, err := store.Save(key, true, force)
	if err != nil {
		fmt.Fprintf(errOut, "store key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created key: %s\n", key.KeyID)
	fmt.Fprintf(out, "Stored at: %s\n", path)
	return 0
}

func cmdKeyID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("keyid", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var digest string
	fs.StringVar(&digest, "digest", "", "Keyid digest algorithm (default sha256)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: keymeta keyid [--digest <alg>] <keyfile>")
		return 2
	}
	meta, err := loadMetadataKeyFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read key: %v\n", err)
		return 1
	}
	keyid, err := keymeta.KeyIDWithOptions(meta, keymeta.Options{KeyIDDigest: digest})
	if err != nil {
		fmt.Fprintf(errOut, "keyid: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, keyid)
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: keymeta cid <keyfile>")
		return 2
	}
	meta, err := loadMetadataKeyFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read key: %v\n", err)
		return 1
	}
	id, err := keycid.ForMetadataKey(meta)
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, id)
	return 0
}

func cmdSign(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var keyid string
	var keyFile string
	var storeDir string

	fs.StringVar(&keyid, "id", "", "Sign with a stored key by keyid")
	fs.StringVar(&keyFile, "key", "", "Sign with a key record file")
	fs.StringVar(&storeDir, "store", "", "Key store directory (default ~/.keymeta/keys)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: keymeta sign (--id <keyid> | --key <keyfile>) <datafile>")
		return 2
	}
	key, code := resolveKeyFlags(keyid, keyFile, storeDir, errOut)
	if code != 0 {
		return code
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read data: %v\n", err)
		return 1
	}

	sig, err := keymeta.Sign(key, data)
	if err != nil {
		fmt.Fprintf(errOut, "sign: %v\n", err)
		return 1
	}
	encoded, err := json.MarshalIndent(sig, "", "  ")
	if err != nil {
		fmt.Fprintf(errOut, "encode: %v\n", err)
		return 1
	}
	_, _ = out.Write(append(encoded, '\n'))
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var keyid string
	var keyFile string
	var storeDir string
	var sigFile string

	fs.StringVar(&keyid, "id", "", "Verify against a stored key by keyid")
	fs.StringVar(&keyFile, "key", "", "Verify against a key record file")
	fs.StringVar(&storeDir, "store", "", "Key store directory (default ~/.keymeta/keys)")
	fs.StringVar(&sigFile, "sig", "", "Detached signature record file")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if sigFile == "" {
		fmt.Fprintln(errOut, "missing --sig")
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: keymeta verify (--id <keyid> | --key <keyfile>) --sig <sigfile> <datafile>")
		return 2
	}
	key, code := resolveKeyFlags(keyid, keyFile, storeDir, errOut)
	if code != 0 {
		return code
	}

	sigBytes, err := os.ReadFile(sigFile)
	if err != nil {
		fmt.Fprintf(errOut, "read signature: %v\n", err)
		return 2
	}
	sig, err := keymeta.DecodeSignature(sigBytes)
	if err != nil {
		fmt.Fprintf(errOut, "invalid signature record: %v\n", err)
		return 2
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read data: %v\n", err)
		return 2
	}

	ok, err := keymeta.Verify(key, sig, data)
	if err != nil {
		fmt.Fprintf(errOut, "verify: %v\n", err)
		return 2
	}
	if !ok {
		_, _ = fmt.Fprintln(out, "INVALID")
		return 1
	}
	_, _ = fmt.Fprintln(out, "VALID")
	return 0
}

func cmdExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var keyid string
	var storeDir string
	var withPrivate bool

	fs.StringVar(&keyid, "id", "", "Keyid of the stored key")
	fs.StringVar(&storeDir, "store", "", "Key store directory (default ~/.keymeta/keys)")
	fs.BoolVar(&withPrivate, "private", false, "Include private key material in the export")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if keyid == "" {
		fmt.Fprintln(errOut, "missing --id")
		return 2
	}
	store, err := keystore.Open(storeDir)
	if err != nil {
		fmt.Fprintf(errOut, "store: %v\n", err)
		return 1
	}
	data, err := store.Export(keyid, withPrivate)
	if err != nil {
		fmt.Fprintf(errOut, "export: %v\n", err)
		return 1
	}
	_, _ = out.Write(data)
	return 0
}

func cmdList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var storeDir string
	fs.StringVar(&storeDir, "store", "", "Key store directory (default ~/.keymeta/keys)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	store, err := keystore.Open(storeDir)
	if err != nil {
		fmt.Fprintf(errOut, "store: %v\n", err)
		return 1
	}
	keyids, err := store.List()
	if err != nil {
		fmt.Fprintf(errOut, "list keys: %v\n", err)
		return 1
	}
	for _, keyid := range keyids {
		fmt.Fprintf(out, "%s\n", keyid)
	}
	return 0
}

// resolveKeyFlags turns the --id/--key flags into a key record. A nonzero
// exit code means the error was already reported to errOut.
func resolveKeyFlags(keyid, keyFile, storeDir string, errOut io.Writer) (keymeta.Key, int) {
	if keyid == "" && keyFile == "" {
		fmt.Fprintln(errOut, "missing key: use --id or --key")
		return keymeta.Key{}, 2
	}
	if keyid != "" && keyFile != "" {
		fmt.Fprintln(errOut, "conflicting key flags: --id cannot be combined with --key")
		return keymeta.Key{}, 2
	}
	if keyFile != "" {
		key, err := loadKeyFile(keyFile)
		if err != nil {
			fmt.Fprintf(errOut, "read key: %v\n", err)
			return keymeta.Key{}, 1
		}
		return key, 0
	}
	store, err := keystore.Open(storeDir)
	if err != nil {
		fmt.Fprintf(errOut, "store: %v\n", err)
		return keymeta.Key{}, 1
	}
	key, err := store.Load(keyid)
	if err != nil {
		fmt.Fprintf(errOut, "load key: %v\n", err)
		return keymeta.Key{}, 1
	}
	return key, 0
}

// loadKeyFile reads a key record file in either form: the runtime form with
// an embedded keyid, or the metadata form from which the keyid is derived.
func loadKeyFile(path string) (keymeta.Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return keymeta.Key{}, err
	}
	if key, derr := keymeta.DecodeKey(data); derr == nil {
		return key, nil
	}
	meta, err := keymeta.DecodeMetadataKey(data)
	if err != nil {
		return keymeta.Key{}, err
	}
	return keymeta.FromMetadata(meta)
}

func loadMetadataKeyFile(path string) (keymeta.MetadataKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return keymeta.MetadataKey{}, err
	}
	if meta, derr := keymeta.DecodeMetadataKey(data); derr == nil {
		return meta, nil
	}
	key, err := keymeta.DecodeKey(data)
	if err != nil {
		return keymeta.MetadataKey{}, err
	}
	return keymeta.ToMetadata(key, false)
}
