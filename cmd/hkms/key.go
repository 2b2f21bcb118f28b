package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cipherworks/hybrid-kms/internal/audit"
	"github.com/cipherworks/hybrid-kms/internal/cosekey"
	"github.com/cipherworks/hybrid-kms/internal/curve"
	"github.com/cipherworks/hybrid-kms/internal/ecies"
	"github.com/cipherworks/hybrid-kms/internal/keyset"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Key management commands",
	Long:  `Commands for generating and managing hybrid-encryption keys.`,
}

var (
	keyGenCurve      string
	keyGenHash       string
	keyGenOut        string
	keyGenPassphrase string
)

var keyGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a hybrid-encryption private key",
	Long: `Generate a new ECIES-AEAD-HKDF private key and store it at rest.

With --passphrase the keyset file is encrypted (scrypt + XChaCha20-Poly1305).
Use "env:VAR_NAME" to read the passphrase from the environment.

Supported curves:
  p256    - NIST P-256 (default)
  p384    - NIST P-384
  p521    - NIST P-521
  x25519  - Curve25519

Examples:
  hkms key gen --curve p384 --out key.hks
  export HKMS_PASSPHRASE="****"
  hkms key gen --curve p256 --out key.hks --passphrase env:HKMS_PASSPHRASE`,
	RunE: runKeyGen,
}

var (
	keyPubIn         string
	keyPubOut        string
	keyPubFormat     string
	keyPubPassphrase string
)

var keyPubCmd = &cobra.Command{
	Use:   "pub",
	Short: "Project the public key out of a private key",
	Long: `Extract the public-key envelope from a stored private key.

The public key embedded at generation time is projected as-is; no curve
math is re-derived.

Formats:
  envelope - type-tagged key data envelope (default)
  cose     - COSE_Key (NIST curves only)

Examples:
  hkms key pub --key key.hks --out pub.hks
  hkms key pub --key key.hks --format cose --out pub.cose`,
	RunE: runKeyPub,
}

var keyInfoPassphrase string

var keyInfoCmd = &cobra.Command{
	Use:   "info <keyfile>",
	Short: "Display information about a stored key",
	Long: `Display information about a stored key envelope.

Shows key type, material classification, and for hybrid keys the curve and
HKDF hash. Private key material is never printed.

Examples:
  hkms key info key.hks
  hkms key info key.hks --passphrase env:HKMS_PASSPHRASE`,
	Args: cobra.ExactArgs(1),
	RunE: runKeyInfo,
}

func runKeyGen(cmd *cobra.Command, args []string) error {
	if keyGenOut == "" {
		return fmt.Errorf("--out is required")
	}
	curveID, err := curve.ParseID(keyGenCurve)
	if err != nil {
		return err
	}
	hash := ecies.HashType(keyGenHash)
	if !hash.IsValid() {
		return fmt.Errorf("unsupported HKDF hash: %q", keyGenHash)
	}

	reg, err := newRegistry()
	if err != nil {
		return err
	}

	format := ecies.NewKeyFormat(curveID, hash)
	serializedFormat, err := format.Marshal()
	if err != nil {
		return err
	}

	kd, err := reg.NewKeyData(ecies.PrivateKeyTypeURL, serializedFormat)
	if err != nil {
		_ = audit.LogKeyGenerated("", ecies.PrivateKeyTypeURL, keyGenCurve, keyGenHash, false)
		return err
	}
	if err := audit.LogKeyGenerated(keyGenOut, kd.TypeURL, keyGenCurve, keyGenHash, true); err != nil {
		return err
	}

	passphrase := keyset.ResolvePassphrase(keyGenPassphrase)
	if err := keyset.Save(keyGenOut, kd, passphrase); err != nil {
		return err
	}
	if err := audit.LogKeysetSaved(keyGenOut, keyGenOut, len(passphrase) > 0, true); err != nil {
		return err
	}

	fmt.Printf("Generated %s key: %s\n", keyGenCurve, keyGenOut)
	if len(passphrase) == 0 {
		fmt.Println("Warning: keyset saved unencrypted; use --passphrase for private keys")
	}
	return nil
}

func runKeyPub(cmd *cobra.Command, args []string) error {
	if keyPubIn == "" || keyPubOut == "" {
		return fmt.Errorf("--key and --out are required")
	}

	kd, err := keyset.Load(keyPubIn, keyset.ResolvePassphrase(keyPubPassphrase))
	if err != nil {
		_ = audit.LogAuthFailed(keyPubIn, err.Error())
		return err
	}

	reg, err := newRegistry()
	if err != nil {
		return err
	}
	pubData, err := reg.PublicKeyData(kd)
	if err != nil {
		return err
	}
	if err := audit.LogPublicKeyExported(keyPubIn, kd.TypeURL, true); err != nil {
		return err
	}

	switch keyPubFormat {
	case "envelope", "":
		if err := keyset.Save(keyPubOut, pubData, nil); err != nil {
			return err
		}
	case "cose":
		pub, err := ecies.ParsePublicKey(pubData.Value)
		if err != nil {
			return err
		}
		encoded, err := cosekey.Export(pub)
		if err != nil {
			return err
		}
		if err := os.WriteFile(keyPubOut, encoded, 0644); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format: %q", keyPubFormat)
	}

	fmt.Printf("Public key written to %s\n", keyPubOut)
	return nil
}

func runKeyInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	kd, err := keyset.Load(path, keyset.ResolvePassphrase(keyInfoPassphrase))
	if err != nil {
		_ = audit.LogAuthFailed(path, err.Error())
		return err
	}
	if err := audit.LogKeyAccessed(path, kd.TypeURL, path, true); err != nil {
		return err
	}

	fmt.Printf("Type URL:      %s\n", kd.TypeURL)
	fmt.Printf("Material type: %s\n", kd.MaterialType)

	switch kd.TypeURL {
	case ecies.PrivateKeyTypeURL:
		key, err := ecies.ParsePrivateKey(kd.Value)
		if err != nil {
			return err
		}
		printParams(key.PublicKey)
	case ecies.PublicKeyTypeURL:
		key, err := ecies.ParsePublicKey(kd.Value)
		if err != nil {
			return err
		}
		printParams(key)
		fmt.Printf("X:             %s\n", base64.RawURLEncoding.EncodeToString(key.X))
		if len(key.Y) > 0 {
			fmt.Printf("Y:             %s\n", base64.RawURLEncoding.EncodeToString(key.Y))
		}
	}
	return nil
}

func printParams(pub *ecies.PublicKey) {
	fmt.Printf("Version:       %d\n", pub.Version)
	fmt.Printf("Curve:         %s\n", pub.Params.KEM.Curve)
	fmt.Printf("HKDF hash:     %s\n", pub.Params.KEM.HKDFHash)
	fmt.Printf("DEM AEAD:      %s\n", pub.Params.DEM.AEAD.TypeURL)
	fmt.Printf("Point format:  %s\n", pub.Params.PointFormat)
}

func init() {
	keyGenCmd.Flags().StringVar(&keyGenCurve, "curve", "p256", "Curve for the new key")
	keyGenCmd.Flags().StringVar(&keyGenHash, "hash", "sha256", "HKDF hash for the new key")
	keyGenCmd.Flags().StringVar(&keyGenOut, "out", "", "Output keyset file")
	keyGenCmd.Flags().StringVar(&keyGenPassphrase, "passphrase", "", "Keyset passphrase (or env:VAR)")

	keyPubCmd.Flags().StringVar(&keyPubIn, "key", "", "Private keyset file")
	keyPubCmd.Flags().StringVar(&keyPubOut, "out", "", "Output file")
	keyPubCmd.Flags().StringVar(&keyPubFormat, "format", "envelope", "Output format: envelope or cose")
	keyPubCmd.Flags().StringVar(&keyPubPassphrase, "passphrase", "", "Keyset passphrase (or env:VAR)")

	keyInfoCmd.Flags().StringVar(&keyInfoPassphrase, "passphrase", "", "Keyset passphrase (or env:VAR)")

	keyCmd.AddCommand(keyGenCmd)
	keyCmd.AddCommand(keyPubCmd)
	keyCmd.AddCommand(keyInfoCmd)
}
