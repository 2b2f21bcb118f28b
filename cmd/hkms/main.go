// Command hkms is the CLI tool for the hybrid key-management service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cipherworks/hybrid-kms/internal/audit"
	"github.com/cipherworks/hybrid-kms/internal/ecies"
	"github.com/cipherworks/hybrid-kms/internal/registry"
)

// Build-time variables (injected by GoReleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var auditLogPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hkms",
	Short: "Hybrid KMS - key management for hybrid-encryption key types",
	Long: `hkms manages ECIES-AEAD-HKDF hybrid-encryption keys: generation,
validation, storage at rest, and public-key projection for distribution.

Supported curves: p256, p384, p521, x25519
Supported HKDF hashes: sha256, sha384, sha512

Examples:
  # Generate a private key, encrypted at rest
  export HKMS_PASSPHRASE="****"
  hkms key gen --curve p256 --out key.hks --passphrase env:HKMS_PASSPHRASE

  # Project the public key for distribution
  hkms key pub --key key.hks --passphrase env:HKMS_PASSPHRASE --out pub.hks

  # Export the public key as a COSE_Key
  hkms key pub --key key.hks --passphrase env:HKMS_PASSPHRASE --format cose --out pub.cose

  # Run the REST API server
  hkms serve --config server.yaml`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Check for audit log path from environment if not set via flag
		if auditLogPath == "" {
			auditLogPath = os.Getenv("HKMS_AUDIT_LOG")
		}

		// Initialize audit logging
		if auditLogPath != "" {
			if err := audit.InitFile(auditLogPath); err != nil {
				return fmt.Errorf("failed to initialize audit log: %w", err)
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		// Close audit log
		return audit.Close()
	},
}

// newRegistry builds the process registry with the hybrid key types.
func newRegistry() (*registry.Registry, error) {
	reg := registry.New()
	if err := reg.Register(ecies.NewPrivateKeyManager()); err != nil {
		return nil, err
	}
	if err := reg.Register(ecies.NewPublicKeyManager()); err != nil {
		return nil, err
	}
	return reg, nil
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "",
		"Path to audit log file (or set HKMS_AUDIT_LOG env var)")

	rootCmd.AddCommand(keyCmd)   // hkms key ...
	rootCmd.AddCommand(serveCmd) // hkms serve
}
