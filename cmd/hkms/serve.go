package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cipherworks/hybrid-kms/internal/api"
	"github.com/cipherworks/hybrid-kms/internal/audit"
)

var (
	serveConfigPath string
	servePort       int
	serveHost       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the key-management REST API server",
	Long: `Run the REST API server for key generation and public-key projection.

Configuration is read from a YAML file; flags override file values.

Endpoints:
  GET  /health                    - Health check
  GET  /ready                     - Readiness check
  POST /api/v1/keys/generate      - Generate a new key
  GET  /api/v1/keys               - List keys
  GET  /api/v1/keys/{id}/public   - Public key envelope

Examples:
  hkms serve --port 8470
  hkms serve --config server.yaml`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := api.DefaultConfig()
	if serveConfigPath != "" {
		loaded, err := api.LoadConfig(serveConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("host") {
		cfg.Host = serveHost
	}

	// The server keeps its own audit log if configured and none was given
	// on the command line.
	if cfg.AuditLog != "" && !audit.Enabled() {
		if err := audit.InitFile(cfg.AuditLog); err != nil {
			return fmt.Errorf("failed to initialize audit log: %w", err)
		}
	}

	reg, err := newRegistry()
	if err != nil {
		return err
	}

	fmt.Printf("hkms API server %s listening on %s\n", version, cfg.Address())
	return api.NewServer(cfg, reg, version).Start()
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to YAML config file")
	serveCmd.Flags().IntVar(&servePort, "port", 8470, "Listen port")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host")
}
