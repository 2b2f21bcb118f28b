package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cipherworks/hybrid-kms/internal/audit"
	"github.com/cipherworks/hybrid-kms/internal/registry"
)

// Config holds the server configuration.
type Config struct {
	// Host is the address to bind to (default: "").
	Host string `yaml:"host"`

	// Port is the HTTP port.
	Port int `yaml:"port"`

	// AuditLog is the path to the audit log file (optional).
	AuditLog string `yaml:"audit_log"`

	// Timeouts
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:            "",
		Port:            8470,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// LoadConfig reads a YAML config file, applying defaults for absent fields.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Address returns the full listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Server is the key-management HTTP server.
type Server struct {
	cfg     *Config
	version string
	srv     *http.Server
}

// NewServer creates a Server serving the given registry's key types.
func NewServer(cfg *Config, reg *registry.Registry, version string) *Server {
	return &Server{
		cfg:     cfg,
		version: version,
		srv: &http.Server{
			Addr:         cfg.Address(),
			Handler:      NewRouter(reg, version),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start() error {
	if err := audit.LogServerStarted(s.cfg.Address()); err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)
		return s.Shutdown()
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Println("Server stopped gracefully")
	return nil
}
