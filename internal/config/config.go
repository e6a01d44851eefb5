// Package config holds the server configuration: built from defaults,
// optionally overridden by lantern.yaml, then by command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProtocolHTTP  = "http"
	ProtocolHTTPS = "https"
)

// ConfigFile is looked up in the working directory at startup.
const ConfigFile = "lantern.yaml"

// Config is constructed once before the transport starts and is
// read-only afterwards.
type Config struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Protocol   string `yaml:"protocol"` // "http" or "https"
	Root       string `yaml:"root"`
	LiveReload bool   `yaml:"liveReload"`
	CORS       bool   `yaml:"cors"`
	SPA        bool   `yaml:"spa"`

	// Watcher debounce window (default: 100ms)
	Debounce time.Duration `yaml:"debounce"`
	// Graceful shutdown timeout (default: 5s)
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Host:            "localhost",
		Port:            8080,
		Protocol:        ProtocolHTTP,
		Root:            ".",
		LiveReload:      true,
		CORS:            false,
		SPA:             false,
		Debounce:        100 * time.Millisecond,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load builds the effective configuration: defaults, then lantern.yaml
// if present, then flags parsed from args.
func Load(args []string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(ConfigFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", ConfigFile, err)
		}
		if cfg.Protocol != ProtocolHTTP && cfg.Protocol != ProtocolHTTPS {
			return nil, fmt.Errorf("%s: invalid protocol %q (want %q or %q)", ConfigFile, cfg.Protocol, ProtocolHTTP, ProtocolHTTPS)
		}
	}

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	host := fs.String("host", cfg.Host, "The host/IP to bind to")
	port := fs.Int("port", cfg.Port, "The port to listen on")
	https := fs.Bool("https", cfg.Protocol == ProtocolHTTPS, "Serve over HTTPS with a generated localhost certificate")
	root := fs.String("root", cfg.Root, "Directory to serve")
	reload := fs.Bool("livereload", cfg.LiveReload, "Push a reload signal to connected browsers on file changes")
	cors := fs.Bool("cors", cfg.CORS, "Send Access-Control-Allow-Origin: * on responses")
	spa := fs.Bool("spa", cfg.SPA, "Serve the root index.html for unresolved paths")
	debounce := fs.Duration("debounce", cfg.Debounce, "Watcher debounce window")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Host = *host
	cfg.Port = *port
	cfg.Protocol = ProtocolHTTP
	if *https {
		cfg.Protocol = ProtocolHTTPS
	}
	cfg.Root = *root
	cfg.LiveReload = *reload
	cfg.CORS = *cors
	cfg.SPA = *spa
	cfg.Debounce = *debounce

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finalize validates the configuration and resolves the root to an
// absolute path.
func (c *Config) finalize() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Protocol != ProtocolHTTP && c.Protocol != ProtocolHTTPS {
		return fmt.Errorf("invalid protocol %q (want %q or %q)", c.Protocol, ProtocolHTTP, ProtocolHTTPS)
	}

	abs, err := filepath.Abs(c.Root)
	if err != nil {
		return fmt.Errorf("resolve root %q: %w", c.Root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("root %q: %w", c.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %q is not a directory", c.Root)
	}
	c.Root = abs

	// Clamp timer values rather than failing on them.
	if c.Debounce < 0 {
		c.Debounce = 0
	}
	if c.Debounce > time.Second {
		c.Debounce = time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	return nil
}

// Addr returns the host:port the transport binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// URL returns the browsable address of the server.
func (c *Config) URL() string {
	return fmt.Sprintf("%s://%s", c.Protocol, c.Addr())
}
