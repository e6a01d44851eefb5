package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/lantern-dev/lantern/internal/config"
	"github.com/lantern-dev/lantern/internal/server"
	"github.com/lantern-dev/lantern/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "serve":
		runServe(args)
	case "version":
		fmt.Println("lantern", version.String())
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServe(args []string) {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printBanner(cfg)

	srv := server.New(cfg, afero.NewOsFs(), logger)
	if err := srv.Run(ctx); err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}
	fmt.Println("✅ Server stopped.")
}

func printBanner(cfg *config.Config) {
	cyan := color.New(color.FgCyan, color.Bold)
	_, _ = cyan.Printf("🏮 lantern %s\n", version.String())
	fmt.Printf("🌐 Serving %s on %s\n", cfg.Root, cfg.URL())
	if cfg.LiveReload {
		fmt.Println("   (Auto-reload enabled)")
	}
	if cfg.Host == "0.0.0.0" {
		fmt.Println("   (Accessible on your local network)")
	}
}

func printUsage() {
	fmt.Println("Usage: lantern <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  serve          Serve the current directory")
	fmt.Println("  version        Show the version")
	fmt.Println("  help           Show this help message")
	fmt.Println("\nFlags for serve:")
	fmt.Println("  -host          Host/IP to bind to (default localhost)")
	fmt.Println("  -port          Port to listen on (default 8080)")
	fmt.Println("  -root          Directory to serve (default .)")
	fmt.Println("  -https         Serve over HTTPS with a generated certificate")
	fmt.Println("  -livereload    Reload connected browsers on file changes (default true)")
	fmt.Println("  -cors          Allow cross-origin requests")
	fmt.Println("  -spa           Serve index.html for unresolved paths")
}
