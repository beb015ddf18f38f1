package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ironsheep/markings-mcp/internal/config"
	"github.com/ironsheep/markings-mcp/internal/embedding"
	"github.com/ironsheep/markings-mcp/internal/imaging"
	"github.com/ironsheep/markings-mcp/internal/logging"
	"github.com/ironsheep/markings-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, fs, err := config.Load(os.Args[1:], nil)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(fs)
			return
		}
		fmt.Fprintf(os.Stderr, "markings-mcp: %v\n", err)
		os.Exit(2)
	}

	if cfg.ShowVersion {
		fmt.Printf("markings-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}
	if cfg.ShowHelp {
		printHelp(fs)
		return
	}

	// Logs go to stderr; stdout is for the MCP protocol
	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "markings-mcp: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync() //nolint:errcheck

	embedder, err := embedding.New(cfg.EmbedderBackend, cfg.EmbedDim, cfg.EmbedSeed)
	if err != nil {
		logger.Fatal("failed to create embedder", zap.Error(err))
	}

	if cfg.AnalyzePath != "" {
		if err := analyze(cfg, embedder, logger); err != nil {
			logger.Fatal("analysis failed", zap.String("path", cfg.AnalyzePath), zap.Error(err))
		}
		return
	}

	logger.Debug("starting markings MCP server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit),
		zap.String("embedder", cfg.EmbedderBackend),
		zap.Int("embed_dim", embedder.Dim()),
	)

	srv := server.New(server.Options{
		Embedder: embedder,
		Defaults: &cfg.Engine,
		Logger:   logger,
		Version:  Version,
	})
	if err := srv.Run(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// analyze runs the full pipeline on one photo and prints the result as JSON.
// With --dump-patches every patch is also written out as a PNG.
func analyze(cfg *config.Config, e embedding.Embedder, logger *zap.Logger) error {
	cache := imaging.NewPhotoCache()
	img, err := cache.Load(cfg.AnalyzePath)
	if err != nil {
		return err
	}

	result, err := server.AnalyzePhoto(img, cfg.Engine, e, true)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if cfg.DumpPatchesDir == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.DumpPatchesDir, 0o755); err != nil {
		return fmt.Errorf("failed to create patch directory: %w", err)
	}

	for i, p := range result.Patches {
		crop, err := imaging.Crop(result.Working, p.Rect())
		if err != nil {
			return fmt.Errorf("patch %d: %w", i, err)
		}
		name := filepath.Join(cfg.DumpPatchesDir, fmt.Sprintf("patch_%02d.png", i))
		if err := imgio.Save(name, crop, imgio.PNGEncoder()); err != nil {
			return fmt.Errorf("patch %d: %w", i, err)
		}
		logger.Debug("wrote patch", zap.String("file", name), zap.Float64("score", p.Score))
	}
	return nil
}

func printHelp(fs *pflag.FlagSet) {
	fmt.Println("markings-mcp - MCP server for pet coat marking fingerprints")
	fmt.Println()
	fmt.Println("Usage: markings-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Print(fs.FlagUsages())
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug          Log level (flag: --log-level)\n", config.EnvLogLevel)
	fmt.Printf("  %s=pooling          Embedder backend (flag: --embedder)\n", config.EnvEmbedder)
	fmt.Printf("  %s=128             Embedding length (flag: --embed-dim)\n", config.EnvEmbedDim)
	fmt.Printf("  %s=1                      Random embedder seed (flag: --embed-seed)\n", config.EnvEmbedSeed)
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
