// Package config resolves process settings from command-line flags, falling
// back to environment variables and then to built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ironsheep/markings-mcp/internal/markings"
	"github.com/spf13/pflag"
)

// Environment variables consulted when the matching flag is not given.
const (
	EnvLogLevel   = "MARKINGS_LOG_LEVEL"
	EnvEmbedder   = "EMBEDDER_BACKEND"
	EnvEmbedDim   = "EMBED_VECTOR_SIZE"
	EnvEmbedSeed  = "EMBED_SEED"
	DefaultEmbDim = 128
)

// Config is the resolved process configuration.
type Config struct {
	LogLevel string

	EmbedderBackend string
	EmbedDim        int
	EmbedSeed       int64

	// Engine holds the defaults tools fall back to when a call leaves a
	// parameter unset.
	Engine markings.Config

	// AnalyzePath, when set, analyzes one photo, prints JSON and exits
	// instead of serving.
	AnalyzePath string

	// DumpPatchesDir, when set together with AnalyzePath, receives one PNG
	// per selected patch.
	DumpPatchesDir string

	ShowVersion bool
	ShowHelp    bool
}

// Load parses args (without the program name) against env. env may be nil,
// in which case os.LookupEnv is used.
func Load(args []string, env func(string) (string, bool)) (*Config, *pflag.FlagSet, error) {
	if env == nil {
		env = os.LookupEnv
	}

	cfg := &Config{Engine: markings.DefaultConfig()}

	dim, err := envInt(env, EnvEmbedDim, DefaultEmbDim)
	if err != nil {
		return nil, nil, err
	}
	seed, err := envInt(env, EnvEmbedSeed, 1)
	if err != nil {
		return nil, nil, err
	}

	fs := pflag.NewFlagSet("markings-mcp", pflag.ContinueOnError)
	fs.StringVar(&cfg.LogLevel, "log-level", envString(env, EnvLogLevel, "info"), "log level: debug, info, warn, error")
	fs.StringVar(&cfg.EmbedderBackend, "embedder", envString(env, EnvEmbedder, "random"), "patch embedder backend: random, pooling")
	fs.IntVar(&cfg.EmbedDim, "embed-dim", dim, "length of patch embedding vectors")
	fs.Int64Var(&cfg.EmbedSeed, "embed-seed", int64(seed), "seed for the random embedder")

	fs.IntVar(&cfg.Engine.Bins, "bins", cfg.Engine.Bins, "bins per Lab channel in the color histogram")
	fs.IntVar(&cfg.Engine.Window, "patch-window", cfg.Engine.Window, "patch window side in working-image pixels")
	fs.IntVar(&cfg.Engine.Stride, "patch-stride", cfg.Engine.Stride, "step between patch windows")
	fs.IntVar(&cfg.Engine.K, "patch-k", cfg.Engine.K, "maximum number of patches")
	fs.Float64Var(&cfg.Engine.IoUThreshold, "iou", cfg.Engine.IoUThreshold, "overlap above which a weaker patch is suppressed")
	fs.IntVar(&cfg.Engine.WorkingSize, "working-size", cfg.Engine.WorkingSize, "shorter side of the patch search image")

	fs.StringVar(&cfg.AnalyzePath, "analyze", "", "analyze one photo, print JSON and exit")
	fs.StringVar(&cfg.DumpPatchesDir, "dump-patches", "", "with --analyze, write patch crops as PNG into this directory")
	fs.BoolVarP(&cfg.ShowVersion, "version", "v", false, "print version information")
	fs.BoolVarP(&cfg.ShowHelp, "help", "h", false, "print this help message")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	if err := cfg.Engine.Validate(); err != nil {
		return nil, fs, err
	}
	if cfg.EmbedDim <= 0 {
		return nil, fs, fmt.Errorf("embed-dim must be positive, got %d", cfg.EmbedDim)
	}
	return cfg, fs, nil
}

func envString(env func(string) (string, bool), key, def string) string {
	if v, ok := env(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(env func(string) (string, bool), key string, def int) (int, error) {
	v, ok := env(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
