package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AlyamanMas/crate2nix/pkg/cache"
	"github.com/AlyamanMas/crate2nix/pkg/checksum"
	"github.com/AlyamanMas/crate2nix/pkg/errors"
	pkgio "github.com/AlyamanMas/crate2nix/pkg/io"
	"github.com/AlyamanMas/crate2nix/pkg/metadata"
	"github.com/AlyamanMas/crate2nix/pkg/resolve"
)

// Cache backend names accepted by --cache.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	manifestPath string // path to the root Cargo.toml
	output       string // output file path (stdout if empty)
	cacheBackend string // metadata cache backend: file, redis, none
	redisAddr    string // redis address for the redis backend
	refresh      bool   // bypass the metadata cache
	noChecksums  bool   // skip filling sha256 values from Cargo.lock
	cargoBin     string // cargo executable to invoke
}

// generateCommand creates the generate command.
//
// Default options:
//   - manifest-path: ./Cargo.toml
//   - cache: file (under the user cache directory)
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{
		manifestPath: "./Cargo.toml",
		cacheBackend: cacheBackendFile,
		redisAddr:    "localhost:6379",
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate derivation descriptors for a Cargo workspace",
		Long: `Generate derivation descriptors for a Cargo workspace.

The command invokes "cargo metadata" for the given manifest, flattens the
resolved dependency graph into one descriptor per crate, fills in crate
checksums from the sibling Cargo.lock, and writes the result as JSON.

Examples:
  crate2nix generate                                  # ./Cargo.toml to stdout
  crate2nix generate -o crates.json                   # write to a file
  crate2nix generate --manifest-path sub/Cargo.toml   # another workspace
  crate2nix generate --cache redis --refresh          # shared cache, fresh query`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.manifestPath, "manifest-path", opts.manifestPath, "path to the root Cargo.toml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.cacheBackend, "cache", opts.cacheBackend, "metadata cache backend: file, redis, none")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", opts.redisAddr, "redis address for --cache redis")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the metadata cache")
	cmd.Flags().BoolVar(&opts.noChecksums, "no-checksums", false, "skip filling sha256 values from Cargo.lock")
	cmd.Flags().StringVar(&opts.cargoBin, "cargo", "", "cargo executable (default: cargo from PATH)")

	return cmd
}

// runGenerate executes the generate command: query metadata, resolve the
// graph, fill checksums, and write the descriptor set.
func runGenerate(ctx context.Context, opts *generateOpts) error {
	logger := loggerFromContext(ctx)

	backend, err := openCache(ctx, opts.cacheBackend, opts.redisAddr)
	if err != nil {
		return err
	}
	defer backend.Close()

	spin := newSpinnerWithContext(ctx, "Querying cargo metadata...")
	spin.Start()

	p := newProgress(logger)
	ix, err := metadata.Load(ctx, metadata.Options{
		ManifestPath: opts.manifestPath,
		CargoBin:     opts.cargoBin,
		Cache:        cache.NewScoped(backend, "metadata:"),
		Refresh:      opts.refresh,
		Logger:       logger.Debugf,
	})
	if err != nil {
		spin.StopWithError("Metadata query failed")
		return err
	}
	spin.Stop()
	p.done(fmt.Sprintf("Loaded metadata for %d packages", len(ix.Packages())))

	p = newProgress(logger)
	derivations, err := resolve.ResolveAll(ctx, resolve.Config{CargoToml: opts.manifestPath}, ix)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Resolved %d crates", len(derivations)))

	if !opts.noChecksums {
		lockPath := filepath.Join(filepath.Dir(opts.manifestPath), "Cargo.lock")
		filled, err := checksum.Fill(lockPath, derivations)
		switch {
		case errors.GetCode(err) == errors.ErrCodeFileNotFound:
			printWarning("No Cargo.lock found, checksums left empty")
		case err != nil:
			return err
		default:
			logger.Debugf("Filled %d checksums from %s", filled, lockPath)
		}
	}

	if opts.output == "" {
		return pkgio.Write(derivations, os.Stdout)
	}

	if err := pkgio.Export(derivations, opts.output); err != nil {
		return err
	}

	printSuccess("Generated %d derivation descriptors", len(derivations))
	printFile(opts.output)
	printNextStep("Visualize the graph", fmt.Sprintf("%s graph %s -o graph.svg -f svg", appName, opts.output))
	return nil
}

// openCache opens the cache backend selected by name.
func openCache(ctx context.Context, backend, redisAddr string) (cache.Cache, error) {
	switch backend {
	case cacheBackendNone:
		return cache.NewNullCache(), nil
	case cacheBackendFile:
		dir, err := cacheDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		return cache.NewFileCache(dir)
	case cacheBackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown cache backend %q (want file, redis, or none)", backend)
	}
}
