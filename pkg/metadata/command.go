package metadata

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlyamanMas/crate2nix/pkg/cache"
	"github.com/AlyamanMas/crate2nix/pkg/errors"
	"github.com/AlyamanMas/crate2nix/pkg/observability"
)

// DefaultCacheTTL is how long raw metadata documents stay cached.
const DefaultCacheTTL = 24 * time.Hour

// Options configures the metadata query.
type Options struct {
	ManifestPath string               // Path to the root Cargo.toml (required)
	CargoBin     string               // Cargo executable (default: "cargo")
	Cache        cache.Cache          // Document cache (default: disabled)
	CacheTTL     time.Duration        // Cache duration (default: 24h)
	Refresh      bool                 // Bypass cache for a fresh query
	Logger       func(string, ...any) // Progress/debug callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.CargoBin == "" {
		opts.CargoBin = "cargo"
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Load runs the metadata query for the manifest named in opts and returns
// the indexed resolved graph.
//
// The raw JSON document is cached keyed by the content of Cargo.toml and
// Cargo.lock, so unchanged workspaces skip the cargo invocation entirely.
// Cache failures degrade to a fresh query rather than failing the run.
func Load(ctx context.Context, opts Options) (*Indexed, error) {
	opts = opts.WithDefaults()
	if opts.ManifestPath == "" {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest path is required")
	}

	start := time.Now()
	observability.Generation().OnMetadataStart(ctx, opts.ManifestPath)

	raw, err := loadRaw(ctx, opts)
	if err != nil {
		observability.Generation().OnMetadataComplete(ctx, opts.ManifestPath, 0, time.Since(start), err)
		return nil, err
	}

	doc, err := Parse(raw)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeInvalidMetadata, err, "metadata for %s", opts.ManifestPath)
		observability.Generation().OnMetadataComplete(ctx, opts.ManifestPath, 0, time.Since(start), err)
		return nil, err
	}

	ix, err := Index(doc)
	observability.Generation().OnMetadataComplete(ctx, opts.ManifestPath, len(doc.Packages), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return ix, nil
}

// loadRaw returns the raw metadata document, from cache when possible.
func loadRaw(ctx context.Context, opts Options) ([]byte, error) {
	key, err := cacheKey(opts.ManifestPath)
	if err != nil {
		return nil, err
	}

	if !opts.Refresh {
		if data, hit, err := opts.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "metadata")
			opts.Logger("metadata cache hit for %s", opts.ManifestPath)
			return data, nil
		} else if err != nil {
			opts.Logger("metadata cache read failed: %v", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "metadata")

	data, err := query(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := opts.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
		opts.Logger("metadata cache write failed: %v", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "metadata", len(data))
	}
	return data, nil
}

// cacheKey hashes the manifest and its sibling lockfile. A missing lockfile
// hashes as empty, so generating before and after `cargo generate-lockfile`
// yields distinct keys.
func cacheKey(manifestPath string) (string, error) {
	manifest, err := os.ReadFile(manifestPath)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", manifestPath)
	}
	lock, err := os.ReadFile(filepath.Join(filepath.Dir(manifestPath), "Cargo.lock"))
	if err != nil && !os.IsNotExist(err) {
		return "", errors.Wrap(errors.ErrCodePathResolution, err, "read lockfile next to %s", manifestPath)
	}
	return cache.Hash(manifest) + ":" + cache.Hash(lock), nil
}

// query invokes `cargo metadata` and returns its stdout.
func query(ctx context.Context, opts Options) ([]byte, error) {
	args := []string{
		"metadata",
		"--format-version", "1",
		"--all-features",
		"--manifest-path", opts.ManifestPath,
	}
	opts.Logger("running %s %s", opts.CargoBin, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, opts.CargoBin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "no stderr output"
		}
		return nil, errors.Wrap(errors.ErrCodeMetadataQuery, err, "cargo metadata for %s: %s", opts.ManifestPath, msg)
	}
	return stdout.Bytes(), nil
}
