// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command reklawdbox wires the catalog reader, cache store, provider
// clients, feature-extractor bridge, and change manager into an
// internal/toolsurface.Service, then exposes every tool method over MCP's
// stdio transport so an interactive agent can drive a DJ library the way
// original_source/src/tools/mod.rs dispatched them.
//
// Adapted from tomtom215/cartographus's cmd/server/main.go: the collaborator
// construction order (config -> logging -> storage -> domain services ->
// transport) follows the teacher exactly; the transport itself is MCP over
// stdio rather than an HTTP API, since spec.md treats the tool-dispatch
// protocol as an external collaborator.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ryanv/reklawdbox-go/internal/authbroker"
	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/changemgr"
	"github.com/ryanv/reklawdbox-go/internal/config"
	"github.com/ryanv/reklawdbox-go/internal/extractor"
	"github.com/ryanv/reklawdbox-go/internal/logging"
	"github.com/ryanv/reklawdbox-go/internal/provider"
	"github.com/ryanv/reklawdbox-go/internal/supervisor"
	"github.com/ryanv/reklawdbox-go/internal/toolsurface"
)

const serverVersion = "0.1.0"

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("reklawdbox exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// stdout is reserved for the MCP protocol stream; every log line goes
	// to stderr (logging.DefaultConfig already does this, but we're
	// explicit here since it's a hard MCP requirement, not a preference).
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	if cfg.Logging.Format != "" {
		logCfg.Format = cfg.Logging.Format
	}
	logCfg.Output = os.Stderr
	logging.Init(logCfg)

	logger := logging.Component("main")
	logger.Info().Str("version", serverVersion).Msg("starting reklawdbox")

	catalogReader, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer catalogReader.Close()

	cache, err := cachestore.Open(cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("open cache store: %w", err)
	}
	defer cache.Close()

	httpClient := &http.Client{Timeout: 30 * time.Second}

	discogs := buildDiscogsClient(cfg, httpClient, cache)
	beatport := provider.NewBeatportClient(httpClient)

	venvPath := extractor.ManagedVenvPath(defaultExtractorBaseDir(cfg))
	prober := extractor.NewProber(cfg.Extractor.PythonPath, venvPath)

	extractorTimeout := cfg.Extractor.Timeout
	if extractorTimeout <= 0 {
		extractorTimeout = extractor.DefaultTimeout
	}
	// No interpreter is resolved yet at startup; runExtractorAnalysis
	// rebuilds a Bridge against the Prober's current interpreter on every
	// call, so this Bridge exists only to carry the configured timeout.
	bridge := extractor.New("", extractorTimeout)

	changes := changemgr.New()

	svc := toolsurface.New(catalogReader, cache, changes, discogs, beatport, bridge, prober)

	root, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The supervisor's sutureslog hook wants a log/slog.Logger; it gets its
	// own stderr-targeted handler rather than threading through zerolog,
	// since internal/supervisor was adapted from the teacher's package as
	// slog-based and there's no zerolog/slog bridge in the pack's stack.
	supervisorLogger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	tree, err := supervisor.NewSupervisorTree(supervisorLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("build supervisor tree: %w", err)
	}
	if cfg.Broker.BaseURL != "" {
		tree.Add(authbroker.NewSessionSweeper(cache, cfg.Broker.BaseURL, authbroker.DefaultSweepInterval))
	}
	treeErrs := tree.ServeBackground(root)
	go func() {
		if err := <-treeErrs; err != nil && root.Err() == nil {
			logger.Error().Err(err).Msg("supervisor tree exited unexpectedly")
		}
	}()

	server := mcp.NewServer(&mcp.Implementation{Name: "reklawdbox", Version: serverVersion}, nil)
	registerTools(server, svc)

	logger.Info().Msg("serving MCP tools over stdio")
	if err := server.Run(root, &mcp.StdioTransport{}); err != nil && root.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	logger.Info().Msg("shutting down")
	return nil
}

// buildDiscogsClient prefers a loaded legacy OAuth-1 credential set over
// the device-code broker when both are configured, the way
// original_source/src/discogs.rs falls back to the always-available
// legacy path when broker auth was never completed (spec.md §4.8.2).
func buildDiscogsClient(cfg *config.Config, httpClient *http.Client, cache *cachestore.Store) *provider.DiscogsClient {
	if cfg.Legacy.Enabled() {
		legacy := provider.NewLegacyClient(httpClient, provider.LegacyCredentials{
			Key:         cfg.Legacy.Key,
			Secret:      cfg.Legacy.Secret,
			Token:       cfg.Legacy.Token,
			TokenSecret: cfg.Legacy.TokenSecret,
		}, cfg.ProviderA.APIBaseURL)
		return provider.NewDiscogsClient(nil, legacy)
	}
	return provider.NewDiscogsClientFromConfig(cfg, httpClient, cache)
}

func defaultExtractorBaseDir(cfg *config.Config) string {
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path + "-extractor"
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".reklawdbox-extractor"
	}
	return dir + "/reklawdbox/extractor"
}
