package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/artatlas/artgraph/pkg/cache"
	"github.com/artatlas/artgraph/pkg/source"
	"github.com/artatlas/artgraph/pkg/store"

	"github.com/artatlas/artgraph/internal/api"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen string
		seed   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph store and layout engine over HTTP",
		Long: `Serve the graph store and layout engine over HTTP.

The store backend comes from the config file: with serve.mongo_uri set the
server persists to MongoDB, otherwise an in-memory store is used. A snapshot
file given with --seed (or serve.seed) is loaded into the store at startup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				c.Config.Serve.Listen = listen
			}
			if seed != "" {
				c.Config.Serve.Seed = seed
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&seed, "seed", "", "snapshot file to load into the store at startup")

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = st.Close(shutdownCtx)
	}()

	if c.Config.Serve.Seed != "" {
		snap, err := source.Resolve(c.Config.Serve.Seed).Fetch(ctx)
		if err != nil {
			return fmt.Errorf("load seed %s: %w", c.Config.Serve.Seed, err)
		}
		if err := st.PutSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
		c.Logger.Info("store seeded",
			"source", c.Config.Serve.Seed,
			"nodes", len(snap.Nodes),
			"relationships", len(snap.Relationships))
	}

	server, err := api.NewServer(st, c.Config.Layout, c.Logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.Config.Serve.Listen,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	c.Logger.Info("listening", "addr", c.Config.Serve.Listen)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// newStore builds the configured store stack: mongo or memory, wrapped with
// the configured cache backend.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	var inner store.Store
	if uri := c.Config.Serve.MongoURI; uri != "" {
		ms, err := store.NewMongoStore(ctx, uri, c.Config.Serve.Database)
		if err != nil {
			return nil, err
		}
		inner = ms
	} else {
		inner = store.NewMemoryStore()
	}

	backend, err := c.newServeCache(ctx)
	if err != nil {
		return nil, err
	}
	if backend == nil {
		return inner, nil
	}
	return store.NewCachedStore(inner, backend, nil, 0, c.Logger), nil
}

// newServeCache builds the cache backend for serving. A nil return means
// no caching layer.
func (c *CLI) newServeCache(ctx context.Context) (cache.Cache, error) {
	switch c.Config.Cache.Backend {
	case "", "null":
		return nil, nil
	case "file":
		return c.newCache(false), nil
	case "redis":
		return cache.NewRedisCache(ctx, c.Config.Cache.Addr, c.Config.Cache.Password, c.Config.Cache.DB)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Config.Cache.Backend)
	}
}
