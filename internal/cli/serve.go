package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowsheet/internal/server"
	"github.com/matzehuels/flowsheet/pkg/cache"
	"github.com/matzehuels/flowsheet/pkg/pipeline"
	"github.com/matzehuels/flowsheet/pkg/store"
)

// Environment variables read by serve when the matching flag is unset.
const (
	envAddr     = "FLOWSHEET_ADDR"
	envRedisURL = "FLOWSHEET_REDIS_URL"
	envMongoURI = "FLOWSHEET_MONGO_URI"
	envMongoDB  = "FLOWSHEET_MONGO_DB"
)

type serveOpts struct {
	addr    string
	redis   string
	mongo   string
	mongoDB string
	timeout time.Duration
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the flowsheet HTTP API.

Solve results are cached in Redis when --redis is set, otherwise in the local
cache directory. Definitions are stored in MongoDB when --mongo is set,
otherwise in memory.

Flags fall back to FLOWSHEET_ADDR, FLOWSHEET_REDIS_URL, FLOWSHEET_MONGO_URI
and FLOWSHEET_MONGO_DB.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyEnv()
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis URL for the result cache")
	cmd.Flags().StringVar(&opts.mongo, "mongo", "", "MongoDB URI for stored flowsheets")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", "", "MongoDB database name (default "+appName+")")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")

	return cmd
}

func (o *serveOpts) applyEnv() {
	fallback := func(v *string, env, def string) {
		if *v != "" {
			return
		}
		if e := os.Getenv(env); e != "" {
			*v = e
			return
		}
		*v = def
	}
	fallback(&o.addr, envAddr, server.DefaultAddr)
	fallback(&o.redis, envRedisURL, "")
	fallback(&o.mongo, envMongoURI, "")
	fallback(&o.mongoDB, envMongoDB, appName)
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	var (
		rc    cache.Cache
		keyer cache.Keyer
		err   error
	)
	if opts.redis != "" {
		rc, err = cache.NewRedisCache(ctx, opts.redis)
		if err != nil {
			return err
		}
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")
		c.Logger.Info("using redis cache")
	} else {
		rc, err = newCache(false)
		if err != nil {
			return err
		}
	}
	runner := pipeline.NewRunner(rc, keyer, c.Logger)
	defer runner.Close()

	var st store.Store
	if opts.mongo != "" {
		st, err = store.NewMongoStore(ctx, opts.mongo, opts.mongoDB)
		if err != nil {
			return err
		}
		c.Logger.Info("using mongo store", "database", opts.mongoDB)
	} else {
		st = store.NewMemoryStore()
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			c.Logger.Warn("close store", "error", err)
		}
	}()

	srv := server.New(server.Config{
		Addr:           opts.addr,
		Runner:         runner,
		Store:          st,
		Logger:         c.Logger,
		RequestTimeout: opts.timeout,
	})
	return srv.Run(ctx)
}
