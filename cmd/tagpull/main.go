// Command tagpull builds labeled image datasets from a tag-based image board.
//
// Usage:
//
//	tagpull [-log-level debug] config.yaml
//
// The config file (YAML, TOML, or JSON) declares subsets: a query, a query
// list, or a post URL list, each with its own output path and overrides. For
// every subset tagpull retrieves matching posts, writes one caption file per
// post, and downloads the images.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tagpull/tagpull/internal/booru"
	"github.com/tagpull/tagpull/internal/cache"
	"github.com/tagpull/tagpull/internal/config"
	"github.com/tagpull/tagpull/internal/dataset"
	"github.com/tagpull/tagpull/internal/domain"
	"github.com/tagpull/tagpull/internal/errors"
	"github.com/tagpull/tagpull/internal/logger"
	"github.com/tagpull/tagpull/internal/query"
	"github.com/tagpull/tagpull/internal/ratelimit"
	"github.com/tagpull/tagpull/internal/scrape"
	"github.com/tagpull/tagpull/internal/tags"
)

var (
	logLevel  = flag.String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	logFormat = flag.String("log-format", "", "Log format (pretty, json); overrides the config file")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <config file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	format := cfg.LogFormat
	if *logFormat != "" {
		format = *logFormat
	}
	log := logger.New(logger.Config{
		Level:  logger.ParseLevel(level),
		Format: format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("scrape failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	preserve, err := cfg.PreserveTags.Resolve()
	if err != nil {
		return err
	}

	app := &app{
		cfg:      cfg,
		log:      log,
		preserve: preserve,
		limiter:  ratelimit.New(5, 5),
		clients:  make(map[string]*booru.Client),
	}

	var failed int
	for i := range cfg.Subsets {
		subset := &cfg.Subsets[i]
		if err := app.runSubset(ctx, subset); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// One bad subset does not abort the run; work already written
			// for other subsets stays valid.
			log.Error("subset failed", "output_path", subset.OutputPath, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d subsets failed", failed, len(cfg.Subsets))
	}
	log.Info("done", "subsets", len(cfg.Subsets))
	return nil
}

type app struct {
	cfg      *config.Config
	log      *slog.Logger
	preserve []string
	limiter  *ratelimit.KeyedRateLimiter
	clients  map[string]*booru.Client
}

// client returns a shared per-domain API client.
func (a *app) client(dom string) *booru.Client {
	if c, ok := a.clients[dom]; ok {
		return c
	}
	opts := []booru.Option{booru.WithLimiter(a.limiter)}
	if a.cfg.Auth != nil {
		opts = append(opts, booru.WithAuth(a.cfg.Auth.BasicAuth()))
	}
	c := booru.NewClient(dom, a.log, opts...)
	a.clients[dom] = c
	return c
}

// cacheStore returns the subset's query cache, or nil when caching is off.
func (a *app) cacheStore(subset *config.Subset) *cache.Store {
	var enabled bool
	switch a.cfg.Cache.State {
	case config.StateDefault:
		enabled = true
	case config.StateExplicit:
		enabled = a.cfg.Cache.Value.SearchResult
	}
	if !enabled {
		return nil
	}
	return cache.New(subset.OutputPath, a.log)
}

func (a *app) runSubset(ctx context.Context, subset *config.Subset) error {
	items, err := a.collect(ctx, subset)
	if err != nil {
		return err
	}
	a.log.Info("retrieved posts", "output_path", subset.OutputPath, "count", len(items))

	job := dataset.Job{
		Items:      items,
		OutputPath: subset.OutputPath,
	}

	if captionCfg, enabled := a.cfg.ResolveCaption(subset); enabled {
		pipeline, err := tags.NewPipeline(captionCfg)
		if err != nil {
			return err
		}
		job.Pipeline = pipeline
		job.CaptionExt = captionCfg.Extension
		if job.CaptionExt == "" {
			job.CaptionExt = "txt"
		}
		job.Overwrite = captionCfg.Overwrite
	}

	return dataset.Process(ctx, job, a.cfg.MaxWorkers, a.log)
}

// collect gathers the subset's post items according to its kind.
func (a *app) collect(ctx context.Context, subset *config.Subset) ([]*domain.PostItem, error) {
	var filter *config.ResultFilter
	if f, enabled := a.cfg.ResolveResultFilter(subset); enabled {
		filter = &f
	}

	switch subset.Kind() {
	case config.SubsetQuery:
		return a.retrieve(ctx, subset, subset.Query, filter)

	case config.SubsetQueryList:
		queries, err := scrape.LoadQueryList(subset.QueryListFile)
		if err != nil {
			return nil, err
		}
		var items []*domain.PostItem
		for _, q := range queries {
			batch, err := a.retrieve(ctx, subset, q, filter)
			if err != nil {
				return nil, err
			}
			items = append(items, batch...)
		}
		return items, nil

	case config.SubsetPostList:
		return a.collectPostList(ctx, subset)

	default:
		return nil, errors.Configuration("subset has no query source")
	}
}

func (a *app) retrieve(ctx context.Context, subset *config.Subset, baseQuery string, filter *config.ResultFilter) ([]*domain.PostItem, error) {
	compiled, err := query.Compose(baseQuery, subset.SearchFilter, a.cfg.SearchFilter)
	if err != nil {
		return nil, err
	}
	a.log.Info("query", "compiled", compiled)

	engine := scrape.NewEngine(a.client(a.cfg.ResolveDomain(subset)), a.cacheStore(subset), a.preserve, a.log)
	return engine.Retrieve(ctx, compiled, filter, subset.Limit)
}

func (a *app) collectPostList(ctx context.Context, subset *config.Subset) ([]*domain.PostItem, error) {
	urls, err := scrape.LoadURLList(subset.PostURLListFile)
	if err != nil {
		return nil, err
	}

	preserve := make(map[string]struct{}, len(a.preserve))
	for _, t := range a.preserve {
		preserve[t] = struct{}{}
	}

	var items []*domain.PostItem
	for _, raw := range urls {
		dom, id, err := booru.ParsePostURL(raw)
		if err != nil {
			// A bad URL invalidates only its own entry.
			a.log.Warn("skipping invalid post url", "url", raw, "error", err)
			continue
		}

		post, err := a.client(dom).Post(ctx, id)
		if err != nil {
			return nil, err
		}
		if post.MD5 == "" {
			a.log.Warn("skipping post without content hash", "id", post.ID)
			continue
		}
		items = append(items, domain.NewPostItem(*post, preserve))
	}
	return items, nil
}
