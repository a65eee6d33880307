package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vlatan/advocacy-site/internal/config"
	"github.com/vlatan/advocacy-site/internal/drivers/rdb"
	"github.com/vlatan/advocacy-site/internal/handlers/misc"
	"github.com/vlatan/advocacy-site/internal/handlers/newsletter"
	"github.com/vlatan/advocacy-site/internal/handlers/sitemaps"
	"github.com/vlatan/advocacy-site/internal/integrations/cms"
	"github.com/vlatan/advocacy-site/internal/integrations/r2"
	"github.com/vlatan/advocacy-site/internal/metrics"
	"github.com/vlatan/advocacy-site/internal/middlewares"
)

type App struct {
	sitemaps   *sitemaps.Service
	newsletter *newsletter.Service
	misc       *misc.Service
	mw         *middlewares.Service
	registry   *prometheus.Registry
	cleanup    func() error

	domain string
	server *http.Server
}

// New creates the external services and the app on top of them
func New(cfg *config.Config) *App {

	// Create Redis service
	rdb, err := rdb.New(cfg)
	if err != nil {
		log.Fatalf("couldn't create Redis service; %v", err)
	}

	// Create Cloudflare R2 service
	r2s, err := r2.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("couldn't create R2 service; %v", err)
	}

	// Create the headless CMS client
	cms, err := cms.New(cfg)
	if err != nil {
		log.Fatalf("couldn't create CMS service; %v", err)
	}

	a, err := newApp(cfg, rdb, r2s, cms)
	if err != nil {
		log.Fatalf("couldn't create the app; %v", err)
	}

	return a
}

func newApp(
	cfg *config.Config,
	rdb *rdb.Service,
	r2s r2.Service,
	source sitemaps.ContentSource,
) (*App, error) {

	// App metrics plus the Go runtime and process collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	sitemapsService, err := sitemaps.New(source, m, cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't create sitemaps service; %w", err)
	}

	return &App{
		sitemaps:   sitemapsService,
		newsletter: newsletter.New(rdb, r2s, m, cfg),
		misc:       misc.New(cfg, rdb),
		mw:         middlewares.New(cfg),
		registry:   registry,
		cleanup:    rdb.Client.Close,

		domain: cfg.Domain,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}, nil
}
