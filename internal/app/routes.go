package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vlatan/advocacy-site/internal/handlers/sitemaps"
)

// RegisterRoutes registers routes and
// assigns custom handler to the HTTP server
func (a *App) RegisterRoutes() *App {
	mux := http.NewServeMux()

	// Sitemaps
	mux.HandleFunc("GET /sitemap.xml", a.sitemaps.SitemapIndexHandler)
	mux.HandleFunc("GET /sitemap.xsl", a.mw.PublicCache(a.sitemaps.SitemapStyleHandler))
	for _, name := range []string{sitemaps.Pages, sitemaps.News, sitemaps.Events} {
		mux.HandleFunc("GET "+sitemaps.Path(name), a.sitemaps.SitemapHandler(name))
	}

	// Newsletter
	mux.HandleFunc("POST /api/newsletter", a.newsletter.SubscribeHandler)

	// The rest
	mux.HandleFunc("GET /robots.txt", a.mw.PublicCache(a.misc.RobotsHandler))
	mux.HandleFunc("GET /health/{$}", a.misc.HealthHandler)
	mux.HandleFunc("GET /healthcheck", a.misc.HealthcheckHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	// Chain middlewares that apply to all requests.
	// The order is important.
	a.server.Handler = a.mw.ApplyToAll(
		a.mw.RecoverPanic,
		a.mw.WWWRedirect,
		a.mw.Logging,
		a.mw.AddHeaders,
		a.mw.Compress,
	)(mux)

	return a
}
