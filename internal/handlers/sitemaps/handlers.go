package sitemaps

import (
	"log"
	"net/http"

	"github.com/vlatan/advocacy-site/internal/models"
	"github.com/vlatan/advocacy-site/internal/utils"
)

// The only body served when a sitemap can't be generated
const sitemapErrorMessage = "Failed to generate the sitemap"

// SitemapHandler serves the sitemap of the given variant.
// The document is generated from scratch on every request.
func (s *Service) SitemapHandler(name string) http.HandlerFunc {
	variant, exists := s.variants[name]

	return func(w http.ResponseWriter, r *http.Request) {

		if !exists {
			http.NotFound(w, r)
			return
		}

		data, count, err := s.Generate(r.Context(), variant)
		s.metrics.ObserveSitemap(variant.Name, count, err)

		if err != nil {
			if utils.IsContextErr(err) {
				log.Printf("Sitemap %q generation cancelled on URI '%s': %v", variant.Name, r.RequestURI, err)
			} else {
				log.Printf("Failed to generate the %q sitemap on URI '%s': %v", variant.Name, r.RequestURI, err)
			}

			http.Error(w, sitemapErrorMessage, http.StatusInternalServerError)
			return
		}

		writeXML(w, r, data, utils.CacheControl(variant.MaxAge))
	}
}

// Handle the sitemap index
func (s *Service) SitemapIndexHandler(w http.ResponseWriter, r *http.Request) {

	index := &models.SitemapIndex{Namespace: models.SitemapNamespace}
	for _, name := range variantOrder {
		index.Sitemaps = append(index.Sitemaps, &models.SitemapRef{
			Location: pageURL(s.config.BaseURL, Path(name)),
		})
	}

	data, err := encodeXML(index)
	if err != nil {
		log.Printf("Failed to encode the sitemap index on URI '%s': %v", r.RequestURI, err)
		http.Error(w, sitemapErrorMessage, http.StatusInternalServerError)
		return
	}

	writeXML(w, r, data, utils.CacheControl(s.config.PagesSitemapMaxAge))
}

// Serve the xml style, which is xsl
func (s *Service) SitemapStyleHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/xsl; charset=utf-8")
	if _, err := w.Write(s.style); err != nil {
		log.Printf("Failed to write response to %q: %v", r.URL.Path, err)
	}
}

func writeXML(w http.ResponseWriter, r *http.Request, data []byte, cacheControl string) {
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("X-Robots-Tag", "noindex")

	if _, err := w.Write(data); err != nil {
		// Too late for recovery here, just log the error
		log.Printf("Failed to write response to %q: %v", r.URL.Path, err)
	}
}
