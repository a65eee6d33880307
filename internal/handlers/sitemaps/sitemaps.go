package sitemaps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tdewolff/minify"
	"github.com/tdewolff/minify/xml"
	"github.com/vlatan/advocacy-site/internal/config"
	"github.com/vlatan/advocacy-site/internal/metrics"
	"github.com/vlatan/advocacy-site/internal/models"
	"github.com/vlatan/advocacy-site/web"
)

// Sitemap variants
const (
	Pages  = "pages"
	News   = "news"
	Events = "events"
)

// The order of the sitemaps in the index
var variantOrder = []string{Pages, News, Events}

// ContentSource lists the records of a CMS collection
type ContentSource interface {
	ListRecords(ctx context.Context, collection models.Collection) ([]models.ContentRecord, error)
}

// A fixed section of the site
type StaticPage struct {
	Path            string
	ChangeFrequency models.ChangeFrequency
	Priority        models.Priority
}

// Variant describes one sitemap document.
// Records of all collections get the same change frequency and priority.
type Variant struct {
	Name            string
	Category        string
	Collections     []models.Collection
	StaticPages     []StaticPage
	ChangeFrequency models.ChangeFrequency
	Priority        models.Priority
	MaxAge          time.Duration
	News            bool
}

type Service struct {
	source   ContentSource
	metrics  *metrics.Metrics
	config   *config.Config
	variants map[string]*Variant
	style    []byte
	now      func() time.Time
}

func New(source ContentSource, metrics *metrics.Metrics, config *config.Config) (*Service, error) {

	if source == nil || metrics == nil || config == nil {
		return nil, errors.New("unable to create sitemaps service with nil dependencies")
	}

	variants := newVariants(config)
	for _, v := range variants {
		if err := v.validate(); err != nil {
			return nil, err
		}
	}

	style, err := minifyStyle()
	if err != nil {
		return nil, err
	}

	return &Service{
		source:   source,
		metrics:  metrics,
		config:   config,
		variants: variants,
		style:    style,
		now:      time.Now,
	}, nil
}

// Path returns the URL path the variant is served on
func Path(name string) string {
	return "/sitemap-" + name + ".xml"
}

// newVariants defines the sitemaps of the site
func newVariants(cfg *config.Config) map[string]*Variant {

	pages := []StaticPage{{Path: "/", ChangeFrequency: models.Weekly, Priority: 1}}
	for _, path := range cfg.StaticPages {
		if path == "/" {
			continue
		}
		pages = append(pages, StaticPage{
			Path:            path,
			ChangeFrequency: models.Monthly,
			Priority:        0.5,
		})
	}

	return map[string]*Variant{
		Pages: {
			Name:            Pages,
			StaticPages:     pages,
			ChangeFrequency: models.Monthly,
			Priority:        0.5,
			MaxAge:          cfg.PagesSitemapMaxAge,
		},
		News: {
			Name:        News,
			Category:    "news",
			Collections: []models.Collection{models.NewsPosts},
			StaticPages: []StaticPage{
				{Path: "/news", ChangeFrequency: models.Daily, Priority: 0.8},
			},
			ChangeFrequency: models.Weekly,
			Priority:        0.7,
			MaxAge:          cfg.NewsSitemapMaxAge,
			News:            true,
		},
		Events: {
			Name:     Events,
			Category: "events",
			Collections: []models.Collection{
				models.PastEvents,
				models.UpcomingEvents,
			},
			StaticPages: []StaticPage{
				{Path: "/events", ChangeFrequency: models.Weekly, Priority: 0.8},
			},
			ChangeFrequency: models.Monthly,
			Priority:        0.6,
			MaxAge:          cfg.EventsSitemapMaxAge,
		},
	}
}

// validate checks the fixed values end up within the protocol's bounds
func (v *Variant) validate() error {

	if !v.ChangeFrequency.Valid() || !v.Priority.Valid() {
		return fmt.Errorf("invalid change frequency or priority in %q sitemap", v.Name)
	}

	for _, page := range v.StaticPages {
		if !page.ChangeFrequency.Valid() || !page.Priority.Valid() {
			return fmt.Errorf("invalid static page %q in %q sitemap", page.Path, v.Name)
		}
	}

	if v.MaxAge < 0 {
		return fmt.Errorf("negative max age in %q sitemap", v.Name)
	}

	return nil
}

// minifyStyle reads the embedded XSL stylesheet and minifies it
func minifyStyle() ([]byte, error) {

	style, err := web.Files.ReadFile("static/sitemap.xsl")
	if err != nil {
		return nil, fmt.Errorf("couldn't read the sitemap stylesheet; %w", err)
	}

	m := minify.New()
	m.AddFunc("text/xsl", xml.Minify)

	minified, err := m.Bytes("text/xsl", style)
	if err != nil {
		return nil, fmt.Errorf("couldn't minify the sitemap stylesheet; %w", err)
	}

	return minified, nil
}
