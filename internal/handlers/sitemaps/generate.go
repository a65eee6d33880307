package sitemaps

import (
	"context"
	"fmt"
	"time"

	"github.com/vlatan/advocacy-site/internal/models"
	"golang.org/x/sync/errgroup"
)

// Entries builds the ordered entries of a sitemap variant.
// Static pages come first, then the records of each collection
// in the collection order, each in the order the source returned them.
func (s *Service) Entries(ctx context.Context, v *Variant) ([]*models.SitemapEntry, error) {

	now := s.now().UTC()

	records, err := s.fetch(ctx, v.Collections)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.SitemapEntry, 0, len(v.StaticPages)+len(records))

	for _, page := range v.StaticPages {
		entries = append(entries, &models.SitemapEntry{
			Location:        pageURL(s.config.BaseURL, page.Path),
			LastModified:    formatTime(now),
			ChangeFrequency: page.ChangeFrequency,
			Priority:        page.Priority,
		})
	}

	for _, record := range records {
		entries = append(entries, s.recordEntry(v, record, now))
	}

	return entries, nil
}

// Generate builds the XML document of a sitemap variant
func (s *Service) Generate(ctx context.Context, v *Variant) ([]byte, int, error) {

	entries, err := s.Entries(ctx, v)
	if err != nil {
		return nil, 0, err
	}

	urlSet := &models.URLSet{
		Namespace: models.SitemapNamespace,
		Entries:   entries,
	}

	if v.News {
		urlSet.NewsNamespace = models.NewsNamespace
	}

	data, err := encodeXML(urlSet)
	if err != nil {
		return nil, 0, fmt.Errorf("couldn't encode the %q sitemap; %w", v.Name, err)
	}

	return data, len(entries), nil
}

// fetch gets all the collections concurrently.
// Any failed fetch fails the whole batch and cancels the rest.
func (s *Service) fetch(ctx context.Context, collections []models.Collection) ([]models.ContentRecord, error) {

	results := make([][]models.ContentRecord, len(collections))

	g, gctx := errgroup.WithContext(ctx)
	for i, collection := range collections {
		g.Go(func() error {
			start := time.Now()
			records, err := s.source.ListRecords(gctx, collection)
			s.metrics.ObserveFetch(string(collection), start, err)

			if err != nil {
				return fmt.Errorf("couldn't fetch %s; %w", collection, err)
			}

			results[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Concatenate in the collection order
	var merged []models.ContentRecord
	for _, records := range results {
		merged = append(merged, records...)
	}

	return merged, nil
}

// recordEntry maps a CMS record to a sitemap entry
func (s *Service) recordEntry(v *Variant, record models.ContentRecord, now time.Time) *models.SitemapEntry {

	lastModified := now
	if record.UpdatedAt != nil {
		lastModified = *record.UpdatedAt
	}

	entry := &models.SitemapEntry{
		Location:        recordURL(s.config.BaseURL, v.Category, record.Slug),
		LastModified:    formatTime(lastModified),
		ChangeFrequency: v.ChangeFrequency,
		Priority:        v.Priority,
	}

	if v.News && record.Title != "" && record.PublishedAt != nil {
		entry.News = &models.NewsEntry{
			Publication: models.NewsPublication{
				Name:     s.config.SiteName,
				Language: s.config.SiteLanguage,
			},
			PublicationDate: formatTime(*record.PublishedAt),
			Title:           record.Title,
		}
	}

	return entry
}
