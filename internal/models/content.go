package models

import "time"

// A group of records the content source knows how to list
type Collection string

const (
	PastEvents     Collection = "past_events"
	UpcomingEvents Collection = "upcoming_events"
	NewsPosts      Collection = "news_posts"
)

// ContentRecord is a document owned by the headless CMS,
// projected down to the fields the sitemaps need.
type ContentRecord struct {
	Slug        string     `json:"slug"`
	UpdatedAt   *time.Time `json:"_updatedAt,omitempty"`
	Title       string     `json:"title,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}
