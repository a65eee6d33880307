package models

import (
	"encoding/xml"
	"strconv"
)

const (
	SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
	NewsNamespace    = "http://www.google.com/schemas/sitemap-news/0.9"
)

// How frequently the page is likely to change
type ChangeFrequency string

const (
	Always  ChangeFrequency = "always"
	Hourly  ChangeFrequency = "hourly"
	Daily   ChangeFrequency = "daily"
	Weekly  ChangeFrequency = "weekly"
	Monthly ChangeFrequency = "monthly"
	Yearly  ChangeFrequency = "yearly"
	Never   ChangeFrequency = "never"
)

// Valid reports whether the value is one of the protocol's constants
func (c ChangeFrequency) Valid() bool {
	switch c {
	case Always, Hourly, Daily, Weekly, Monthly, Yearly, Never:
		return true
	}
	return false
}

// Priority of the URL relative to the other URLs on the site
type Priority float64

// Valid reports whether the priority is in the [0, 1] range
func (p Priority) Valid() bool {
	return p >= 0 && p <= 1
}

// MarshalText implements the encoding.TextMarshaler interface.
// It's called by the XML encoder, so the priority always has one decimal.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(p), 'f', 1, 64)), nil
}

type SitemapEntry struct {
	XMLName         xml.Name        `xml:"url"`
	Location        string          `xml:"loc"`
	LastModified    string          `xml:"lastmod"`
	ChangeFrequency ChangeFrequency `xml:"changefreq"`
	Priority        Priority        `xml:"priority"`
	News            *NewsEntry      `xml:"news:news,omitempty"`
}

type NewsEntry struct {
	Publication     NewsPublication `xml:"news:publication"`
	PublicationDate string          `xml:"news:publication_date"`
	Title           string          `xml:"news:title"`
}

type NewsPublication struct {
	Name     string `xml:"news:name"`
	Language string `xml:"news:language"`
}

type URLSet struct {
	XMLName       xml.Name        `xml:"urlset"`
	Namespace     string          `xml:"xmlns,attr"`
	NewsNamespace string          `xml:"xmlns:news,attr,omitempty"`
	Entries       []*SitemapEntry `xml:"url"`
}

type SitemapRef struct {
	Location string `xml:"loc"`
}

type SitemapIndex struct {
	XMLName   xml.Name      `xml:"sitemapindex"`
	Namespace string        `xml:"xmlns,attr"`
	Sitemaps  []*SitemapRef `xml:"sitemap"`
}
