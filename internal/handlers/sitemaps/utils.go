package sitemaps

import (
	"bytes"
	"encoding/xml"
	"net/url"
	"strings"
	"time"
)

const stylesheet = `<?xml-stylesheet type="text/xsl" href="/sitemap.xsl"?>`

// recordURL builds the absolute URL of a record.
// The slug comes from the CMS so it's escaped as a single path segment.
func recordURL(baseURL, category, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/" +
		pathSegment(category) + "/" +
		pathSegment(slug)
}

// pathSegment escapes a value as one path segment.
// Dot segments are percent-encoded so clients don't resolve them
// to a parent path.
func pathSegment(value string) string {
	if value == "." || value == ".." {
		return strings.ReplaceAll(value, ".", "%2E")
	}
	return url.PathEscape(value)
}

// pageURL builds the absolute URL of a static page
func pageURL(baseURL, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(baseURL, "/") + path
}

// formatTime formats time as W3C datetime in UTC
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// encodeXML writes the XML declaration, the stylesheet
// and the indented document. Text values are escaped by the encoder.
func encodeXML(v any) ([]byte, error) {

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(stylesheet + "\n")

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.WriteString("\n")
	return buf.Bytes(), nil
}
