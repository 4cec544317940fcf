package seo

import (
	"encoding/xml"
	"io"
	"time"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// MaxSitemapURLs is the per-file limit of the sitemap protocol.
const MaxSitemapURLs = 50000

// SitemapURL is one <url> entry.
type SitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Sitemap accumulates entries and writes them as sitemap XML.
type Sitemap struct {
	site Site
	urls []SitemapURL
	seen map[string]bool
}

func NewSitemap(site Site) *Sitemap {
	return &Sitemap{site: site, seen: map[string]bool{}}
}

// Add records path once. Entries beyond MaxSitemapURLs are dropped and Add
// reports false.
func (s *Sitemap) Add(path string, lastMod time.Time, changeFreq string, priority float64) bool {
	loc := s.site.Absolute(path)
	if s.seen[loc] {
		return true
	}
	if len(s.urls) >= MaxSitemapURLs {
		return false
	}
	u := SitemapURL{Loc: loc, ChangeFreq: changeFreq, Priority: priority}
	if !lastMod.IsZero() {
		u.LastMod = lastMod.UTC().Format("2006-01-02")
	}
	s.seen[loc] = true
	s.urls = append(s.urls, u)
	return true
}

func (s *Sitemap) Len() int { return len(s.urls) }

// WriteTo writes the XML document.
func (s *Sitemap) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if _, err := io.WriteString(cw, xml.Header); err != nil {
		return cw.n, err
	}
	enc := xml.NewEncoder(cw)
	enc.Indent("", "  ")
	if err := enc.Encode(urlSet{XMLNS: sitemapNS, URLs: s.urls}); err != nil {
		return cw.n, err
	}
	if err := enc.Flush(); err != nil {
		return cw.n, err
	}
	_, err := io.WriteString(cw, "\n")
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Robots returns a robots.txt body pointing crawlers at the sitemap.
func Robots(site Site) string {
	return "User-agent: *\n" +
		"Disallow: /admin/\n" +
		"Disallow: /book/\n" +
		"Disallow: /login\n" +
		"Disallow: /search\n" +
		"\n" +
		"Sitemap: " + site.Absolute("/sitemap.xml") + "\n"
}
