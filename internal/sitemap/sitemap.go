// Package sitemap builds the storefront sitemap and pings the frontend
// revalidation endpoint when catalog pages change.
package sitemap

import (
	"encoding/xml"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/velmora/storefront/internal/domain/product"
)

// URL is one sitemap entry.
type URL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

// Build assembles sitemap entries for the storefront: the home page, one
// page per distinct category, and one page per in-stock product. Entries
// come out in a stable order so repeated runs produce identical files.
func Build(baseURL string, products []product.Product, now time.Time) []URL {
	base := strings.TrimSuffix(baseURL, "/")
	today := now.Format("2006-01-02")

	urls := []URL{{
		Loc:        base + "/",
		LastMod:    today,
		ChangeFreq: "daily",
		Priority:   1.0,
	}}

	categories := make(map[string]struct{})
	for _, p := range products {
		if p.Category != "" {
			categories[p.Category] = struct{}{}
		}
	}
	names := make([]string, 0, len(categories))
	for c := range categories {
		names = append(names, c)
	}
	sort.Strings(names)
	for _, c := range names {
		urls = append(urls, URL{
			Loc:        base + "/category/" + c,
			LastMod:    today,
			ChangeFreq: "daily",
			Priority:   0.8,
		})
	}

	for _, p := range products {
		if !p.InStock {
			continue
		}
		urls = append(urls, URL{
			Loc:        base + "/product/" + p.ID,
			LastMod:    today,
			ChangeFreq: "weekly",
			Priority:   0.6,
		})
	}

	return urls
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// WriteXML renders the entries as a sitemap protocol urlset document.
func WriteXML(w io.Writer, urls []URL) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.Wrap(err, "write header")
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(urlset{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}); err != nil {
		return errors.Wrap(err, "encode urlset")
	}
	return enc.Close()
}
