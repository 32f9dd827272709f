// Command sitemap-gen renders the storefront sitemap from the product
// catalog, writes it gzip-compressed, and optionally pings the frontend
// revalidation endpoint for every listed page.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"

	"github.com/velmora/storefront/internal/sitemap"
	"github.com/velmora/storefront/internal/storage/postgres"
)

func main() {
	var (
		databaseURL      string
		baseURL          string
		outFile          string
		revalidateURL    string
		revalidateSecret string
		concurrency      int
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&baseURL, "base-url", "", "public storefront base URL, e.g. https://shop.example.com")
	flag.StringVar(&outFile, "out", "sitemap.xml.gz", "output file path")
	flag.StringVar(&revalidateURL, "revalidate-url", "", "frontend revalidation endpoint; pings are skipped when empty")
	flag.StringVar(&revalidateSecret, "revalidate-secret", "", "revalidation secret (or STOREFRONT_REVALIDATE_SECRET env)")
	flag.IntVar(&concurrency, "concurrency", 8, "max concurrent revalidation requests")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if baseURL == "" {
		slog.Error("--base-url is required")
		os.Exit(1)
	}
	if revalidateSecret == "" {
		revalidateSecret = os.Getenv("STOREFRONT_REVALIDATE_SECRET")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, baseURL, outFile, revalidateURL, revalidateSecret, concurrency); err != nil {
		slog.Error("sitemap generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL, baseURL, outFile, revalidateURL, secret string, concurrency int) error {
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	products, err := postgres.NewProductRepository(pool).List(ctx)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}

	slog.Info("building sitemap", slog.Int("products", len(products)))

	urls := sitemap.Build(baseURL, products, time.Now())
	if err := writeCompressed(outFile, urls); err != nil {
		return err
	}

	slog.Info("sitemap written", slog.String("path", outFile), slog.Int("urls", len(urls)))

	if revalidateURL == "" {
		return nil
	}
	return revalidate(ctx, revalidateURL, secret, urls, concurrency)
}

func writeCompressed(path string, urls []sitemap.URL) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer func() { _ = f.Close() }()

	gz := pgzip.NewWriter(f)
	if err := sitemap.WriteXML(gz, urls); err != nil {
		return errors.Wrap(err, "render sitemap")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "flush gzip")
	}
	return f.Close()
}

func revalidate(ctx context.Context, endpoint, secret string, urls []sitemap.URL, concurrency int) error {
	paths := make([]string, 0, len(urls))
	for _, u := range urls {
		parsed, err := url.Parse(u.Loc)
		if err != nil {
			continue
		}
		path := parsed.Path
		if path == "" {
			path = "/"
		}
		paths = append(paths, path)
	}

	slog.Info("revalidating pages", slog.Int("count", len(paths)), slog.Int("concurrency", concurrency))

	pinger := sitemap.NewPinger(endpoint, secret, time.Minute)
	if err := pinger.PingAll(ctx, paths, concurrency); err != nil {
		return errors.Wrap(err, "revalidate pages")
	}

	slog.Info("revalidation complete")
	return nil
}
