package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/velmora/storefront/internal/domain/auth"
	"github.com/velmora/storefront/internal/domain/hero"
	"github.com/velmora/storefront/internal/domain/product"
	"github.com/velmora/storefront/internal/storage/postgres"
)

type productJSON struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	MRP          decimal.Decimal `json:"mrp"`
	SpecialPrice decimal.Decimal `json:"specialPrice"`
	Category     string          `json:"category"`
	InStock      *bool           `json:"inStock"`
	Colors       []string        `json:"colors"`
	Sizes        []string        `json:"sizes"`
	Image        struct {
		Thumbnail string `json:"thumbnail"`
		Mobile    string `json:"mobile"`
		Tablet    string `json:"tablet"`
		Desktop   string `json:"desktop"`
	} `json:"image"`
}

type bannerJSON struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	LinkURL  string `json:"linkUrl"`
	Position int    `json:"position"`
}

func main() {
	var (
		databaseURL  string
		catalogFile  string
		heroFile     string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&heroFile, "hero-file", "db/seed/hero.json", "path to hero banners JSON file")
	flag.StringVar(&apiKey, "api-key", "", "admin API key to seed (or STOREFRONT_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or STOREFRONT_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("STOREFRONT_SEED_API_KEY")
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("STOREFRONT_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile, heroFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile, heroFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCatalog(ctx, postgres.NewProductRepository(pool), catalogFile); err != nil {
		return errors.Wrap(err, "seed catalog")
	}

	if err := seedHero(ctx, postgres.NewHeroRepository(pool), heroFile); err != nil {
		return errors.Wrap(err, "seed hero banners")
	}

	if apiKey != "" {
		if err := seedAPIKey(ctx, postgres.NewAPIKeyRepository(pool), apiKey, pepper); err != nil {
			return errors.Wrap(err, "seed api key")
		}
	}

	return nil
}

func seedCatalog(ctx context.Context, repo *postgres.ProductRepository, catalogFile string) error {
	slog.Info("reading catalog file", slog.String("path", catalogFile))

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse catalog JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, in := range products {
		inStock := true
		if in.InStock != nil {
			inStock = *in.InStock
		}
		special := in.SpecialPrice
		if special.IsZero() {
			special = in.MRP
		}
		p := product.Product{
			ID:           in.ID,
			Name:         in.Name,
			MRP:          in.MRP,
			SpecialPrice: special,
			Category:     in.Category,
			InStock:      inStock,
			Colors:       in.Colors,
			Sizes:        in.Sizes,
			Image: product.Image{
				Thumbnail: in.Image.Thumbnail,
				Mobile:    in.Image.Mobile,
				Tablet:    in.Image.Tablet,
				Desktop:   in.Image.Desktop,
			},
		}
		if err := repo.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

func seedHero(ctx context.Context, repo *postgres.HeroRepository, heroFile string) error {
	data, err := os.ReadFile(heroFile)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("no hero file, skipping", slog.String("path", heroFile))
			return nil
		}
		return errors.Wrap(err, "read hero file")
	}

	var banners []bannerJSON
	if err := json.Unmarshal(data, &banners); err != nil {
		return errors.Wrap(err, "parse hero JSON")
	}

	out := make([]hero.Banner, len(banners))
	for i, b := range banners {
		out[i] = hero.Banner{
			ID:       b.ID,
			Title:    b.Title,
			ImageURL: b.ImageURL,
			LinkURL:  b.LinkURL,
			Position: b.Position,
			Active:   true,
		}
	}

	slog.Info("replacing hero banners", slog.Int("count", len(out)))

	return repo.Replace(ctx, out)
}

func seedAPIKey(ctx context.Context, repo *postgres.APIKeyRepository, apiKey, pepper string) error {
	slog.Info("seeding admin API key")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	if err := repo.Upsert(ctx, auth.APIKey{
		ID:      "admin",
		KeyHash: keyHash,
		Name:    "Admin key",
		Scopes:  []string{"manage_hero"},
	}); err != nil {
		return errors.Wrap(err, "upsert admin API key")
	}

	slog.Info("upserted API key", slog.String("id", "admin"))

	return nil
}
