package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/greenchainz/carbon-analysis/internal/config"
	"github.com/greenchainz/carbon-analysis/internal/infrastructure/catalog"
	"github.com/greenchainz/carbon-analysis/internal/infrastructure/repository/postgres"
	"github.com/greenchainz/carbon-analysis/internal/observability/logging"
)

func main() {
	var path string
	flag.StringVar(&path, "file", "", "catalog file to import (.xlsx or .yaml)")
	flag.Parse()
	if path == "" {
		log.Fatal("usage: catalog-import -file <catalog.xlsx|catalog.yaml>")
	}

	cfg := config.Load()
	logger := logging.NewJSONLogger("catalog-import", cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	defer db.Close()

	repo := postgres.NewCatalogRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure catalog schema: %v", err)
	}

	products, err := catalog.LoadProducts(path)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	imported := 0
	for _, product := range products {
		if err := repo.Upsert(ctx, product); err != nil {
			logger.Error("upsert product failed", "product_id", product.ID, "error", err)
			continue
		}
		imported++
	}
	logger.Info("catalog import finished", "file", path, "imported", imported, "skipped", len(products)-imported)
}
