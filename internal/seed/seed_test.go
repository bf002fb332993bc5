package seed

import (
	"context"
	"testing"
	"time"

	"github.com/agridirect/marketplace/internal/clock"
	"github.com/agridirect/marketplace/internal/events"
	farmerrepository "github.com/agridirect/marketplace/internal/farmer/repository"
	farmerservice "github.com/agridirect/marketplace/internal/farmer/service"
	"github.com/agridirect/marketplace/internal/migration"
	productrepository "github.com/agridirect/marketplace/internal/product/repository"
	productservice "github.com/agridirect/marketplace/internal/product/service"
	"github.com/agridirect/marketplace/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

func TestEnsureDemoCatalogIsIdempotent(t *testing.T) {
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := migration.RunMigrations(conn); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	farmerRepo := farmerrepository.Provide()
	farmers := farmerservice.New(farmerservice.Params{
		DB: conn, Log: zap.NewNop(), GenID: node, Repo: farmerRepo, Clock: clk, Publisher: events.Nop(),
	})
	products := productservice.New(productservice.Params{
		DB: conn, Log: zap.NewNop(), GenID: node, Repo: productrepository.Provide(), FarmerRepo: farmerRepo,
		Clock: clk, Publisher: events.Nop(),
	})

	ctx := context.Background()
	first, err := EnsureDemoCatalog(ctx, farmers, products)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if !first.Created {
		t.Fatal("expected the first run to create the listing")
	}

	second, err := EnsureDemoCatalog(ctx, farmers, products)
	if err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if second.Created || second.FarmerID != first.FarmerID || second.ProductID != first.ProductID {
		t.Fatalf("expected records to be reused, got %+v then %+v", first, second)
	}

	farmer, err := farmers.Get(ctx, first.FarmerID)
	if err != nil {
		t.Fatalf("get farmer: %v", err)
	}
	if farmer.VerificationStatus != "Verified" {
		t.Fatalf("expected demo farmer to be verified, got %s", farmer.VerificationStatus)
	}
}
