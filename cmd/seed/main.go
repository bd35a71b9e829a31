// seed carga un catálogo de demostración (categorías, umbrales, productos con stock inicial)
// e imprime un token por rol para probar la API.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/usecase"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-ledger/pkg/config"
	"github.com/jhoicas/pos-ledger/pkg/jwt"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

type seedProduct struct {
	name     string
	category string
	price    string
	stock    int64
}

var seedCategories = []struct {
	name      string
	threshold int64 // 0 = sin umbral configurado
}{
	{"Bebidas", 10},
	{"Snacks", 0},
	{"Aseo", 5},
}

var seedProducts = []seedProduct{
	{"Gaseosa 400ml", "Bebidas", "2500", 48},
	{"Agua 600ml", "Bebidas", "1800", 6},
	{"Jugo de naranja 1L", "Bebidas", "5200", 0},
	{"Papas fritas 45g", "Snacks", "2200", 120},
	{"Maní salado 100g", "Snacks", "3000", 9},
	{"Jabón de barra", "Aseo", "3900", 30},
	{"Crema dental 75ml", "Aseo", "6500", 4},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	categoryRepo := postgres.NewCategoryRepository(pool)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	productUC := usecase.NewProductUseCase(postgres.NewProductRepository(pool), categoryRepo)
	adjustUC := inventory.NewRecordAdjustmentUseCase(
		postgres.NewTxRunner(pool), inventory.NewStockLedger(),
		postgres.NewStockAdjustmentRepository(pool), log,
	)

	adminID := uuid.New().String()

	categoryIDs := make(map[string]string, len(seedCategories))
	for _, c := range seedCategories {
		created, err := categoryUC.Create(ctx, dto.CreateCategoryRequest{Name: c.name})
		if errors.Is(err, domain.ErrDuplicate) {
			log.Fatal().Str("category", c.name).Msg("la base ya tiene datos; seed solo corre sobre una base vacía")
		}
		if err != nil {
			log.Fatal().Err(err).Str("category", c.name).Msg("crear categoría")
		}
		categoryIDs[c.name] = created.ID
		if c.threshold > 0 {
			if _, err := categoryUC.SetThreshold(ctx, created.ID, dto.SetThresholdRequest{Threshold: c.threshold}); err != nil {
				log.Fatal().Err(err).Str("category", c.name).Msg("umbral de categoría")
			}
		}
	}

	for _, p := range seedProducts {
		created, err := productUC.Create(ctx, dto.CreateProductRequest{
			CategoryID: categoryIDs[p.category],
			Name:       p.name,
			UnitPrice:  decimal.RequireFromString(p.price),
		})
		if err != nil {
			log.Fatal().Err(err).Str("product", p.name).Msg("crear producto")
		}
		// El stock inicial entra como ajuste ADD para que quede en la auditoría
		if p.stock > 0 {
			if _, err := adjustUC.RecordAdjustment(ctx, inventory.AdjustmentInputDTO{
				UserID:    adminID,
				ProductID: created.ID,
				Quantity:  p.stock,
				Kind:      entity.AdjustmentAdd,
				Reason:    "inventario inicial",
			}); err != nil {
				log.Fatal().Err(err).Str("product", p.name).Msg("stock inicial")
			}
		}
		fmt.Printf("producto  %s  %-22s stock=%d\n", created.ID, p.name, p.stock)
	}

	fmt.Println()
	for _, role := range []string{jwt.RoleAdmin, jwt.RoleVendedor, jwt.RoleBodeguero} {
		userID := adminID
		if role != jwt.RoleAdmin {
			userID = uuid.New().String()
		}
		tok, err := jwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			log.Fatal().Err(err).Msg("generar token")
		}
		fmt.Printf("token %-10s %s\n", role, tok)
	}
}
