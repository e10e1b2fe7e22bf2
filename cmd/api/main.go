package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rmachado/loja-erp/internal/modules/auth"
	"github.com/rmachado/loja-erp/internal/modules/catalog"
	"github.com/rmachado/loja-erp/internal/modules/finance"
	"github.com/rmachado/loja-erp/internal/modules/inventory"
	"github.com/rmachado/loja-erp/internal/modules/party"
	"github.com/rmachado/loja-erp/internal/modules/purchase"
	"github.com/rmachado/loja-erp/internal/modules/sale"
	"github.com/rmachado/loja-erp/internal/modules/user"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Successfully connected to the database!")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	user.NewHandler(userService).RegisterRoutes(router)

	authService := auth.NewService(userRepo, os.Getenv("JWT_SECRET"))
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Catalog & Parties ───────────────────────────────────
	categoryRepo := catalog.NewCategoryPostgresRepository(db)
	brandRepo := catalog.NewBrandPostgresRepository(db)
	sizeRepo := catalog.NewSizePostgresRepository(db)
	productRepo := catalog.NewProductPostgresRepository(db)
	catalogService := catalog.NewService(categoryRepo, brandRepo, sizeRepo, productRepo)
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	customerRepo := party.NewCustomerPostgresRepository(db)
	supplierRepo := party.NewSupplierPostgresRepository(db)
	partyService := party.NewService(customerRepo, supplierRepo)
	party.NewHandler(partyService).RegisterRoutes(router)

	// ── Inventory & Finance ─────────────────────────────────
	inventoryRepo := inventory.NewPostgresRepository(db)
	inventoryService := inventory.NewService(inventoryRepo)
	inventory.NewHandler(inventoryService).RegisterRoutes(router)

	payableRepo := finance.NewPayablePostgresRepository(db)
	receivableRepo := finance.NewReceivablePostgresRepository(db)
	financeService := finance.NewService(payableRepo, receivableRepo)
	finance.NewHandler(financeService).RegisterRoutes(router)

	// ── Workflows ───────────────────────────────────────────
	purchaseRepo := purchase.NewPostgresRepository(db)
	purchaseService := purchase.NewService(purchaseRepo)
	purchase.NewHandler(purchaseService).RegisterRoutes(router)

	saleRepo := sale.NewPostgresRepository(db)
	saleService := sale.NewService(saleRepo)
	sale.NewHandler(saleService).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Loja ERP API server starting on :%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
