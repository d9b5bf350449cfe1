// seed carga datos de demostración a través de los casos de uso: un usuario admin,
// productos (de un CSV o del catálogo por defecto) y algunas órdenes.
//
// Uso: go run ./cmd/seed [--products productos.csv] [--latin1] [--admin-email ...] [--admin-password ...]
//
// Columnas del CSV (con cabecera): sku,name,category,quantity,min_stock,selling_price,cost_price,supplier
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stockflow-api/internal/app"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/pkg/config"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

var defaultProducts = []dto.CreateProductRequest{
	product("ELEC-001", "Monitor 24 pulgadas", entity.CategoryElectronics, 15, 5, "189.90", "120.00", "TecnoSur"),
	product("ELEC-002", "Teclado mecánico", entity.CategoryElectronics, 4, 5, "79.50", "45.00", "TecnoSur"),
	product("STAT-001", "Resma papel carta", entity.CategoryStationery, 120, 30, "6.25", "3.80", "Papelera Andina"),
	product("FURN-001", "Silla ergonómica", entity.CategoryFurniture, 8, 3, "249.00", "150.00", "Muebles Norte"),
	product("OFFI-001", "Grapadora metálica", entity.CategoryOffice, 0, 10, "12.40", "6.10", "Papelera Andina"),
	product("STOR-001", "Caja archivadora", entity.CategoryStorage, 60, 20, "4.99", "2.10", "Bodegas Unidas"),
}

func product(sku, name, category string, qty, minStock int, price, cost, supplier string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		SKU: sku, Name: name, Category: category, Quantity: qty, MinStock: &minStock,
		SellingPrice: decimal.RequireFromString(price), CostPrice: decimal.RequireFromString(cost),
		Supplier: supplier,
	}
}

func main() {
	productsFile := pflag.String("products", "", "CSV de productos (opcional)")
	latin1 := pflag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	adminEmail := pflag.String("admin-email", "admin@stockflow.local", "email del usuario admin")
	adminPassword := pflag.String("admin-password", "admin123", "password del usuario admin")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	items := defaultProducts
	if *productsFile != "" {
		items, err = readProductsFile(*productsFile, *latin1)
		if err != nil {
			log.Fatal().Err(err).Str("file", *productsFile).Msg("leer productos")
		}
	}

	ctx := context.Background()
	c, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicialización")
	}
	defer func() { _ = c.Close(ctx) }()

	if err := run(ctx, c, items, *adminEmail, *adminPassword); err != nil {
		log.Error().Err(err).Msg("seed incompleto")
		_ = c.Close(ctx)
		os.Exit(1)
	}
	log.Info().Int("products", len(items)).Msg("seed terminado")
}

func run(ctx context.Context, c *app.Container, items []dto.CreateProductRequest, email, password string) error {
	adminID, err := ensureAdmin(ctx, c, email, password)
	if err != nil {
		return err
	}

	created := make([]*dto.ProductResponse, 0, len(items))
	for _, in := range items {
		p, err := c.Products.Create(ctx, adminID, in)
		if errors.Is(err, domain.ErrDuplicate) {
			c.Log.Info().Str("sku", in.SKU).Msg("producto ya existe, se omite")
			continue
		}
		if err != nil {
			return fmt.Errorf("crear producto %s: %w", in.SKU, err)
		}
		created = append(created, p)
	}
	if len(created) < 2 {
		return nil
	}

	// Una compra completada (repone stock) y una venta pendiente.
	purchase, err := c.Orders.CreateOrder(ctx, adminID, dto.CreateOrderRequest{
		Type:         entity.OrderTypePurchase,
		Counterparty: created[0].Supplier,
		Items:        []dto.OrderItemRequest{{ProductID: created[0].ID, Quantity: 10}},
		Notes:        "reposición inicial",
	})
	if err != nil {
		return fmt.Errorf("crear compra: %w", err)
	}
	if _, err := c.Orders.TransitionStatus(ctx, purchase.ID, entity.OrderStatusCompleted, adminID); err != nil {
		return fmt.Errorf("completar compra: %w", err)
	}
	if _, err := c.Orders.CreateOrder(ctx, adminID, dto.CreateOrderRequest{
		Type:         entity.OrderTypeSale,
		Counterparty: "Cliente de mostrador",
		Items: []dto.OrderItemRequest{
			{ProductID: created[0].ID, Quantity: 2},
			{ProductID: created[1].ID, Quantity: 1},
		},
	}); err != nil && !errors.Is(err, domain.ErrInsufficientStock) {
		return fmt.Errorf("crear venta: %w", err)
	}
	return nil
}

func ensureAdmin(ctx context.Context, c *app.Container, email, password string) (string, error) {
	out, err := c.Auth.Register(ctx, dto.RegisterRequest{
		Name: "Administrador", Email: email, Password: password, Role: entity.RoleAdmin,
	})
	if err == nil {
		c.Log.Info().Str("email", out.User.Email).Msg("usuario admin creado")
		return out.User.ID, nil
	}
	if !errors.Is(err, domain.ErrEmailAlreadyExists) {
		return "", fmt.Errorf("registrar admin: %w", err)
	}
	login, err := c.Auth.Login(ctx, dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("login admin existente: %w", err)
	}
	return login.User.ID, nil
}

func readProductsFile(path string, latin1 bool) ([]dto.CreateProductRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	return parseProducts(r)
}

func parseProducts(r io.Reader) ([]dto.CreateProductRequest, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"sku", "name"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q", required)
		}
	}
	get := func(rec []string, name string) string {
		if i, ok := col[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	var out []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		in := dto.CreateProductRequest{
			SKU:      get(rec, "sku"),
			Name:     get(rec, "name"),
			Category: get(rec, "category"),
			Supplier: get(rec, "supplier"),
		}
		if in.Quantity, err = atoi(get(rec, "quantity")); err != nil {
			return nil, fmt.Errorf("línea %d quantity: %w", line, err)
		}
		if s := get(rec, "min_stock"); s != "" {
			n, err := atoi(s)
			if err != nil {
				return nil, fmt.Errorf("línea %d min_stock: %w", line, err)
			}
			in.MinStock = &n
		}
		if in.SellingPrice, err = money(get(rec, "selling_price")); err != nil {
			return nil, fmt.Errorf("línea %d selling_price: %w", line, err)
		}
		if in.CostPrice, err = money(get(rec, "cost_price")); err != nil {
			return nil, fmt.Errorf("línea %d cost_price: %w", line, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func money(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
