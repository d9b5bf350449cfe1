// Package app arma las dependencias compartidas por los binarios (api y seed).
package app

import (
	"context"
	"errors"
	"fmt"

	appanalytics "github.com/jhoicas/stockflow-api/internal/application/analytics"
	"github.com/jhoicas/stockflow-api/internal/application/auth"
	"github.com/jhoicas/stockflow-api/internal/application/orders"
	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/internal/application/usecase"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/cache"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/messaging"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/postgres"
	apphttp "github.com/jhoicas/stockflow-api/internal/interfaces/http"
	"github.com/jhoicas/stockflow-api/pkg/config"
	"github.com/jhoicas/stockflow-api/pkg/logger"
	"github.com/jhoicas/stockflow-api/pkg/telemetry"
)

// Version se sobreescribe con -ldflags "-X .../internal/app.Version=..."
var Version = "dev"

// Container recursos de larga vida y casos de uso ya construidos.
type Container struct {
	Config    *config.Config
	Log       *logger.Logger
	Products  *usecase.ProductUseCase
	Orders    *orders.Service
	Auth      *auth.AuthUseCase
	Dashboard *appanalytics.DashboardUseCase

	closers []func(context.Context) error
}

type stores struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	orders    repository.OrderRepository
	users     repository.UserRepository
	dashboard repository.DashboardRepository
	tx        ports.TxRunner
}

// NewContainer abre conexiones (tracing, base de datos, Redis, Kafka) y construye los casos de uso.
// Redis y Kafka son opcionales: sin configuración se usan caché nula y log de eventos.
func NewContainer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		AuthHeader:     cfg.Telemetry.AuthHeader,
		Insecure:       cfg.App.IsDevelopment(),
	})
	if err != nil {
		return nil, fmt.Errorf("telemetría: %w", err)
	}
	c.closers = append(c.closers, shutdown)

	st, err := c.openStore(ctx)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}

	var readCache ports.Cache = cache.Noop{}
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			_ = c.Close(ctx)
			return nil, err
		}
		c.closers = append(c.closers, func(context.Context) error { return rdb.Close() })
		readCache = cache.NewRedisCache(rdb, cfg.App.Name)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché Redis habilitada")
	}

	var publisher ports.EventPublisher = messaging.NewLogPublisher(log)
	if cfg.Kafka.Enabled() {
		kp := messaging.NewKafkaPublisher(cfg.Kafka)
		c.closers = append(c.closers, func(context.Context) error { return kp.Close() })
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("publicación de eventos en Kafka habilitada")
	}

	c.Products = usecase.NewProductUseCase(st.products, st.movements, st.tx, readCache, publisher, log)
	c.Orders = orders.NewService(st.orders, st.tx, readCache, publisher, pdf.NewOrderRenderer(cfg.App.Name), log)
	c.Auth = auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	c.Dashboard = appanalytics.NewDashboardUseCase(st.products, st.dashboard, readCache, cfg.Redis.TTL, log)
	return c, nil
}

func (c *Container) openStore(ctx context.Context) (stores, error) {
	if c.Config.App.StoreDriver == config.StoreDriverMemory {
		c.Log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return stores{
			products:  memory.NewProductRepository(s),
			movements: memory.NewStockMovementRepository(s),
			orders:    memory.NewOrderRepository(s),
			users:     memory.NewUserRepository(s),
			dashboard: memory.NewDashboardRepository(s),
			tx:        memory.NewTxRunner(s),
		}, nil
	}

	pool, err := postgres.NewPool(ctx, c.Config.DB)
	if err != nil {
		return stores{}, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	c.closers = append(c.closers, func(context.Context) error { pool.Close(); return nil })
	if c.Config.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			return stores{}, fmt.Errorf("migración: %w", err)
		}
		c.Log.Info().Msg("esquema de base de datos aplicado")
	}
	return stores{
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		orders:    postgres.NewOrderRepository(pool),
		users:     postgres.NewUserRepository(pool),
		dashboard: postgres.NewDashboardRepository(pool),
		tx:        postgres.NewTxRunner(pool),
	}, nil
}

// RouterDeps dependencias del router HTTP.
func (c *Container) RouterDeps() apphttp.RouterDeps {
	return apphttp.RouterDeps{
		ProductUC:     c.Products,
		Orders:        c.Orders,
		AuthUC:        c.Auth,
		DashboardUC:   c.Dashboard,
		JWTSecret:     c.Config.JWT.Secret,
		AuthRateLimit: c.Config.HTTP.AuthRateLimit,
		Log:           c.Log,
	}
}

// Close libera los recursos en orden inverso al de apertura.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
