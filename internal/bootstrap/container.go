// Package bootstrap arma repositorios, adaptadores y casos de uso a partir de la configuración.
// Lo comparten el servidor HTTP y la CLI de administración.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/analytics"
	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/billing"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/reports"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/cache"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/pos-backoffice/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/pos-backoffice/internal/interfaces/http"
	"github.com/jhoicas/pos-backoffice/pkg/config"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// Container casos de uso listos para el router o la CLI.
type Container struct {
	Pool    *pgxpool.Pool
	Metrics *httpRouter.Metrics // nil si PROMETHEUS_ENABLED=false
	Deps    httpRouter.RouterDeps

	redis *redis.Client
}

// Build abre el pool, aplica las migraciones si migrate es true y construye los casos de uso.
// MinIO y Redis son opcionales: sin endpoint/host la subida de fotos falla y las estadísticas no se cachean.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger, migrate bool) (*Container, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
	}
	c := &Container{Pool: pool}

	var counter usecase.EventCounter
	if cfg.Metrics.Enabled {
		c.Metrics = httpRouter.NewMetrics("backoffice")
		counter = c.Metrics
	}

	var files usecase.FileStorage
	if cfg.Storage.Enabled() {
		minioStorage, err := storage.NewMinioStorage(cfg.Storage)
		if err != nil {
			c.Close()
			return nil, err
		}
		if err := minioStorage.EnsureBucket(ctx); err != nil {
			log.Warn().Err(err).Str("bucket", cfg.Storage.Bucket).Msg("bucket de fotos no disponible")
		}
		files = minioStorage
	} else {
		log.Warn().Msg("MINIO_ENDPOINT vacío: subida de fotos deshabilitada")
	}

	var statsCache analytics.Cache
	if cfg.Redis.Host != "" {
		c.redis = cache.NewRedisClient(cfg.Redis)
		rc := cache.NewStatsCache(c.redis)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr()).Msg("redis no responde, estadísticas sin caché")
		}
		statsCache = rc
	}

	vat, err := decimal.NewFromString(cfg.EInvoice.VATRate)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("EINVOICE_VAT_RATE: %w", err)
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	activityRepo := postgres.NewUserActivityRepository(pool)
	groupRepo := postgres.NewInventoryGroupRepository(pool)
	providerRepo := postgres.NewProviderRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	terminalRepo := postgres.NewPaymentTerminalRepository(pool)
	goalRepo := postgres.NewGoalRepository(pool)
	resolutionRepo := postgres.NewDianResolutionRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	activity := usecase.NewActivityRecorder(userRepo, activityRepo, log)
	statsUC := analytics.NewStatsUseCase(postgres.NewStatsRepository(pool), statsCache, cfg.Redis.StatsTTL, log)

	c.Deps = httpRouter.RouterDeps{
		AuthUC: auth.NewAuthUseCase(userRepo, companyRepo, activity, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		UserUC:     usecase.NewUserUseCase(userRepo, activity),
		Activity:   activity,
		CompanyUC:  usecase.NewCompanyUseCase(companyRepo, userRepo, activity),
		GroupUC:    usecase.NewInventoryGroupUseCase(groupRepo, txRunner, activity),
		ProviderUC: usecase.NewProviderUseCase(providerRepo, activity),
		ProductUC: usecase.NewProductUseCase(productRepo, groupRepo, providerRepo, txRunner,
			excel.NewSheetReader(), files, activity),
		CustomerUC:   usecase.NewCustomerUseCase(customerRepo, activity),
		TerminalUC:   usecase.NewPaymentTerminalUseCase(terminalRepo, activity),
		GoalUC:       usecase.NewGoalUseCase(goalRepo, activity),
		ResolutionUC: billing.NewResolutionUseCase(resolutionRepo, activity),
		InvoiceUC: billing.NewInvoiceUseCase(billing.InvoiceDeps{
			Tx:          txRunner,
			Invoices:    invoiceRepo,
			Resolutions: resolutionRepo,
			Customers:   customerRepo,
			Terminals:   terminalRepo,
			Users:       userRepo,
			Companies:   companyRepo,
			Receipts:    infrapdf.NewMarotoReceiptGenerator(),
			Activity:    activity,
			Counter:     counter,
			Stats:       statsUC,
		}),
		MovementUC: inventory.NewMovementUseCase(txRunner, movementRepo, productRepo, providerRepo, userRepo, activity, counter),
		StatsUC:    statsUC,
		ReportsUC: reports.NewUseCase(postgres.NewReportRepository(pool), companyRepo, excel.NewRenderer(), activity, reports.EInvoiceConfig{
			Prefix:           cfg.EInvoice.Prefix,
			DocType:          cfg.EInvoice.DocType,
			Note:             cfg.EInvoice.Note,
			DefaultWarehouse: cfg.EInvoice.DefaultWarehouse,
			Warehouses:       cfg.EInvoice.Warehouses,
			VATRate:          vat,
		}),
		JWTSecret: cfg.JWT.Secret,
	}
	return c, nil
}

// Close libera el pool y el cliente de Redis.
func (c *Container) Close() {
	if c.redis != nil {
		_ = c.redis.Close()
	}
	c.Pool.Close()
}
