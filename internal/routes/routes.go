package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Alwil17/mr-wallet-api/internal/auth"
	"github.com/Alwil17/mr-wallet-api/internal/category"
	"github.com/Alwil17/mr-wallet-api/internal/config"
	"github.com/Alwil17/mr-wallet-api/internal/debt"
	"github.com/Alwil17/mr-wallet-api/internal/file"
	"github.com/Alwil17/mr-wallet-api/internal/identity"
	"github.com/Alwil17/mr-wallet-api/internal/middleware"
	"github.com/Alwil17/mr-wallet-api/internal/notification"
	"github.com/Alwil17/mr-wallet-api/internal/transaction"
	"github.com/Alwil17/mr-wallet-api/internal/transfer"
	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDevelopment() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories, with in-memory fallbacks for development.
	var (
		walletRepo      wallet.Repository
		transferRepo    transfer.Repository
		transactionRepo transaction.Repository
		debtRepo        debt.Repository
		categoryRepo    category.Repository
		fileRepo        file.Repository
		identityRepo    identity.Repository
	)
	if d.DB != nil {
		walletRepo = wallet.NewPostgresRepository(d.DB)
		transferRepo = transfer.NewPostgresRepository(d.DB)
		transactionRepo = transaction.NewPostgresRepository(d.DB)
		debtRepo = debt.NewPostgresRepository(d.DB)
		categoryRepo = category.NewPostgresRepository(d.DB)
		fileRepo = file.NewPostgresRepository(d.DB)
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		memWallets := wallet.NewMemoryRepository()
		walletRepo = memWallets
		transferRepo = transfer.NewMemoryRepository(memWallets)
		transactionRepo = transaction.NewMemoryRepository()
		debtRepo = debt.NewMemoryRepository()
		categoryRepo = category.NewMemoryRepository()
		fileRepo = file.NewMemoryRepository()
		identityRepo = identity.NewMemoryRepository()
	}

	fileStore, err := file.NewDiskStore(d.Cfg.UploadDir)
	if err != nil {
		return err
	}

	// Services
	notifier := notification.NewLoggerNotifier(d.Logger)
	walletSvc := wallet.NewService(walletRepo)
	transferSvc := transfer.NewService(transferRepo, walletRepo, notifier)
	transactionSvc := transaction.NewService(transactionRepo, walletRepo)
	debtSvc := debt.NewService(debtRepo, walletRepo, notifier)
	categorySvc := category.NewService(categoryRepo)
	fileSvc := file.NewService(fileRepo, fileStore, transactionRepo)
	identitySvc := identity.NewService(identityRepo, identity.UserData{
		Wallets:      walletRepo,
		Transfers:    transferRepo,
		Transactions: transactionRepo,
		Debts:        debtRepo,
		Categories:   categoryRepo,
		Files:        fileSvc,
	}, categorySvc, d.Logger)

	var tokenStore auth.TokenStore
	if d.Cache != nil {
		tokenStore = auth.NewRedisTokenStore(d.Cache)
	} else {
		tokenStore = auth.NewMemoryTokenStore()
	}
	authSvc := auth.NewService(d.Cfg, identitySvc, tokenStore)

	// Handlers
	authHandler := auth.NewHandler(authSvc)
	identityHandler := identity.NewHandler(identitySvc)
	walletHandler := wallet.NewHandler(walletSvc)
	transferHandler := transfer.NewHandler(transferSvc)
	transactionHandler := transaction.NewHandler(transactionSvc)
	debtHandler := debt.NewHandler(debtSvc)
	categoryHandler := category.NewHandler(categorySvc)
	fileHandler := file.NewHandler(fileSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	jwtmw := middleware.JWTAuth(authSvc)
	RegisterAuthRoutes(api, authHandler, identityHandler, rateLimiter, jwtmw)

	// Protected routes
	protected := api.Group("", jwtmw)
	RegisterWalletRoutes(protected, walletHandler)
	RegisterTransferRoutes(protected, transferHandler)
	RegisterTransactionRoutes(protected, transactionHandler, fileHandler)
	RegisterDebtRoutes(protected, debtHandler)
	RegisterCategoryRoutes(protected, categoryHandler)

	return nil
}
