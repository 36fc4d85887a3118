package appcontext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/api/handler"
	m "github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/api/router"
	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/infra/storage"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/ratelimit"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// orderProducer kafka 與 noop 版本共用
type orderProducer interface {
	service.IOrderEventPublisher
	Close() error
}

type ApplicationContext struct {
	Cf     *config.Config
	Logger *zerolog.Logger

	DbConn      *pgxpool.Pool
	Store       db.ITxStore
	RedisClient *redis.Client
	SessionRepo repository.ISessionRepository

	Images        storage.ImageStorage
	LocalImages   *storage.LocalStorage
	OrderProducer orderProducer
	Limiter       ratelimit.ILimiter

	SessionService  service.ISessionService
	UserService     service.IUserService
	ProductService  service.IProductService
	CartService     service.ICartService
	CheckoutService service.ICheckoutService
	OrderService    service.IOrderService
	ExportService   service.IExportService
}

func NewApplicationContext(cf *config.Config) (*ApplicationContext, error) {
	app := ApplicationContext{
		Cf: cf,
	}
	err := app.Init()
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (app *ApplicationContext) Init() error {
	app.setUpLogger()

	steps := []func() error{
		app.setUpStore,
		app.setUpSessionRepo,
		app.setUpImageStorage,
		app.setUpOrderProducer,
		app.setUpLimiter,
		app.setUpServices,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (app *ApplicationContext) setUpLogger() {
	level, err := zerolog.ParseLevel(strings.ToLower(app.Cf.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if constants.ENV(app.Cf.Env) == constants.Debug || constants.ENV(app.Cf.Env) == constants.Dev {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	logger = logger.Level(level).With().Timestamp().Str("service", "storefront").Logger()
	app.Logger = &logger
	app.Logger.Info().Str("env", app.Cf.Env).Str("storage", app.Cf.StorageDriver).Msg("Finish setup logger")
}

func (app *ApplicationContext) setUpStore() error {
	app.Logger.Info().Msg("Start setup store")
	if app.Cf.IsMemoryStorage() {
		app.Store = memdb.NewMemoryDB()
		app.Logger.Warn().Msg("using in-memory store, data is lost on restart")
		app.Logger.Info().Msg("Finish setup store")
		return nil
	}

	dsn := db.GetDSN(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err := RunDBMigration(app.Cf.MigrationURL, dsn); err != nil {
		return fmt.Errorf("failed to run migration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	gormDB, pool, err := db.GetDbConn(ctx, dsn, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	app.DbConn = pool
	app.Store = db.NewUnifiedDB(gormDB)
	app.Logger.Info().Msg("Finish setup store")
	return nil
}

func (app *ApplicationContext) setUpSessionRepo() error {
	app.Logger.Info().Msg("Start setup session repository")
	if app.Cf.IsMemoryStorage() || app.Cf.RedisAddr == "" {
		app.SessionRepo = memdb.NewMemorySessionStore()
		app.Logger.Info().Msg("Finish setup session repository")
		return nil
	}

	app.RedisClient = redis_repo.GetRedisClient(app.Cf.RedisAddr,
		redis_repo.WithPassword(app.Cf.RedisPassword),
		redis_repo.WithDB(app.Cf.RedisDB),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.RedisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	app.SessionRepo = redis_repo.NewSessionRepo(app.RedisClient)
	app.Logger.Info().Msg("Finish setup session repository")
	return nil
}

func (app *ApplicationContext) setUpImageStorage() error {
	app.Logger.Info().Msg("Start setup image storage")
	if app.Cf.CloudinaryURL != "" {
		images, err := storage.NewCloudinaryStorage(app.Cf.CloudinaryURL)
		if err != nil {
			return fmt.Errorf("failed to setup cloudinary: %w", err)
		}
		app.Images = images
		app.Logger.Info().Msg("Finish setup image storage")
		return nil
	}

	local, err := storage.NewLocalStorage(app.Cf.UploadFolder)
	if err != nil {
		return err
	}
	app.LocalImages = local
	app.Images = local
	app.Logger.Info().Str("dir", local.Dir()).Msg("Finish setup image storage")
	return nil
}

func (app *ApplicationContext) setUpOrderProducer() error {
	app.Logger.Info().Msg("Start setup order producer")
	brokers := app.Cf.KafkaBrokerList()
	if len(brokers) == 0 {
		app.OrderProducer = producer.NewNoopOrderProducer(app.Logger)
		app.Logger.Info().Msg("Finish setup order producer")
		return nil
	}

	p, err := producer.NewOrderProducer(producer.OrderProducerConfig{
		Brokers: brokers,
		Topic:   app.Cf.KafkaOrderTopic,
	}, app.Logger)
	if err != nil {
		return err
	}
	app.OrderProducer = p
	app.Logger.Info().Msg("Finish setup order producer")
	return nil
}

// setUpLimiter 有 redis 時多個 process 共用 bucket
func (app *ApplicationContext) setUpLimiter() error {
	app.Logger.Info().Msg("Start setup rate limiter")
	cfg := &ratelimit.LimiterConfig{
		Capacity: app.Cf.RateLimitCapacity,
		RatePS:   app.Cf.RateLimitPerSec,
	}
	if app.RedisClient != nil {
		app.Limiter = ratelimit.NewRedisTokenBucket(app.RedisClient, cfg)
	} else {
		app.Limiter = ratelimit.NewKeyedTokenBucket(cfg)
	}
	app.Logger.Info().Msg("Finish setup rate limiter")
	return nil
}

func (app *ApplicationContext) setUpServices() error {
	app.Logger.Info().Msg("Start setup services")
	app.SessionService = service.NewSessionService(app.SessionRepo, app.Cf.SessionTTL())
	app.UserService = service.NewUserService(app.Store, app.Cf.AdminEmail)
	app.ProductService = service.NewProductService(app.Store, app.Images)
	app.CartService = service.NewCartService(app.Store, app.SessionService)
	app.CheckoutService = service.NewCheckoutService(app.Store, app.OrderProducer, app.Logger)
	app.OrderService = service.NewOrderService(app.Store)
	app.ExportService = service.NewExportService(app.Store)
	app.Logger.Info().Msg("Finish setup services")
	return nil
}

// NewServer 組出 router 需要的 handler
func (app *ApplicationContext) NewServer() *router.Server {
	server := &router.Server{
		CatalogHandler: handler.NewCatalogHandler(app.ProductService, app.SessionService),
		CartHandler:    handler.NewCartHandler(app.CartService, app.SessionService),
		OrderHandler:   handler.NewOrderHandler(app.CheckoutService, app.OrderService, app.SessionService),
		AuthHandler:    handler.NewAuthHandler(app.UserService, app.SessionService),
		AdminHandler:   handler.NewAdminHandler(app.ProductService, app.ExportService, app.SessionService, app.Cf.ExportFolder),
		SessionService: app.SessionService,
		UserService:    app.UserService,
		Limiter:        app.Limiter,
		Cookie: m.SessionCookieConfig{
			Name:   app.Cf.SessionCookieName,
			TTL:    app.Cf.SessionTTL(),
			Secure: constants.ENV(app.Cf.Env) == constants.Prod,
		},
	}
	if app.LocalImages != nil {
		server.UploadHandler = handler.NewUploadHandler(app.LocalImages)
	}
	return server
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	app.Logger.Info().Msg("Start application shutdown")

	done := make(chan error, 1)
	go func() {
		var g errgroup.Group
		if app.OrderProducer != nil {
			g.Go(app.OrderProducer.Close)
		}
		if stopper, ok := app.Limiter.(interface{ Stop() }); ok {
			g.Go(func() error {
				stopper.Stop()
				return nil
			})
		}
		if app.RedisClient != nil {
			g.Go(app.RedisClient.Close)
		}
		err := g.Wait()

		// 關閉 DB, producer flush 完之後才關
		if app.DbConn != nil {
			app.Logger.Info().Msg("Closing database connection...")
			app.DbConn.Close()
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		app.Logger.Info().Msg("Application shutdown complete")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}

// RunDBMigration 已是最新版本不算錯誤
func RunDBMigration(migrationURL string, dbSource string) error {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		return err
	}
	defer migration.Close()

	if err := migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
