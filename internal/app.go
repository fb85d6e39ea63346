package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	token_adapter "listing-web/internal/adapters/jwt"
	logger_adapter "listing-web/internal/adapters/logger"
	postgres_adapter "listing-web/internal/adapters/postgres"
	rabbitmq_adapter "listing-web/internal/adapters/rabbitmq"
	"listing-web/internal/adapters/rest"
	"listing-web/internal/configs"
	"listing-web/internal/constants"
	"listing-web/internal/core/port"
	"listing-web/internal/core/port/usecases_port"
	"listing-web/internal/core/usecase"
	fluentlogger "listing-web/pkg/fluent_logger"
	"listing-web/pkg/postgres"
	"listing-web/pkg/rabbitmq/rabbitmq_common"
	"listing-web/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// UseCases - ядро приложения; им пользуются и HTTP-сервер, и listingctl.
type UseCases struct {
	LoadListing          usecases_port.LoadListingUseCasePort
	ImportListing        usecases_port.ImportListingUseCasePort
	SignUp               usecases_port.SignUpUseCasePort
	SignIn               usecases_port.SignInUseCasePort
	ResolveSession       usecases_port.ResolveSessionUseCasePort
	SendPasswordReset    usecases_port.SendPasswordResetUseCasePort
	ConfirmPasswordReset usecases_port.ConfirmPasswordResetUseCasePort
	GetContact           usecases_port.GetContactUseCasePort
}

type App struct {
	config   *configs.AppConfig
	logger   port.LoggerPort
	useCases UseCases

	dbPool        *pgxpool.Pool
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	fluentClient  *fluent.Fluent
}

// NewApp поднимает логгеры, Postgres, RabbitMQ и собирает use case'ы.
// При ошибке уже открытые ресурсы закрываются.
func NewApp(ctx context.Context) (_ *App, err error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	a := &App{config: appConfig}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if err := a.initLogger(); err != nil {
		return nil, err
	}
	appLogger := a.logger.WithFields(port.Fields{"component": "app"})

	a.dbPool, err = postgres.NewClient(ctx, postgres.Config{
		DatabaseURL: appConfig.Database.URL,
		MaxConns:    appConfig.Database.MaxConns,
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	appLogger.Info("PostgreSQL connection pool initialized", nil)

	documentStore, err := postgres_adapter.NewDocumentStore(a.dbPool)
	if err != nil {
		return nil, err
	}
	userRepo, err := postgres_adapter.NewUserRepository(a.dbPool)
	if err != nil {
		return nil, err
	}

	tokenService, err := token_adapter.NewTokenService(appConfig.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(a.logger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	a.connManager, err = rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, connManagerBridge)
	if err != nil {
		appLogger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized", nil)

	a.eventProducer, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		ExchangeName:             constants.IdentityExchange,
		ExchangeType:             constants.IdentityExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		ConfirmDelivery:          true,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(a.logger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
	}, a.connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	appLogger.Info("RabbitMQ Event Producer initialized", nil)

	resetQueue, err := rabbitmq_adapter.NewPasswordResetQueueAdapter(a.eventProducer, constants.PasswordResetRequestedRoutingKey)
	if err != nil {
		return nil, err
	}

	a.useCases = UseCases{
		LoadListing:          usecase.NewLoadListingUseCase(documentStore),
		ImportListing:        usecase.NewImportListingUseCase(documentStore),
		SignUp:               usecase.NewSignUpUseCase(userRepo, tokenService, appConfig.Auth.SessionTTL),
		SignIn:               usecase.NewSignInUseCase(userRepo, tokenService, appConfig.Auth.SessionTTL),
		ResolveSession:       usecase.NewResolveSessionUseCase(tokenService),
		SendPasswordReset:    usecase.NewSendPasswordResetUseCase(userRepo, tokenService, resetQueue, appConfig.Rest.PublicBaseURL, appConfig.Auth.ResetTokenTTL),
		ConfirmPasswordReset: usecase.NewConfirmPasswordResetUseCase(userRepo, tokenService),
		GetContact:           usecase.NewGetContactUseCase(userRepo),
	}
	appLogger.Info("All use cases initialized", nil)

	return a, nil
}

func (a *App) initLogger() error {
	cfg := a.config
	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer:   os.Stderr,
		Level:    logger_adapter.ParseLevel(cfg.StdoutLogger.Level),
		UseColor: true,
	})
	activeLoggers := []port.LoggerPort{stdoutLogger}

	if cfg.FluentBit.Enabled {
		client, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		a.fluentClient = client

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(client, logger_adapter.ParseLevel(cfg.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			return err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiLoggerAdapter(activeLoggers...)
	if err != nil {
		return fmt.Errorf("failed to create multi-logger: %w", err)
	}
	a.logger = multiLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	a.logger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers),
		"fluent_enabled": cfg.FluentBit.Enabled,
	})
	return nil
}

func (a *App) Config() *configs.AppConfig { return a.config }

func (a *App) Logger() port.LoggerPort { return a.logger }

func (a *App) UseCases() UseCases { return a.useCases }

// Run запускает HTTP-сервер и ждет SIGINT/SIGTERM или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	appLogger := a.logger.WithFields(port.Fields{"component": "app"})

	renderer, err := rest.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to load page templates: %w", err)
	}

	uc := a.useCases
	serverCfg := rest.ServerConfig{
		Port:               a.config.Rest.Port,
		CORSAllowedOrigins: a.config.Rest.CORSAllowedOrigins,
	}
	router := rest.NewRouter(serverCfg, rest.Handlers{
		Pages:    rest.NewPageHandlers(renderer),
		Listings: rest.NewListingHandlers(uc.LoadListing, renderer, a.config.Rest.PublicBaseURL, a.config.ListingView.ShareLinkReset),
		Auth:     rest.NewAuthHandlers(uc.SignIn, uc.SignUp, renderer),
		Password: rest.NewPasswordHandlers(uc.SendPasswordReset, uc.ConfirmPasswordReset, renderer),
		Contact:  rest.NewContactHandlers(uc.GetContact, renderer),
	}, uc.ResolveSession, a.logger)
	server := rest.NewServer(serverCfg, router, a.logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Warn("Shutdown sequence initiated...", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			appLogger.Error("Error during HTTP server shutdown", err, nil)
			return err
		}
		return nil
	})

	appLogger.Info("Application running. Waiting for signals or server error...", nil)
	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	appLogger.Info("Application shut down gracefully", nil)
	return nil
}

// Close освобождает ресурсы в обратном порядке. Fluent закрывается
// последним, чтобы успели уйти записи об остановке.
func (a *App) Close() {
	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
