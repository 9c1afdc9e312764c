package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	_ "github.com/jackc/pgx/v4"        // for pgx driver import.
	_ "github.com/jackc/pgx/v4/stdlib" // for pgx driver import.
	_ "go.uber.org/automaxprocs"       // Automatically set GOMAXPROCS to match Linux container CPU quota.

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/ecomlab/seller_insights/internal/config"
	"github.com/ecomlab/seller_insights/internal/consul"
	"github.com/ecomlab/seller_insights/internal/env"
	"github.com/ecomlab/seller_insights/internal/logger"
	"github.com/ecomlab/seller_insights/internal/logger/field"
	"github.com/ecomlab/seller_insights/internal/servers/http"
	"github.com/ecomlab/seller_insights/internal/services/analytics"
	"github.com/ecomlab/seller_insights/internal/services/controllers"
	"github.com/ecomlab/seller_insights/internal/services/controllers/general/monitor"
	"github.com/ecomlab/seller_insights/internal/services/controllers/master/harvester"
	"github.com/ecomlab/seller_insights/internal/services/listing"
	"github.com/ecomlab/seller_insights/internal/services/signer"
	"github.com/ecomlab/seller_insights/internal/services/storage"
	"github.com/ecomlab/seller_insights/internal/services/storage/model"
	"github.com/ecomlab/seller_insights/internal/services/storage/postgres"
	"github.com/ecomlab/seller_insights/internal/services/sync"
	"github.com/ecomlab/seller_insights/internal/uuid"
)

const (
	appStartTimeout = 10 * time.Second
	appStopTimeout  = 10 * time.Second

	shutDownTimeout = 5 * time.Second
)

// THIS VARS PASSED INTO PROGRAM BY -X arg in build step (@see Dockerfile).
// nolint gochecknoglobals
var (
	// AppName - application name.
	AppName = env.Name
	// AppVersion - application version ( CI_COMMIT_TAG ).
	AppVersion = "vX.X.X"
	// AppEnv - environment (dev|test|stage|prod).
	AppEnv = env.Dev
)

var AppNodeName = uuid.MustUUID4()

// ConfigPath - config path.
var ConfigPath = flag.String("config", "./configs", "configs path")

type application struct {
	name       string
	version    string
	env        string
	configPath string

	startTimeout time.Duration
	stopTimeout  time.Duration
}

func main() {
	rand.Seed(time.Now().UTC().UnixNano())
	flag.Parse()

	app := &application{
		name:    AppName,
		version: AppVersion,
		env:     AppEnv,

		configPath: *ConfigPath,

		startTimeout: appStartTimeout,
		stopTimeout:  appStopTimeout,
	}

	app.run()
}

// Use DI patteern -> https://en.wikipedia.org/wiki/Dependency_injection
func (a *application) run() {
	fxApp := fx.New(
		fx.Provide(
			func() (context.Context, context.CancelFunc) {
				return context.WithCancel(context.Background())
			},
			func() (config.Config, error) {
				cfg, err := config.New(a.name, a.env, a.configPath, AppNodeName)
				if err != nil {
					return cfg, fmt.Errorf("config.New: %w", err)
				}

				return cfg, nil
			},
			func(config logger.Config) (*logger.Logger, error) {
				return logger.New(config, a.env, a.name, a.version)
			},
			consul.New,
			func(storageCfg storage.Config, logger *logger.Logger,
			) (storage.Storage, error) {
				return postgres.New(storageCfg, logger)
			},
			signer.New,
			listing.New,
			func(l *logger.Logger, s storage.Storage, client listing.Client) *sync.Service {
				return sync.New(l, s.Shops(), s.Products(), s.Snapshots(), client)
			},
			func(l *logger.Logger, s storage.Storage) *analytics.Service {
				return analytics.New(l, s.Shops(), s.Snapshots())
			},
			func(cfg http.Config, l *logger.Logger, s storage.Storage,
				an *analytics.Service, sy *sync.Service,
			) (*http.Server, error) {
				return http.New(a.env, cfg, l, s, an, sy)
			},
			func(cfg controllers.Config, l *logger.Logger, s storage.Storage, engine *sync.Service,
			) (*harvester.ControllerDaemon, error) {
				return harvester.New(cfg, l, s.Shops(), engine)
			},
		),
		fx.Invoke(a.start),
		fx.StartTimeout(a.startTimeout),
		fx.StopTimeout(a.startTimeout),
	)

	fxApp.Run()
}

func (a *application) start(
	lc fx.Lifecycle,
	globalContext context.Context,
	globalContextCancel context.CancelFunc,
	controllersCfg controllers.Config,
	log *logger.Logger,
	consul *consul.Client,
	storage storage.Storage,
	httpServer *http.Server,
	harvester *harvester.ControllerDaemon,
) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			log.Info("starting " + a.name)

			if err := consul.Register(log, httpServer); err != nil {
				log.Error("error on consul registration", zap.Error(err))

				return fmt.Errorf("problem consul.Register: %w", err)
			}

			log.Info("Apply migration")

			if err := storage.Migrate(globalContext); err != nil {
				return fmt.Errorf("storage.Migrate: %w", err)
			}

			httpServer.Run()

			// todo env related stuff
			switch a.env {
			case env.Dev:
				logger.LogIfError(log, "Refresh error",
					storage.Refresh(globalContext, model.AllTables))
			case env.Stage:
			case env.Test:
			case env.Prod:
			}

			mon, err := monitor.New(a.version, controllersCfg, log, consul,
				[]controllers.DaemonController{harvester}...)
			if err != nil {
				return fmt.Errorf("can't create monitor: %w", err)
			}

			return mon.Run(globalContext)
		},
		OnStop: func(_ context.Context) error {
			shutDownCtx, shutDownCtxCancel := context.WithTimeout(context.Background(), shutDownTimeout)
			defer shutDownCtxCancel()

			consul.Deregister(log, httpServer)

			httpServer.Stop(shutDownCtx)

			globalContextCancel()

			storage.Close()

			log.Info("stopped", field.Error(log.Sync()))

			return nil
		},
	})
}
