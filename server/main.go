package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"bitbucket.org/ConcurrentDragon/customer-products/internal/aggregator"
	"bitbucket.org/ConcurrentDragon/customer-products/internal/api"
	"bitbucket.org/ConcurrentDragon/customer-products/internal/catalog_database"
	"bitbucket.org/ConcurrentDragon/customer-products/internal/config"
	"bitbucket.org/ConcurrentDragon/customer-products/internal/customers"
	"bitbucket.org/ConcurrentDragon/customer-products/internal/logger"
	prometheus_monitoring "bitbucket.org/ConcurrentDragon/customer-products/internal/monitoring"
	"bitbucket.org/ConcurrentDragon/customer-products/internal/orders"
	"bitbucket.org/ConcurrentDragon/customer-products/internal/products"
)

func main() {
	configFlag := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fmt.Printf("Customer Products Server - Version %s\n", version)

	configPath := *configFlag
	if configPath == "" {
		var err error
		configPath, err = config.GetConfigPath()
		if err != nil {
			fmt.Printf("Failed to get config path: %v\n", err)
			os.Exit(configPathErr)
		}
	}

	err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(configLoadErr)
	}
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Printf("Failed to get config: %v\n", err)
		os.Exit(configGetErr)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(loggerErr)
	}
	defer log.Sync()

	log.Info("starting server",
		zap.String("config_path", configPath),
		zap.Bool("mocked", cfg.Mocked),
		zap.String("upstream_source", cfg.Upstream.Source),
	)

	var apiService api.ApiServicer
	if cfg.Mocked {
		apiService = api.NewMockedApiService()
	} else {
		switch cfg.Upstream.Source {
		case config.SourcePostgres:
			catalogDatabaseService, err := catalog_database.New(
				ctx,
				cfg.Postgres.Username,
				cfg.Postgres.Password,
				cfg.Postgres.Host,
				cfg.Postgres.Database,
				cfg.Postgres.QueriesPath,
				log,
			)
			if err != nil {
				log.Error("failed to create catalog database service", zap.Error(err))
				os.Exit(catalogDatabaseErr)
			}
			defer catalogDatabaseService.Close()

			aggregatorService := aggregator.New(
				catalog_database.NewCustomerLookup(catalogDatabaseService),
				catalog_database.NewOrderLookup(catalogDatabaseService),
				catalog_database.NewProductCatalog(catalogDatabaseService),
			)
			apiService = api.NewApiService(aggregatorService,
				api.StatusCheck{Name: "postgres", Pinger: catalogDatabaseService},
			)
		default:
			apiService, err = newUpstreamApiService(cfg.Upstream)
			if err != nil {
				log.Error("failed to create upstream services", zap.Error(err))
				os.Exit(upstreamErr)
			}
		}
	}

	router := api.NewRouter(apiService, log)

	prometheus_monitoring.RecordMetrics(ctx, cfg.Monitoring.StatusURL, cfg.Monitoring.StatusInterval, log)

	hostString := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    hostString,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", hostString))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("error starting server", zap.Error(err))
			os.Exit(serverErr)
		}
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
			os.Exit(serverErr)
		}
	}

	log.Info("server stopped")
	os.Exit(successCode)
}

// builds the aggregator over the customers, orders and products HTTP services
func newUpstreamApiService(upstreamConfig config.UpstreamConfig) (api.ApiServicer, error) {
	customersService, err := customers.New(upstreamConfig.CustomersBaseURL(), upstreamConfig.Timeout)
	if err != nil {
		return nil, err
	}
	ordersService, err := orders.New(upstreamConfig.OrdersBaseURL(), upstreamConfig.Timeout)
	if err != nil {
		return nil, err
	}
	productsService, err := products.New(upstreamConfig.ProductsBaseURL(), upstreamConfig.Timeout)
	if err != nil {
		return nil, err
	}

	aggregatorService := aggregator.New(customersService, ordersService, productsService)
	return api.NewApiService(aggregatorService,
		api.StatusCheck{Name: "customers", Pinger: customersService},
		api.StatusCheck{Name: "orders", Pinger: ordersService},
		api.StatusCheck{Name: "products", Pinger: productsService},
	), nil
}
