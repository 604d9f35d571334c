package main

import (
	// Go Internal Packages
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	// Local Packages
	auth "pay-broker/auth"
	config "pay-broker/config"
	gateway "pay-broker/gateway"
	handlers "pay-broker/handlers"
	helpers "pay-broker/helpers"
	kafka "pay-broker/kafka"
	registry "pay-broker/registry"
	mongodb "pay-broker/repositories/mongodb"
	postgres "pay-broker/repositories/postgres"
	redis "pay-broker/repositories/redis"
	payments "pay-broker/services/payments"

	// External Packages
	"github.com/alecthomas/kingpin/v2"
	"github.com/goccy/go-json"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

func main() {
	configPath := kingpin.Flag("config", "Path to the application config file").Short('c').Default("config.yml").String()
	listIncidents := kingpin.Flag("list-incidents", "Print the CRITICAL incidents waiting for reconciliation and exit").Bool()
	kingpin.Parse()

	k := config.LoadKoanf(*configPath)
	appKonf := config.Config{}

	// Unmarshalling config into struct
	err := k.Unmarshal("", &appKonf)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	appKonf, err = config.LoadSecrets(appKonf)
	if err != nil {
		log.Fatalf("Error loading secrets: %v", err)
	}

	// Validate the config loaded, listing incidents only needs redis
	validate := appKonf.Validate
	if *listIncidents {
		validate = appKonf.ValidateRedis
	}
	if err = validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if !appKonf.IsProdMode {
		k.Print()
	}

	logger, err := helpers.NewLogger(appKonf.Logger.Level, appKonf.Application)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis Connection
	redisClient, err := redis.Connect(ctx, appKonf.Redis.URI, appKonf.Redis.Password)
	if err != nil {
		logger.Fatal("cannot create redis client", zap.Error(err))
	}
	defer redisClient.Close()
	incidents := redis.NewIncidentQueue(redisClient)

	if *listIncidents {
		printIncidents(ctx, incidents, logger)
		return
	}

	ledger, closeLedger := connectLedger(ctx, appKonf, logger)
	defer closeLedger()

	metrics := kprom.NewMetrics("paybroker")
	var audit payments.AuditPublisher = kafka.LogPublisher{Logger: logger}
	if appKonf.Kafka.Publish {
		producer, err := kafka.NewAuditProducer(&kafka.ProducerConfig{
			Brokers: appKonf.Kafka.Brokers,
			Topic:   appKonf.Kafka.Topic,
		}, metrics, logger)
		if err != nil {
			logger.Fatal("cannot create audit producer", zap.Error(err))
		}
		defer producer.Close(context.Background())
		audit = producer
	}

	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL:     appKonf.Gateway.BaseURL,
		MerchantID:  appKonf.Gateway.MerchantID,
		CallbackURL: appKonf.Gateway.CallbackURL,
		Timeout:     appKonf.Gateway.Timeout,
	}, logger)
	registryClient := registry.NewClient(registry.CommandRunner{Command: appKonf.Registry.Command}, logger)

	orchestrator := payments.NewOrchestrator(
		payments.Config{UnitPrice: appKonf.Pricing.UnitPrice},
		logger, ledger, gatewayClient, registryClient, audit, incidents,
	)
	authenticator := auth.NewAuthenticator(appKonf.Tokens)
	handler := handlers.NewPaymentHandler(orchestrator, authenticator, logger)

	server := &http.Server{
		Addr:         appKonf.HTTP.Addr,
		Handler:      handlers.NewRouter(handler, metrics.Handler(), appKonf.HTTP.CORSOrigins, logger),
		ReadTimeout:  appKonf.HTTP.ReadTimeout,
		WriteTimeout: appKonf.HTTP.WriteTimeout,
	}

	logger.Info("listening", zap.String("addr", appKonf.HTTP.Addr), zap.String("ledger", appKonf.Ledger.Driver))
	if err := serve(ctx, server, logger); err != nil {
		logger.Fatal("cannot serve http", zap.Error(err))
	}
}

// connectLedger connects the configured ledger driver and returns it with its
// close function.
func connectLedger(ctx context.Context, appKonf config.Config, logger *zap.Logger) (payments.Ledger, func()) {
	switch appKonf.Ledger.Driver {
	case config.LedgerPostgres:
		pool, err := postgres.Connect(ctx, appKonf.Postgres.URI)
		if err != nil {
			logger.Fatal("cannot create postgres pool", zap.Error(err))
		}
		return postgres.NewLedgerRepository(pool), pool.Close
	default:
		mongoClient, err := mongodb.Connect(ctx, appKonf.Mongo.URI, appKonf.Application)
		if err != nil {
			logger.Fatal("cannot create mongo client", zap.Error(err))
		}
		return mongodb.NewLedgerRepository(mongoClient, appKonf.Mongo.Database), func() {
			_ = mongoClient.Disconnect(context.Background())
		}
	}
}

func printIncidents(ctx context.Context, incidents *redis.IncidentQueue, logger *zap.Logger) {
	pending, err := incidents.Pending(ctx)
	if err != nil {
		logger.Fatal("cannot read incidents", zap.Error(err))
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, incident := range pending {
		_ = enc.Encode(incident)
	}
	fmt.Fprintf(os.Stderr, "%d incident(s) pending\n", len(pending))
}
