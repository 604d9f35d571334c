package main

import (
	// Go Internal Packages
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	// Local Packages
	config "pay-broker/config"
	helpers "pay-broker/helpers"
	kafka "pay-broker/kafka"
	mongodb "pay-broker/repositories/mongodb"
	redis "pay-broker/repositories/redis"
	processors "pay-broker/services/processors"

	// External Packages
	"github.com/alecthomas/kingpin/v2"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

func main() {
	configPath := kingpin.Flag("config", "Path to the application config file").Short('c').Default("config.yml").String()
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

	// Validate the config loaded
	if err = appKonf.ValidateAudit(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if !appKonf.IsProdMode {
		k.Print()
	}

	logger, err := helpers.NewLogger(appKonf.Logger.Level, appKonf.Kafka.ConsumerName)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Mongo Connection
	mongoClient, err := mongodb.Connect(ctx, appKonf.Mongo.URI, appKonf.Kafka.ConsumerName)
	if err != nil {
		logger.Fatal("cannot create mongo client", zap.Error(err))
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	// Redis Connection
	redisClient, err := redis.Connect(ctx, appKonf.Redis.URI, appKonf.Redis.Password)
	if err != nil {
		logger.Fatal("cannot create redis client", zap.Error(err))
	}
	defer redisClient.Close()

	auditRepo := mongodb.NewAuditRepository(mongoClient, appKonf.Mongo.Database)
	dlQueue := redis.NewDeadLetterQueue(redisClient, logger)
	auditProcessor := processors.NewAuditProcessor(logger, auditRepo)

	metrics := kprom.NewMetrics("paybroker_audit")
	conf := &kafka.ConsumerConfig{
		Brokers:        appKonf.Kafka.Brokers,
		Name:           appKonf.Kafka.ConsumerName,
		Topic:          appKonf.Kafka.Topic,
		RecordsPerPoll: appKonf.Kafka.RecordsPerPoll,
	}

	auditConsumer, err := kafka.NewAuditConsumer(conf, logger, auditProcessor, dlQueue, metrics)
	if err != nil {
		logger.Fatal("cannot create audit consumer", zap.Error(err))
	}

	err = auditConsumer.Poll(ctx)
	if err != nil && ctx.Err() == nil {
		logger.Fatal("cannot poll records from topic", zap.Error(err))
	}
	logger.Info("audit consumer stopped")
}
