package main

import (
	"context"
	"flag"
	"log"
	"time"

	"savoria/config"
	httpapi "savoria/internal/api/http"
	"savoria/internal/auth"
	"savoria/internal/catalog"
	"savoria/internal/checkout"
	"savoria/internal/session"
	"savoria/internal/storage"
)

func main() {
	cfgFile := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db := config.MustInitPostgres(cfg.Database)
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	var menuCache catalog.MenuCache
	if client := config.MustInitRedis(cfg.Redis); client != nil {
		menuCache = storage.NewRedisMenuCache(client, cfg.Redis.MenuTTL)
	}

	var publisher checkout.EventPublisher
	if writer := config.NewKafkaWriter(cfg.Kafka); writer != nil {
		publisher = storage.NewKafkaPublisher(writer)
	}
	if reader := config.NewKafkaReader(cfg.Kafka); reader != nil {
		consumer := storage.NewStatusConsumer(reader, repo)
		go consumer.Start(context.Background())
	}

	sessions := session.NewManager()
	go sessions.StartSweeper(context.Background(), 10*time.Minute)

	handler := httpapi.NewHandler(
		auth.NewAuthService(repo),
		catalog.NewMenuService(repo, menuCache),
		checkout.NewCheckoutService(repo, publisher, checkout.DefaultQRGenerator{BaseURL: cfg.BaseURL}),
		sessions,
		auth.NewGate(cfg.OwnerPIN),
		cfg.UploadDir,
	)

	httpapi.StartServer(cfg.HTTPAddr, httpapi.NewRouter(handler))
}
