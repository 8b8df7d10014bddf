package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"servigo/backend/internal/api/handler"
	"servigo/backend/internal/chat"
	"servigo/backend/internal/chathub"
	"servigo/backend/internal/config"
	"servigo/backend/internal/models"
	"servigo/backend/internal/notification"
	"servigo/backend/internal/status"
	"servigo/backend/internal/storage"
	"servigo/backend/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Complaint{},
		&models.ServiceRequest{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.Warning{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting ServiGo Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	hub := chathub.NewHub(s)
	notifSvc := notification.NewService(s)
	chatSvc := chat.NewService(s, notifSvc, hub.Registry)
	statusSvc := status.NewSynchronizer(s, notifSvc)

	go hub.Run()

	if cfg.TelegramBotToken != "" && cfg.TelegramAdminChatID != "" {
		alerter, err := telegram.NewAlerter(cfg.TelegramBotToken, cfg.TelegramAdminChatID, s)
		if err != nil {
			log.Fatalf("Failed to start Telegram alerter: %v", err)
		}
		go alerter.Run()
	}

	r := gin.Default()
	h := handler.NewHandler(hub, chatSvc, statusSvc, notifSvc, s, cfg.JWTSecret)
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
