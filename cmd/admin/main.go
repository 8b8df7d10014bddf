package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"servigo/backend/internal/config"
	"servigo/backend/internal/notification"
	"servigo/backend/internal/status"
	"servigo/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Admin CLI for complaint moderation. Changes go through the same status
// synchronizer as the HTTP API, so connected clients in the affected rooms
// see the transition live.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("failed to connect Redis: %v", err)
	}

	storageSvc := storage.NewStorageService(db, rdb)
	notifSvc := notification.NewService(storageSvc)
	statusSvc := status.NewSynchronizer(storageSvc, notifSvc)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands:")
		fmt.Println("  set-status <complaint_id> <status>")
		fmt.Println("  reply <complaint_id> <response...>")
		fmt.Println("  warn <complaint_id> <admin_id> <message...>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "set-status":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin set-status <complaint_id> <status>")
			os.Exit(1)
		}
		id := parseID(os.Args[2])
		if err := statusSvc.SetComplaintStatus(id, os.Args[3], 0); err != nil {
			log.Fatalf("Error setting status: %v", err)
		}
		fmt.Printf("Complaint %d set to %s.\n", id, os.Args[3])

	case "reply":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin reply <complaint_id> <response...>")
			os.Exit(1)
		}
		id := parseID(os.Args[2])
		response := strings.Join(os.Args[3:], " ")
		if err := statusSvc.ReplyToComplaint(id, response, 0); err != nil {
			log.Fatalf("Error replying: %v", err)
		}
		fmt.Printf("Replied to complaint %d (now reviewed).\n", id)

	case "warn":
		if len(os.Args) < 5 {
			fmt.Println("Usage: admin warn <complaint_id> <admin_id> <message...>")
			os.Exit(1)
		}
		id := parseID(os.Args[2])
		adminID := parseID(os.Args[3])
		message := strings.Join(os.Args[4:], " ")
		warning, err := statusSvc.WarnProvider(id, adminID, message)
		if err != nil {
			log.Fatalf("Error warning provider: %v", err)
		}
		fmt.Printf("Warning %d issued to provider %d.\n", warning.ID, warning.ProviderID)

	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func parseID(arg string) uint {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		fmt.Printf("Invalid id %q. Please provide a positive integer.\n", arg)
		os.Exit(1)
	}
	return uint(id)
}
