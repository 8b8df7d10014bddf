package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"servigo/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist. Callers
// translate it into their own not-found errors at the service boundary.
var ErrNotFound = errors.New("record not found")

// eventChannel is the Redis Pub/Sub channel every committed realtime event is
// published to. The hub (and the Telegram alerter) subscribe to it.
const eventChannel = "realtime:events"

type Storage interface {
	// Messages
	AppendMessage(msg *models.ChatMessage) error
	ListMessages(key models.RoomKey) ([]models.ChatMessage, error)

	// Notifications
	CreateNotification(n *models.Notification) error
	ListNotifications(recipientID uint) ([]models.Notification, error)
	MarkNotificationRead(id, recipientID uint) (bool, error)
	UnreadNotificationCount(recipientID uint) (int64, error)

	// Scopes
	GetComplaintByID(id uint) (*models.Complaint, error)
	GetServiceRequestByID(id uint) (*models.ServiceRequest, error)
	UpdateComplaintStatus(id uint, status string) error
	UpdateComplaintReply(id uint, response string) error
	UpdateServiceRequestStatus(id uint, status string) error

	// Users
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)

	// Warnings
	SaveWarning(w *models.Warning) error
	ListWarningsForProvider(providerID uint) ([]models.Warning, error)

	// Event bus
	PublishEvent(env models.Envelope) error
	SubscribeEvents() *redis.PubSub
}

// Service is the PostgreSQL + Redis implementation of Storage.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// AppendMessage persists a chat message. The DB assigns the id and timestamp,
// which define the delivery order for the message's scope.
func (s *Service) AppendMessage(msg *models.ChatMessage) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to append message for sender %d: %v", msg.SenderID, err)
		return err
	}
	return nil
}

// ListMessages returns the full message history of a scope, oldest first.
func (s *Service) ListMessages(key models.RoomKey) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	q := s.DB.Order("id asc")
	if key.Type == models.ScopeComplaint {
		q = q.Where("complaint_id = ?", key.ID)
	} else {
		q = q.Where("service_request_id = ?", key.ID)
	}
	if err := q.Find(&messages).Error; err != nil {
		log.Printf("ERROR: Failed to list messages for %s: %v", key, err)
		return nil, err
	}
	return messages, nil
}

// CreateNotification persists a notification and bumps the recipient's unread
// counter in Redis. The counter is a cache; the table stays authoritative.
func (s *Service) CreateNotification(n *models.Notification) error {
	if err := s.DB.Create(n).Error; err != nil {
		log.Printf("ERROR: Failed to create notification for user %d: %v", n.RecipientID, err)
		return err
	}
	if s.Redis != nil {
		if err := s.Redis.Incr(s.Ctx, unreadKey(n.RecipientID)).Err(); err != nil {
			log.Printf("WARNING: Failed to bump unread counter for user %d: %v", n.RecipientID, err)
		}
	}
	return nil
}

// ListNotifications returns a user's notifications, newest first.
func (s *Service) ListNotifications(recipientID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("recipient_id = ?", recipientID).
		Order("created_at desc").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flips is_read to true. It reports whether the call
// actually transitioned the row; marking an already-read notification is a
// no-op, not an error.
func (s *Service) MarkNotificationRead(id, recipientID uint) (bool, error) {
	var n models.Notification
	err := s.DB.Where("id = ? AND recipient_id = ?", id, recipientID).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}
	if n.IsRead {
		return false, nil
	}

	res := s.DB.Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true)
	if res.Error != nil {
		return false, res.Error
	}
	transitioned := res.RowsAffected > 0
	if transitioned && s.Redis != nil {
		if err := s.Redis.Decr(s.Ctx, unreadKey(recipientID)).Err(); err != nil {
			log.Printf("WARNING: Failed to decrement unread counter for user %d: %v", recipientID, err)
		}
	}
	return transitioned, nil
}

// UnreadNotificationCount serves the badge counter from Redis, falling back to
// a DB count when the cache is cold or Redis is unavailable.
func (s *Service) UnreadNotificationCount(recipientID uint) (int64, error) {
	if s.Redis != nil {
		count, err := s.Redis.Get(s.Ctx, unreadKey(recipientID)).Int64()
		if err == nil {
			return count, nil
		}
		if !errors.Is(err, redis.Nil) {
			log.Printf("WARNING: Unread counter read failed for user %d: %v", recipientID, err)
		}
	}

	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	if s.Redis != nil {
		if err := s.Redis.Set(s.Ctx, unreadKey(recipientID), count, 0).Err(); err != nil {
			log.Printf("WARNING: Failed to warm unread counter for user %d: %v", recipientID, err)
		}
	}
	return count, nil
}

func unreadKey(recipientID uint) string {
	return fmt.Sprintf("notif:unread:%d", recipientID)
}

func (s *Service) GetComplaintByID(id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.First(&complaint, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get complaint %d: %v", id, err)
		return nil, err
	}
	return &complaint, nil
}

func (s *Service) GetServiceRequestByID(id uint) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	err := s.DB.First(&request, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get service request %d: %v", id, err)
		return nil, err
	}
	return &request, nil
}

// UpdateComplaintStatus persists a complaint status value. Enum validation is
// the status synchronizer's job; storage writes what it is given.
func (s *Service) UpdateComplaintStatus(id uint, status string) error {
	res := s.DB.Model(&models.Complaint{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateComplaintReply stores the admin's reply and moves the complaint to
// "reviewed" in the same write.
func (s *Service) UpdateComplaintReply(id uint, response string) error {
	res := s.DB.Model(&models.Complaint{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"admin_response": response,
			"status":         models.ComplaintStatusReviewed,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) UpdateServiceRequestStatus(id uint, status string) error {
	updates := map[string]interface{}{"status": status}
	if status == models.RequestStatusCompleted {
		updates["completed_at"] = gorm.Expr("NOW()")
	}
	res := s.DB.Model(&models.ServiceRequest{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) SaveWarning(w *models.Warning) error {
	if err := s.DB.Create(w).Error; err != nil {
		log.Printf("ERROR: Failed to save warning for provider %d: %v", w.ProviderID, err)
		return err
	}
	return nil
}

func (s *Service) ListWarningsForProvider(providerID uint) ([]models.Warning, error) {
	var warnings []models.Warning
	err := s.DB.Where("provider_id = ?", providerID).
		Order("created_at desc").
		Find(&warnings).Error
	if err != nil {
		return nil, err
	}
	return warnings, nil
}

// PublishEvent publishes a routed event envelope to the Redis event bus.
// Publication always happens after the related DB write has committed, so a
// client can confirm any event it receives by reading the store back.
func (s *Service) PublishEvent(env models.Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(s.Ctx, eventChannel, payload).Err(); err != nil {
		log.Printf("ERROR: Failed to publish %s event: %v", env.Event.Name, err)
		return err
	}
	return nil
}

// SubscribeEvents subscribes to the realtime event bus.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, eventChannel)
}
