// Package telegram forwards complaint activity to an ops Telegram chat so
// admins see new complaint messages and status transitions without watching
// the dashboard. It is a passive consumer of the realtime event bus.
package telegram

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"servigo/backend/internal/models"
	"servigo/backend/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Alerter relays complaint events from the event bus into one admin chat.
type Alerter struct {
	BotAPI  *tgbotapi.BotAPI
	Storage storage.Storage
	chatID  int64
}

// NewAlerter creates an Alerter. token and adminChatID come from the
// environment; both are required.
func NewAlerter(token, adminChatID string, s storage.Storage) (*Alerter, error) {
	chatID, err := strconv.ParseInt(adminChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID: %w", err)
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("Telegram alerter authorized on account %s", bot.Self.UserName)

	return &Alerter{BotAPI: bot, Storage: s, chatID: chatID}, nil
}

// Run consumes the event bus until the subscription closes.
func (a *Alerter) Run() {
	pubsub := a.Storage.SubscribeEvents()
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var env models.Envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			log.Printf("Error unmarshalling bus event: %v", err)
			continue
		}
		if !strings.HasPrefix(env.Room, "complaint:") {
			continue
		}
		if text := a.format(env); text != "" {
			a.send(text)
		}
	}
}

func (a *Alerter) format(env models.Envelope) string {
	switch env.Event.Name {
	case models.EventStatusChange:
		var payload models.StatusChangePayload
		if err := json.Unmarshal(env.Event.Data, &payload); err != nil || payload.ComplaintID == nil {
			return ""
		}
		return fmt.Sprintf("Complaint #%d is now %s", *payload.ComplaintID, payload.Status)
	case models.EventNewMessage:
		var payload models.MessagePayload
		if err := json.Unmarshal(env.Event.Data, &payload); err != nil || payload.ComplaintID == nil {
			return ""
		}
		return fmt.Sprintf("New message on complaint #%d from %s (%s): %s",
			*payload.ComplaintID, payload.SenderUsername, payload.SenderRole, payload.Message)
	}
	return ""
}

func (a *Alerter) send(text string) {
	msg := tgbotapi.NewMessage(a.chatID, text)
	if _, err := a.BotAPI.Send(msg); err != nil {
		log.Printf("Error sending Telegram alert: %v", err)
	}
}
