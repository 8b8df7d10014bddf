package notification_test

import (
	"servigo/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) AppendMessage(msg *models.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) ListMessages(key models.RoomKey) ([]models.ChatMessage, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

func (m *MockStorage) CreateNotification(n *models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockStorage) ListNotifications(recipientID uint) ([]models.Notification, error) {
	args := m.Called(recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockStorage) MarkNotificationRead(id, recipientID uint) (bool, error) {
	args := m.Called(id, recipientID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) UnreadNotificationCount(recipientID uint) (int64, error) {
	args := m.Called(recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) GetComplaintByID(id uint) (*models.Complaint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) GetServiceRequestByID(id uint) (*models.ServiceRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceRequest), args.Error(1)
}

func (m *MockStorage) UpdateComplaintStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockStorage) UpdateComplaintReply(id uint, response string) error {
	args := m.Called(id, response)
	return args.Error(0)
}

func (m *MockStorage) UpdateServiceRequestStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveWarning(w *models.Warning) error {
	args := m.Called(w)
	return args.Error(0)
}

func (m *MockStorage) ListWarningsForProvider(providerID uint) ([]models.Warning, error) {
	args := m.Called(providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Warning), args.Error(1)
}

func (m *MockStorage) PublishEvent(env models.Envelope) error {
	args := m.Called(env)
	return args.Error(0)
}

func (m *MockStorage) SubscribeEvents() *redis.PubSub {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*redis.PubSub)
}
