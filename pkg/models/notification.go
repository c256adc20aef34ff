package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an in-app message for a user.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Message   string    `gorm:"not null" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// Create validates and stores the notification.
func (n *Notification) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(n,
		validation.Field(&n.UserID, validation.Required),
		validation.Field(&n.Message, validation.Required),
	); err != nil {
		return err
	}
	return db.Create(n).Error
}

// Get retrieves a notification by ID.
func (n *Notification) Get(db *gorm.DB, id uuid.UUID) error {
	return db.First(n, "id = ?", id).Error
}

// NotificationsForUser lists a user's notifications, newest first.
func NotificationsForUser(db *gorm.DB, userID uuid.UUID) ([]Notification, error) {
	var notifications []Notification
	err := db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).
		Error
	return notifications, err
}

// MarkRead flags the notification as read.
func (n *Notification) MarkRead(db *gorm.DB) error {
	if err := db.Model(n).Update("read", true).Error; err != nil {
		return err
	}
	n.Read = true
	return nil
}
