package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityResourceUploaded ActivityType = "resource_uploaded"
	ActivityResourceImported ActivityType = "resource_imported"
	ActivityResourceDeleted  ActivityType = "resource_deleted"
	ActivityRequestCreated   ActivityType = "request_created"
	ActivityRequestFulfilled ActivityType = "request_fulfilled"
	ActivityUserDeleted      ActivityType = "user_deleted"
)

type Activity struct {
	ID           string       `gorm:"primaryKey;size:36" json:"id"`
	UserID       string       `gorm:"size:36;index" json:"user_id,omitempty"`
	ActivityType ActivityType `gorm:"type:varchar(50);not null;index" json:"activity_type"`
	ResourceID   string       `gorm:"size:36;index" json:"resource_id,omitempty"`
	RequestID    string       `gorm:"size:36;index" json:"request_id,omitempty"`
	Summary      string       `gorm:"size:300" json:"summary,omitempty"`
	CreatedAt    time.Time    `gorm:"index" json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	return nil
}
