package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestFulfilled RequestStatus = "fulfilled"
)

func (s RequestStatus) Valid() bool {
	return s == RequestPending || s == RequestFulfilled
}

// MaterialRequest is a user's ask for material that is not yet available.
type MaterialRequest struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	Topic       string        `gorm:"size:300;not null" json:"topic"`
	Type        ResourceType  `gorm:"type:varchar(20);not null" json:"type"`
	Branch      string        `gorm:"size:20;not null" json:"branch"`
	Semester    int           `gorm:"not null" json:"semester"`
	Subject     string        `gorm:"size:200" json:"subject"`
	RequestedBy string        `gorm:"size:100" json:"requested_by"`
	RequesterID string        `gorm:"size:36;index" json:"requester_id,omitempty"`
	RequestedAt time.Time     `gorm:"index" json:"requested_at"`
	Status      RequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	FulfilledResourceID *string `gorm:"size:36" json:"fulfilled_resource_id,omitempty"`
}

func (MaterialRequest) TableName() string {
	return "material_requests"
}

func (m *MaterialRequest) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m MaterialRequest) Clone() MaterialRequest {
	if m.FulfilledResourceID != nil {
		id := *m.FulfilledResourceID
		m.FulfilledResourceID = &id
	}
	return m
}
