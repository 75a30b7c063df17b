package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendeeStatus string

const (
	AttendeeGoing      AttendeeStatus = "going"
	AttendeeInterested AttendeeStatus = "interested"
	AttendeeNotGoing   AttendeeStatus = "not_going"
)

// EventAttendee joins a user to an event; one row per (event, user).
type EventAttendee struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EventID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_event_attendees_event_user" json:"event_id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_event_attendees_event_user" json:"user_id"`
	Status       AttendeeStatus `gorm:"type:varchar(20);not null;default:'going'" json:"status"`
	RegisteredAt time.Time      `gorm:"autoCreateTime" json:"registered_at"`

	Event *Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (a *EventAttendee) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}

func (a *EventAttendee) OwnerID() uuid.UUID      { return a.UserID }
func (a *EventAttendee) SetOwnerID(id uuid.UUID) { a.UserID = id }
