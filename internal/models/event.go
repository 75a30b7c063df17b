package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	StartTime   time.Time `gorm:"not null" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
	Location    string    `gorm:"type:varchar(255)" json:"location,omitempty"`
	CommunityID uuid.UUID `gorm:"type:uuid;not null;index" json:"community_id"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null" json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Community *Community `gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE" json:"community,omitempty"`
	Creator   *User      `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
}

// BeforeSave rejects events that end before they start.
func (e *Event) BeforeSave(tx *gorm.DB) error {
	if !e.StartTime.IsZero() && !e.EndTime.IsZero() && e.EndTime.Before(e.StartTime) {
		return fmt.Errorf("%w: end_time must not be before start_time", ErrValidation)
	}
	return nil
}

// BeforeUpdate re-checks the time ordering for partial updates. The hook runs
// on the merge payload, so a bound absent from it is taken from the stored row.
func (e *Event) BeforeUpdate(tx *gorm.DB) error {
	start, end := e.StartTime, e.EndTime
	if start.IsZero() || end.IsZero() {
		stored, ok := tx.Statement.Model.(*Event)
		if !ok {
			return nil
		}
		if start.IsZero() {
			start = stored.StartTime
		}
		if end.IsZero() {
			end = stored.EndTime
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("%w: end_time must not be before start_time", ErrValidation)
	}
	return nil
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}

func (e *Event) OwnerID() uuid.UUID      { return e.CreatorID }
func (e *Event) SetOwnerID(id uuid.UUID) { e.CreatorID = id }
