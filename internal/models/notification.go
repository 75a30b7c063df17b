package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is delivered to one user. The optional (entity_type, entity_id)
// pair points at the related entity without a foreign key; known kinds are
// checked for existence before insert. Notifications only track creation time.
type Notification struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Type       string     `gorm:"type:varchar(100);not null" json:"type"`
	Message    string     `gorm:"type:text;not null" json:"message"`
	EntityType string     `gorm:"type:varchar(50)" json:"entity_type,omitempty"`
	EntityID   *uuid.UUID `gorm:"type:uuid" json:"entity_id"`
	IsRead     bool       `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time  `json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	assignID(&n.ID)

	if n.EntityID != nil {
		switch n.EntityType {
		case "Post", "Comment", "Event":
			exists, err := entityExists(tx, n.EntityType, *n.EntityID)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("%w: %s %s does not exist", ErrValidation, n.EntityType, *n.EntityID)
			}
		}
	}
	return nil
}

func (n *Notification) OwnerID() uuid.UUID      { return n.UserID }
func (n *Notification) SetOwnerID(id uuid.UUID) { n.UserID = id }
