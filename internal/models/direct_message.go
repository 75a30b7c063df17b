package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DirectMessage is a one-to-one message between users. The sender owns the
// row. ReadAt stays null until the receiver reads the message.
type DirectMessage struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID uuid.UUID  `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	SentAt     time.Time  `gorm:"autoCreateTime" json:"sent_at"`
	ReadAt     *time.Time `json:"read_at"`

	Sender   *User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"receiver,omitempty"`
}

func (m *DirectMessage) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}

func (m *DirectMessage) OwnerID() uuid.UUID      { return m.SenderID }
func (m *DirectMessage) SetOwnerID(id uuid.UUID) { m.SenderID = id }
