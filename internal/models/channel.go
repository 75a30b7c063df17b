package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Channel groups posts inside a community. Channel names are unique within
// their community.
type Channel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:uk_channels_name_community" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CommunityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_channels_name_community" json:"community_id"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null" json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Community *Community `gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE" json:"community,omitempty"`
	Creator   *User      `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
}

func (ch *Channel) BeforeCreate(tx *gorm.DB) error {
	assignID(&ch.ID)
	return nil
}

func (ch *Channel) OwnerID() uuid.UUID      { return ch.CreatorID }
func (ch *Channel) SetOwnerID(id uuid.UUID) { ch.CreatorID = id }
