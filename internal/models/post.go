package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post lives in a community and optionally in one of its channels.
type Post struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Content     string     `gorm:"type:text" json:"content,omitempty"`
	MediaURL    string     `gorm:"type:varchar(255)" json:"media_url,omitempty"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CommunityID uuid.UUID  `gorm:"type:uuid;not null;index" json:"community_id"`
	ChannelID   *uuid.UUID `gorm:"type:uuid" json:"channel_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Author    *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Community *Community `gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE" json:"community,omitempty"`
	Channel   *Channel   `gorm:"foreignKey:ChannelID;constraint:OnDelete:SET NULL" json:"channel,omitempty"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

func (p *Post) OwnerID() uuid.UUID      { return p.UserID }
func (p *Post) SetOwnerID(id uuid.UUID) { p.UserID = id }
